// Package validator checks rendered OpenAPI documents before they are
// persisted. Two schema providers are supported, mirroring the parsers the
// documents are usually consumed with.
package validator

import (
	"errors"
	"fmt"
)

// Provider selects the validation implementation.
type Provider string

const (
	// ProviderNone disables output validation.
	ProviderNone Provider = "none"

	// ProviderKin validates with getkin/kin-openapi.
	ProviderKin Provider = "kin"

	// ProviderLibOpenAPI validates with pb33f/libopenapi.
	ProviderLibOpenAPI Provider = "libopenapi"
)

var (
	ErrUnknownProvider = errors.New("unknown validation provider")
)

// Validator validates the contents of an OpenAPI document.
type Validator interface {
	Validate(contents []byte) error
}

// NewValidator returns a Validator for the given provider.
// ProviderNone (or an empty provider) returns nil: validation is opt-in.
func NewValidator(provider Provider) (Validator, error) {
	switch provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderKin:
		return &KinValidator{}, nil
	case ProviderLibOpenAPI:
		return &LibOpenAPIValidator{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}
