package validator

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// KinValidator validates documents with the kin-openapi parser.
type KinValidator struct{}

// Validate parses the contents and runs kin-openapi's full document
// validation, including reference resolution.
func (v *KinValidator) Validate(contents []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(contents)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}
