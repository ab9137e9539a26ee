package validator

import (
	"strings"

	"github.com/pb33f/libopenapi"
)

// LibOpenAPIValidator validates documents with the libopenapi parser.
type LibOpenAPIValidator struct{}

// Validate parses the contents and builds the version-specific model.
// Only the first build error is returned.
func (v *LibOpenAPIValidator) Validate(contents []byte) error {
	doc, err := libopenapi.NewDocument(contents)
	if err != nil {
		return err
	}

	if strings.HasPrefix(doc.GetVersion(), "2.") {
		_, errs := doc.BuildV2Model()
		if len(errs) > 0 {
			return errs[0]
		}
		return nil
	}

	_, errs := doc.BuildV3Model()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
