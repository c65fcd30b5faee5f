package dto

import (
	"errors"
	"fmt"

	"github.com/aretw0/canopy/pkg/loader"
)

// FieldIssue is one problem found in a submitted document.
type FieldIssue struct {
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

// FromValidationErrors flattens loader validation failures.
func FromValidationErrors(verrs *loader.ValidationErrors) []FieldIssue {
	out := make([]FieldIssue, 0, len(verrs.Errors))
	for _, err := range verrs.Errors {
		var fe *loader.FieldError
		if !errors.As(err, &fe) {
			out = append(out, FieldIssue{Reason: err.Error()})
			continue
		}
		issue := FieldIssue{Path: fe.Path, Reason: fe.Reason}
		if fe.Value != nil {
			issue.Value = fmt.Sprint(fe.Value)
		}
		out = append(out, issue)
	}
	return out
}
