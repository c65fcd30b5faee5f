package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/dsl"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Model is a loaded, structurally built decision model.
type Model struct {
	Name             string
	WillingnessToPay float64
	Decisions        []*domain.DecisionNode
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a model from a YAML or JSON file.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(data)
}

// Load reads a model from r.
func Load(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(data)
}

// Parse decodes, validates and builds a model document.
func Parse(data []byte) (*Model, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := check(doc); err != nil {
		return nil, err
	}
	return build(doc)
}

func decode(data []byte) (Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return Document{}, fmt.Errorf("parse model yaml: %w", err)
	}
	if raw == nil {
		return Document{}, &ValidationErrors{Errors: []error{
			&FieldError{Path: "Document", Reason: "empty document"},
		}}
	}

	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return Document{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Document{}, &ValidationErrors{Errors: []error{
			&FieldError{Path: "Document", Reason: err.Error()},
		}}
	}
	return doc, nil
}

func check(doc Document) error {
	var errs []error

	if err := validate.Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate model: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &FieldError{
				Path:   fe.Namespace(),
				Reason: reason(fe),
				Value:  fe.Value(),
			})
		}
	}

	// Probability is mandatory below a chance node; validator tags
	// cannot see where an entry sits in the tree.
	for i, d := range doc.Decisions {
		path := fmt.Sprintf("Document.Decisions[%d]", i)
		if !d.IsDecision() {
			errs = append(errs, &FieldError{Path: path, Reason: "top-level entries must be decisions"})
			continue
		}
		errs = append(errs, checkPlacement(d, path, true)...)
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func checkPlacement(n NodeSpec, path string, isBranch bool) []error {
	var errs []error
	if n.IsDecision() {
		if n.Probability != nil {
			errs = append(errs, &FieldError{Path: path + ".Probability", Reason: "decisions carry no probability", Value: *n.Probability})
		}
		if n.Cost != 0 || n.Utility != 0 {
			errs = append(errs, &FieldError{Path: path, Reason: "decisions carry no cost or utility"})
		}
		if len(n.Next) > 0 {
			errs = append(errs, &FieldError{Path: path + ".Next", Reason: "decisions list their options under branches"})
		}
		if len(n.Branches) == 0 {
			errs = append(errs, &FieldError{Path: path + ".Branches", Reason: "at least one branch required"})
		}
		for i, b := range n.Branches {
			bp := fmt.Sprintf("%s.Branches[%d]", path, i)
			if b.IsDecision() {
				errs = append(errs, &FieldError{Path: bp, Reason: "a decision branch must be a chance node"})
				continue
			}
			errs = append(errs, checkPlacement(b, bp, true)...)
		}
		return errs
	}

	if len(n.Branches) > 0 {
		errs = append(errs, &FieldError{Path: path + ".Branches", Reason: "chance nodes list their children under next"})
	}
	if n.Probability == nil && !isBranch {
		errs = append(errs, &FieldError{Path: path + ".Probability", Reason: "required"})
	}
	for i, c := range n.Next {
		errs = append(errs, checkPlacement(c, fmt.Sprintf("%s.Next[%d]", path, i), false)...)
	}
	return errs
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "at least " + fe.Param() + " entries required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "failed " + fe.Tag()
}

func build(doc Document) (*Model, error) {
	m := &Model{
		Name:             doc.Name,
		WillingnessToPay: doc.WillingnessToPay,
	}
	for _, spec := range doc.Decisions {
		d, err := decisionBuilder(spec).Build()
		if err != nil {
			return nil, fmt.Errorf("build decision %q: %w", spec.Name, err)
		}
		m.Decisions = append(m.Decisions, d)
	}
	return m, nil
}

func decisionBuilder(spec NodeSpec) *dsl.DecisionBuilder {
	d := dsl.Decision(spec.Name)
	for _, b := range spec.Branches {
		d.Branch(chanceBuilder(b))
	}
	return d
}

func chanceBuilder(spec NodeSpec) *dsl.ChanceBuilder {
	c := dsl.Chance(spec.Name).Cost(spec.Cost).Utility(spec.Utility)
	if spec.Probability != nil {
		c.Probability(*spec.Probability)
	}
	for _, n := range spec.Next {
		if n.IsDecision() {
			c.Then(decisionBuilder(n))
			continue
		}
		c.Then(chanceBuilder(n))
	}
	return c
}
