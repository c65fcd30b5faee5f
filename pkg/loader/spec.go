package loader

// NodeType values accepted in the "type" field.
const (
	TypeDecision = "decision"
	TypeChance   = "chance"
)

// Document is the raw shape of a model file.
type Document struct {
	Name             string     `mapstructure:"name"`
	WillingnessToPay float64    `mapstructure:"willingness_to_pay" validate:"gte=0"`
	Decisions        []NodeSpec `mapstructure:"decisions" validate:"required,min=1,dive"`
}

// NodeSpec is one node entry of a Document.
type NodeSpec struct {
	Name string `mapstructure:"name" validate:"required"`
	Type string `mapstructure:"type" validate:"omitempty,oneof=decision chance"`

	// Probability is required on chance nodes except decision branches,
	// where it defaults to 1.
	Probability *float64 `mapstructure:"probability" validate:"omitempty,gte=0,lte=1"`
	Cost        float64  `mapstructure:"cost"`
	Utility     float64  `mapstructure:"utility"`

	Next     []NodeSpec `mapstructure:"next" validate:"dive"`
	Branches []NodeSpec `mapstructure:"branches" validate:"dive"`
}

// IsDecision reports whether the entry describes a decision node.
func (n NodeSpec) IsDecision() bool {
	if n.Type != "" {
		return n.Type == TypeDecision
	}
	return len(n.Branches) > 0
}
