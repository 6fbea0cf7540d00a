package resources

import (
	"encoding/json"
	"fmt"
)

type ExpressionBlend int

const (
	ExpressionBlendAdd ExpressionBlend = iota
	ExpressionBlendMultiply
	ExpressionBlendOverwrite
)

func (b ExpressionBlend) String() string {
	switch b {
	case ExpressionBlendMultiply:
		return "Multiply"
	case ExpressionBlendOverwrite:
		return "Overwrite"
	default:
		return "Add"
	}
}

func (b ExpressionBlend) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts the blend names. A missing blend is Add.
func (b *ExpressionBlend) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "", "Add":
		*b = ExpressionBlendAdd
	case "Multiply":
		*b = ExpressionBlendMultiply
	case "Overwrite":
		*b = ExpressionBlendOverwrite
	default:
		return fmt.Errorf("unknown expression blend %q", s)
	}
	return nil
}

// Expression3 is an expression file (*.exp3.json).
type Expression3 struct {
	Type        string                `json:"Type"`
	FadeInTime  *float32              `json:"FadeInTime,omitempty"`
	FadeOutTime *float32              `json:"FadeOutTime,omitempty"`
	Parameters  []ExpressionParameter `json:"Parameters"`
}

type ExpressionParameter struct {
	ID    string          `json:"Id"`
	Value float32         `json:"Value"`
	Blend ExpressionBlend `json:"Blend"`
}
