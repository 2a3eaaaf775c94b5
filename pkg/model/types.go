package model

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxChoices caps the number of choices a draft may hold unless the
// editor is configured otherwise.
const DefaultMaxChoices = 2

// Choice is one selectable option value plus its generated identifier. The
// JSON tags match the wire shape expected by the form-creation service.
type Choice struct {
	Text string `json:"Choice"`
	ID   string `json:"_id"`
}

// Draft is the in-progress field definition held by an editor. The zero value
// is the cleared draft.
type Draft struct {
	Label         string    `json:"label"`
	MultiSelect   bool      `json:"multiSelect"`
	DefaultValue  string    `json:"defaultValue"`
	Choices       []Choice  `json:"choices"`
	Order         OrderMode `json:"order"`
	PendingChoice string    `json:"pendingChoice"`
}

// Clone returns a deep copy so callers cannot mutate editor state through the
// choices slice.
func (d Draft) Clone() Draft {
	out := d
	if d.Choices != nil {
		out.Choices = append([]Choice(nil), d.Choices...)
	}
	return out
}

// IndexOf returns the position of the choice whose text matches exactly, or -1.
func (d Draft) IndexOf(text string) int {
	for i, choice := range d.Choices {
		if choice.Text == text {
			return i
		}
	}
	return -1
}

// HasChoice reports whether a choice with the exact text exists.
func (d Draft) HasChoice(text string) bool {
	return d.IndexOf(text) >= 0
}

// Definition is the immutable snapshot sent to the form-creation service.
// Field order and casing are fixed for compatibility.
type Definition struct {
	Label        string    `json:"Label"`
	MultiSelect  bool      `json:"multiSelect"`
	DefaultValue string    `json:"defaultValue"`
	Choices      []Choice  `json:"choices"`
	Order        OrderMode `json:"order"`
}

// NewDefinition snapshots the draft into a Definition.
func NewDefinition(d Draft) Definition {
	return Definition{
		Label:        d.Label,
		MultiSelect:  d.MultiSelect,
		DefaultValue: d.DefaultValue,
		Choices:      append([]Choice{}, d.Choices...),
		Order:        d.Order,
	}
}

// MarshalJSON keeps an empty choice list encoded as [] rather than null.
func (d Definition) MarshalJSON() ([]byte, error) {
	type wire Definition
	out := wire(d)
	if out.Choices == nil {
		out.Choices = []Choice{}
	}
	return json.Marshal(out)
}

// Encode serializes the definition into the wire document.
func (d Definition) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("model: encode definition: %w", err)
	}
	return data, nil
}

// DecodeDefinition parses a wire document back into a Definition.
func DecodeDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("model: decode definition: %w", err)
	}
	return def, nil
}
