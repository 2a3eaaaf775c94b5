package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderMode is the display-ordering policy a consuming renderer applies to the
// choices. The editor itself never reorders them.
type OrderMode int

const (
	OrderNone OrderMode = iota
	OrderAlphabetical
	OrderLength
)

type orderInfo struct {
	value string
	label string
}

var orderTable = [...]orderInfo{
	OrderNone:         {value: "NONE", label: "None"},
	OrderAlphabetical: {value: "ALPHA", label: "Display in Alphabetical"},
	OrderLength:       {value: "LENGTH", label: "Display in Length"},
}

// OrderModes lists every mode in selector order.
func OrderModes() []OrderMode {
	return []OrderMode{OrderNone, OrderAlphabetical, OrderLength}
}

// Valid reports whether m is one of the known modes.
func (m OrderMode) Valid() bool {
	return m >= OrderNone && int(m) < len(orderTable)
}

// String returns the wire value ("NONE", "ALPHA", "LENGTH").
func (m OrderMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("OrderMode(%d)", int(m))
	}
	return orderTable[m].value
}

// Label returns the human-facing selector text.
func (m OrderMode) Label() string {
	if !m.Valid() {
		return m.String()
	}
	return orderTable[m].label
}

// ParseOrderMode resolves a wire value. Matching ignores case and surrounding
// whitespace; "ALPHABETICAL" is accepted as an alias for "ALPHA". An empty
// string resolves to OrderNone.
func ParseOrderMode(raw string) (OrderMode, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch value {
	case "", "NONE":
		return OrderNone, nil
	case "ALPHA", "ALPHABETICAL":
		return OrderAlphabetical, nil
	case "LENGTH":
		return OrderLength, nil
	default:
		return OrderNone, fmt.Errorf("model: unknown order mode %q", raw)
	}
}

// MarshalJSON encodes the wire value.
func (m OrderMode) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("model: invalid order mode %d", int(m))
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes the wire value.
func (m *OrderMode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: order mode must be a string: %w", err)
	}
	parsed, err := ParseOrderMode(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
