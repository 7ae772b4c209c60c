package choice

import (
	"fmt"
	"strings"
)

// LabelPosition places a choice label relative to its input.
type LabelPosition int

const (
	// After renders the label after the input. It is the default.
	After LabelPosition = iota
	// Before renders the label before the input.
	Before
	// WrapBefore wraps the input in the label, text first.
	WrapBefore
	// WrapAfter wraps the input in the label, text last.
	WrapAfter
)

var labelPositionNames = map[LabelPosition]string{
	After:      "after",
	Before:     "before",
	WrapBefore: "wrap_before",
	WrapAfter:  "wrap_after",
}

func (p LabelPosition) String() string {
	if name, ok := labelPositionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("LabelPosition(%d)", int(p))
}

// Wraps reports whether the label element encloses the input.
func (p LabelPosition) Wraps() bool {
	return p == WrapBefore || p == WrapAfter
}

// ParseLabelPosition accepts the names returned by String, case-insensitive,
// with '-' or '_' separators. An empty string yields After.
func ParseLabelPosition(raw string) (LabelPosition, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if normalized == "" {
		return After, nil
	}
	for position, name := range labelPositionNames {
		if name == normalized {
			return position, nil
		}
	}
	return After, fmt.Errorf("choice: unknown label position %q", raw)
}

// MarshalText implements encoding.TextMarshaler.
func (p LabelPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *LabelPosition) UnmarshalText(text []byte) error {
	parsed, err := ParseLabelPosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
