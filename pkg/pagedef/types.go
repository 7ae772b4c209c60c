// Package pagedef builds pages from declarative JSON or YAML definitions.
package pagedef

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Component types understood by the default registry.
const (
	TypeContainer  = "container"
	TypeCheckGroup = "checkgroup"
	TypeRadio      = "radio"
)

// Definition describes a page: its markup, the values rules are evaluated
// against and the component tree bound to the markup.
type Definition struct {
	Title      string         `json:"title" yaml:"title"`
	Markup     string         `json:"markup" yaml:"markup"`
	Template   string         `json:"template" yaml:"template"`
	Values     map[string]any `json:"values" yaml:"values"`
	Components []Component    `json:"components" yaml:"components"`
}

// Component describes one node of the tree. Choice fields only apply to
// choice types.
type Component struct {
	ID       string `json:"id" yaml:"id"`
	Type     string `json:"type" yaml:"type"`
	MarkupID string `json:"markupId" yaml:"markupId"`

	Choices     []string     `json:"choices" yaml:"choices"`
	ChoicesFrom *ChoicesFrom `json:"choicesFrom" yaml:"choicesFrom"`
	Selected    []string     `json:"selected" yaml:"selected"`

	Prefix        string `json:"prefix" yaml:"prefix"`
	Suffix        string `json:"suffix" yaml:"suffix"`
	LabelPosition string `json:"labelPosition" yaml:"labelPosition"`
	LabelMode     string `json:"labelMode" yaml:"labelMode"`
	InputClass    string `json:"inputClass" yaml:"inputClass"`
	LabelClass    string `json:"labelClass" yaml:"labelClass"`

	Visible               *bool  `json:"visible" yaml:"visible"`
	VisibilityAllowed     *bool  `json:"visibilityAllowed" yaml:"visibilityAllowed"`
	Enabled               *bool  `json:"enabled" yaml:"enabled"`
	VisibleWhen           string `json:"visibleWhen" yaml:"visibleWhen"`
	VisibilityAllowedWhen string `json:"visibilityAllowedWhen" yaml:"visibilityAllowedWhen"`
	EnabledWhen           string `json:"enabledWhen" yaml:"enabledWhen"`

	Children []Component `json:"children" yaml:"children"`
}

// ChoicesFrom points at an enum in an OpenAPI document.
type ChoicesFrom struct {
	Document  string `json:"document" yaml:"document"`
	Operation string `json:"operation" yaml:"operation"`
	Property  string `json:"property" yaml:"property"`
	// UseLabels displays the x-enum-labels of the enum instead of its values.
	UseLabels bool `json:"useLabels" yaml:"useLabels"`
}

// LoadFile reads and parses a definition file.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("pagedef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a JSON or YAML definition and validates it. source names the
// input in errors.
func Parse(data []byte, source string) (Definition, error) {
	var def Definition
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("pagedef: %s is empty", source)
	}
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if yamlErr := yaml.Unmarshal(data, &def); yamlErr != nil {
			return Definition{}, fmt.Errorf("pagedef: parse %s: %w", source, yamlErr)
		}
	}
	if err := def.Validate(); err != nil {
		return Definition{}, fmt.Errorf("pagedef: %s: %w", source, err)
	}
	return def, nil
}

// Validate checks markup presence and sibling id uniqueness.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Markup) == "" && strings.TrimSpace(d.Template) == "" {
		return fmt.Errorf("markup or template is required")
	}
	return validateComponents(d.Components, "")
}

func validateComponents(components []Component, parent string) error {
	seen := make(map[string]struct{}, len(components))
	for _, c := range components {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("component under %q has no id", parent)
		}
		path := id
		if parent != "" {
			path = parent + ":" + id
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("duplicate component id %q", path)
		}
		seen[id] = struct{}{}
		if c.ChoicesFrom != nil && len(c.Choices) > 0 {
			return fmt.Errorf("component %q sets both choices and choicesFrom", path)
		}
		if err := validateComponents(c.Children, path); err != nil {
			return err
		}
	}
	return nil
}
