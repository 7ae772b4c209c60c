package choice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Theme token keys read by ThemeClassesFromSelection.
const (
	TokenInputClass = "choice.input.class"
	TokenLabelClass = "choice.label.class"
)

// ThemeClasses are default class attributes applied to generated inputs and
// labels when no attribute func supplies one.
type ThemeClasses struct {
	Input string
	Label string
}

// IsZero reports whether no class is configured.
func (c ThemeClasses) IsZero() bool {
	return strings.TrimSpace(c.Input) == "" && strings.TrimSpace(c.Label) == ""
}

// ResolveThemeClasses selects a theme/variant and extracts its choice classes.
func ResolveThemeClasses(selector theme.ThemeSelector, name, variant string) (ThemeClasses, error) {
	if selector == nil {
		return ThemeClasses{}, errors.New("choice: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return ThemeClasses{}, fmt.Errorf("choice: select theme %q/%q: %w", name, variant, err)
	}
	return ThemeClassesFromSelection(selection), nil
}

// ThemeClassesFromSelection reads the choice class tokens from a selection.
// Variant tokens override manifest tokens.
func ThemeClassesFromSelection(selection *theme.Selection) ThemeClasses {
	if selection == nil || selection.Manifest == nil {
		return ThemeClasses{}
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return ThemeClasses{
		Input: strings.TrimSpace(tokens[TokenInputClass]),
		Label: strings.TrimSpace(tokens[TokenLabelClass]),
	}
}

// StaticSelector serves a fixed set of manifests keyed by theme name.
type StaticSelector struct {
	Manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector indexes manifests by name.
func NewStaticSelector(manifests ...*theme.Manifest) *StaticSelector {
	s := &StaticSelector{Manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest != nil {
			s.Manifests[manifest.Name] = manifest
		}
	}
	return s
}

// Select implements theme.ThemeSelector. An unknown variant is an error; an
// empty one selects the base manifest.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s.Manifests[name]
	if !ok {
		return nil, fmt.Errorf("choice: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("choice: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

type manifestFile struct {
	Name     string                       `json:"name" yaml:"name"`
	Version  string                       `json:"version" yaml:"version"`
	Tokens   map[string]string            `json:"tokens" yaml:"tokens"`
	Variants map[string]map[string]string `json:"variants" yaml:"variants"`
}

// ParseManifest reads the name, version, tokens and per-variant tokens of a
// theme manifest from JSON or YAML.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		if yamlErr := yaml.Unmarshal(data, &file); yamlErr != nil {
			return nil, fmt.Errorf("choice: parse theme manifest: %w", yamlErr)
		}
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("choice: theme manifest has no name")
	}
	manifest := &theme.Manifest{
		Name:    strings.TrimSpace(file.Name),
		Version: file.Version,
		Tokens:  file.Tokens,
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, tokens := range file.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: tokens}
		}
	}
	return manifest, nil
}
