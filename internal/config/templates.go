package config

import "fmt"

// Template kinds understood by the placers.
const (
	KindMarker = "marker"
	KindGreen  = "green"
	KindSign   = "sign"
	KindTree   = "tree"
)

// TemplateDefinition declares a placeable object. Targets are nested objects
// created with every instance and registered under their key.
type TemplateDefinition struct {
	ID      string             `yaml:"id" json:"id"`
	Kind    string             `yaml:"kind" json:"kind"`
	Color   string             `yaml:"color" json:"color"`
	Targets []TargetDefinition `yaml:"targets,omitempty" json:"targets,omitempty"`
}

type TargetDefinition struct {
	Key    string `yaml:"key" json:"key"`
	Offset Point3 `yaml:"offset" json:"offset"`
}

// DefaultTemplates returns the stock feature and decoration set.
func DefaultTemplates() []TemplateDefinition {
	return []TemplateDefinition{
		{ID: "tee_marker", Kind: KindMarker, Color: "#F5F5F5"},
		{
			ID:    "green_complex",
			Kind:  KindGreen,
			Color: "#3FA34D",
			Targets: []TargetDefinition{
				{Key: "hole_target", Offset: Point3{X: 0, Y: 0, Z: 0}},
			},
		},
		{ID: "hole_sign", Kind: KindSign, Color: "#8B5A2B"},
		{ID: "pine_tall", Kind: KindTree, Color: "#1F5E3A"},
		{ID: "pine_short", Kind: KindTree, Color: "#2E7048"},
		{ID: "oak_round", Kind: KindTree, Color: "#4A7F2C"},
		{ID: "birch_slim", Kind: KindTree, Color: "#8DB255"},
	}
}

func validateTemplates(templates []TemplateDefinition) error {
	seen := make(map[string]struct{}, len(templates))
	for i, tpl := range templates {
		if tpl.ID == "" {
			return fmt.Errorf("templates[%d].id must be set", i)
		}
		if _, ok := seen[tpl.ID]; ok {
			return fmt.Errorf("templates[%d].id %q is duplicated", i, tpl.ID)
		}
		seen[tpl.ID] = struct{}{}
		switch tpl.Kind {
		case KindMarker, KindGreen, KindSign, KindTree:
		default:
			return fmt.Errorf("templates[%d].kind %q is not supported", i, tpl.Kind)
		}
		if tpl.Color != "" && !isValidHexColor(tpl.Color) {
			return fmt.Errorf("templates[%d].color must be a hex RGB value", i)
		}
		for j, target := range tpl.Targets {
			if target.Key == "" {
				return fmt.Errorf("templates[%d].targets[%d].key must be set", i, j)
			}
		}
	}
	return nil
}

func isValidHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, ch := range s[1:] {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
