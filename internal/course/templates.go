package course

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ErrMissingTemplate is returned when a template identifier does not resolve.
var ErrMissingTemplate = errors.New("template not found")

// Target is a nested object created alongside its parent instance.
type Target struct {
	Key    string
	Offset mgl64.Vec3 // local to the parent, rotated by its yaw
}

type Template struct {
	ID      string
	Kind    string
	Color   string
	Targets []Target
}

// Templates resolves opaque identifiers to placeable templates.
type Templates struct {
	byID map[string]Template
}

func NewTemplates(templates ...Template) *Templates {
	t := &Templates{byID: make(map[string]Template, len(templates))}
	for _, tpl := range templates {
		t.byID[tpl.ID] = tpl
	}
	return t
}

func (t *Templates) Resolve(id string) (Template, error) {
	if t != nil {
		if tpl, ok := t.byID[id]; ok {
			return tpl, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrMissingTemplate, id)
}

// Instantiate resolves id and builds an instance with its nested targets.
func (t *Templates) Instantiate(id string, position mgl64.Vec3, yaw, scale float64) (*Instance, error) {
	tpl, err := t.Resolve(id)
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		ID:       uuid.New(),
		Template: tpl.ID,
		Kind:     tpl.Kind,
		Position: position,
		Yaw:      yaw,
		Scale:    scale,
	}
	rotation := inst.Rotation()
	for _, target := range tpl.Targets {
		offset := rotation.Rotate(target.Offset.Mul(scale))
		inst.Children = append(inst.Children, &Instance{
			ID:       uuid.New(),
			Template: tpl.ID,
			Kind:     tpl.Kind,
			Key:      target.Key,
			Position: position.Add(offset),
			Yaw:      yaw,
			Scale:    scale,
		})
	}
	return inst, nil
}
