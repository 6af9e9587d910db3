package generator

import (
	"github.com/go-gl/mathgl/mgl64"

	"coursegen/internal/config"
	"coursegen/internal/course"
)

// TemplatesFromConfig builds the template registry from configured definitions.
func TemplatesFromConfig(defs []config.TemplateDefinition) *course.Templates {
	templates := make([]course.Template, 0, len(defs))
	for _, def := range defs {
		tpl := course.Template{ID: def.ID, Kind: def.Kind, Color: def.Color}
		for _, target := range def.Targets {
			tpl.Targets = append(tpl.Targets, course.Target{
				Key:    target.Key,
				Offset: mgl64.Vec3{target.Offset.X, target.Offset.Y, target.Offset.Z},
			})
		}
		templates = append(templates, tpl)
	}
	return course.NewTemplates(templates...)
}
