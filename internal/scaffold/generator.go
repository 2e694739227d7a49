package scaffold

import (
	"bytes"
	"fmt"
	"text/template"

	scaffoldtmpl "github.com/example/kiln/internal/templates/scaffold"
)

// DefaultNamespace is the root PHP namespace of a Laravel application.
const DefaultNamespace = "App"

// templateFor maps each artifact kind to its template.
var templateFor = map[ArtifactKind]string{
	KindModel:               "model.tmpl",
	KindMigration:           "migration.tmpl",
	KindController:          "controller.tmpl",
	KindResource:            "resource.tmpl",
	KindRepositoryInterface: "repository_interface.tmpl",
	KindRepository:          "repository.tmpl",
	KindService:             "service.tmpl",
	KindProvider:            "provider.tmpl",
	KindRoutes:              "routes.tmpl",
	KindBaseRequest:         "base_request.tmpl",
	KindStoreRequest:        "store_request.tmpl",
	KindUpdateRequest:       "update_request.tmpl",
	KindFactory:             "factory.tmpl",
	KindSeeder:              "seeder.tmpl",
	KindControllerTest:      "controller_test.tmpl",
	KindServiceTest:         "service_test.tmpl",
	KindRepositoryTest:      "repository_test.tmpl",
}

// Generator renders artifacts from templates. Rendering is a pure function
// of the descriptor: no clock, no randomness, no filesystem.
type Generator struct {
	tmpl      *template.Template
	namespace string
}

// NewGenerator creates a Generator over the embedded templates, optionally
// overridden by templates found in overrideDir.
func NewGenerator(namespace, overrideDir string) (*Generator, error) {
	tmpl, err := scaffoldtmpl.Load(overrideDir)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Generator{tmpl: tmpl, namespace: namespace}, nil
}

// Render produces the full content of one artifact kind.
func (g *Generator) Render(kind ArtifactKind, e *EntityDescriptor) (string, error) {
	name, ok := templateFor[kind]
	if !ok {
		return "", fmt.Errorf("no template for artifact kind %q", kind)
	}
	return g.execute(name, newView(g.namespace, e))
}

// RenderPart renders a named partial: model_doc, model_fillable,
// model_casts, model_relations, binding, route_group, routes_require or routes_header.
func (g *Generator) RenderPart(part string, e *EntityDescriptor) (string, error) {
	return g.execute(part, newView(g.namespace, e))
}

// RenderInlineRoutes renders the route group with fully qualified
// controller references, for appending to the aggregate route file.
func (g *Generator) RenderInlineRoutes(e *EntityDescriptor) (string, error) {
	v := newView(g.namespace, e)
	v.ControllerRef = "\\" + g.namespace + "\\Http\\Controllers\\" + e.Name + "Controller"
	return g.execute("route_group", v)
}

func (g *Generator) execute(name string, v view) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
