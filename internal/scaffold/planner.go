package scaffold

import (
	"fmt"
	"path"

	"github.com/example/kiln/internal/core/effects"
	"github.com/example/kiln/internal/core/patch"
)

// MigrationAnchor is the line generated columns are inserted after.
const MigrationAnchor = "$table->id();"

// Layout locates a Laravel project's conventional directories, relative to
// the project root and slash separated.
type Layout struct {
	AppDir          string
	DatabaseDir     string
	RoutesDir       string
	TestsDir        string
	ProviderPath    string
	AggregateRoutes string
}

// DefaultLayout returns the stock Laravel layout.
func DefaultLayout() Layout {
	return Layout{
		AppDir:          "app",
		DatabaseDir:     "database",
		RoutesDir:       "routes",
		TestsDir:        "tests",
		ProviderPath:    "app/Providers/AppServiceProvider.php",
		AggregateRoutes: "routes/api.php",
	}
}

// MigrationGlob returns the pattern matching an entity's create migration.
func (l Layout) MigrationGlob(e *EntityDescriptor) string {
	return path.Join(l.DatabaseDir, "migrations", fmt.Sprintf("*_create_%s_table.php", e.Table()))
}

// ConflictMode decides how a step reacts to artifacts that already exist.
type ConflictMode int

const (
	// Independent writes each artifact under its own policy.
	Independent ConflictMode = iota
	// SkipStepOnConflict skips the whole step when any artifact exists.
	SkipStepOnConflict
	// AbortRunOnConflict stops the run when any artifact exists.
	AbortRunOnConflict
)

// Step is one stage of a generation run.
type Step struct {
	Name      string
	Mode      ConflictMode
	Artifacts []effects.FileEffect
}

// Plan is the ordered list of steps for one entity.
type Plan struct {
	Entity *EntityDescriptor
	Steps  []Step
}

// Artifacts returns every artifact of the plan in order.
func (p *Plan) Artifacts() []effects.FileEffect {
	var all []effects.FileEffect
	for _, s := range p.Steps {
		all = append(all, s.Artifacts...)
	}
	return all
}

// PlanOptions carries what the planner needs to know about the target
// project. Everything here is resolved by the caller before planning.
type PlanOptions struct {
	Layout                 Layout
	ExistingMigration      string // path of the create migration, "" when none
	CreateMissingMigration bool
	Timestamp              string // migration filename prefix, e.g. "2024_01_15_093000"
	InlineRoutes           bool
}

// Plan renders every artifact of a run and arranges them into steps.
func (g *Generator) Plan(e *EntityDescriptor, opts PlanOptions) (*Plan, error) {
	l := opts.Layout
	plan := &Plan{Entity: e}
	r := &planRenderer{g: g, e: e}

	app := func(parts ...string) string { return path.Join(append([]string{l.AppDir}, parts...)...) }

	// Model: create, or patch a bare model that has no fillable list yet.
	doc := r.part("model_doc")
	fillable := r.part("model_fillable")
	casts := r.part("model_casts")
	relations := r.part("model_relations")
	plan.add(Step{Name: "model", Artifacts: []effects.FileEffect{{
		Kind:    string(KindModel),
		Path:    app("Models", e.Name+".php"),
		Content: r.render(KindModel),
		Policy:  effects.PatchOrCreate,
		Patch:   patch.ModelMembers{Class: e.Name, DocBlock: doc, Fillable: fillable, Casts: casts, Relations: relations},
	}}})

	if !e.Flags.SkipMigration {
		plan.add(Step{Name: "migration", Artifacts: []effects.FileEffect{r.migration(opts)}})
	}

	controller := Step{Name: "controller", Artifacts: []effects.FileEffect{
		r.create(KindController, app("Http", "Controllers", e.Name+"Controller.php")),
	}}
	if e.Flags.APIResource {
		controller.Artifacts = append(controller.Artifacts,
			r.create(KindResource, app("Http", "Resources", e.Name+"Resource.php")))
	}
	plan.add(controller)

	plan.add(Step{Name: "repository", Mode: AbortRunOnConflict, Artifacts: []effects.FileEffect{
		r.create(KindRepositoryInterface, app("Repositories", "Contracts", e.Name+"RepositoryInterface.php")),
		r.create(KindRepository, app("Repositories", e.Name+"Repository.php")),
		r.create(KindService, app("Services", e.Name+"Service.php")),
	}})

	plan.add(Step{Name: "binding", Artifacts: []effects.FileEffect{{
		Kind:    string(KindProvider),
		Path:    l.ProviderPath,
		Content: r.render(KindProvider),
		Policy:  effects.PatchOrCreate,
		Patch: patch.ServiceBinding{
			Interface: fmt.Sprintf("%s\\Repositories\\Contracts\\%sRepositoryInterface", g.namespace, e.Name),
			Binding:   r.part("binding"),
		},
	}}})

	plan.add(r.routes(opts))

	plan.add(Step{Name: "base request", Artifacts: []effects.FileEffect{
		r.create(KindBaseRequest, app("Http", "Requests", "ApiFormRequest.php")),
	}})

	plan.add(Step{Name: "requests", Mode: SkipStepOnConflict, Artifacts: []effects.FileEffect{
		r.create(KindStoreRequest, app("Http", "Requests", e.Name, "Store"+e.Name+"Request.php")),
		r.create(KindUpdateRequest, app("Http", "Requests", e.Name, "Update"+e.Name+"Request.php")),
	}})

	if e.Flags.WithFactory {
		plan.add(Step{Name: "factory", Artifacts: []effects.FileEffect{
			r.create(KindFactory, path.Join(l.DatabaseDir, "factories", e.Name+"Factory.php")),
		}})
	}
	if e.Flags.WithSeeder {
		plan.add(Step{Name: "seeder", Artifacts: []effects.FileEffect{
			r.create(KindSeeder, path.Join(l.DatabaseDir, "seeders", e.Name+"Seeder.php")),
		}})
	}
	if e.Flags.WithTests {
		plan.add(Step{Name: "tests", Artifacts: []effects.FileEffect{
			r.create(KindControllerTest, path.Join(l.TestsDir, "Feature", e.Name+"ControllerTest.php")),
			r.create(KindServiceTest, path.Join(l.TestsDir, "Unit", e.Name+"ServiceTest.php")),
			r.create(KindRepositoryTest, path.Join(l.TestsDir, "Unit", e.Name+"RepositoryTest.php")),
		}})
	}

	if r.err != nil {
		return nil, r.err
	}
	return plan, nil
}

func (p *Plan) add(s Step) {
	p.Steps = append(p.Steps, s)
}

// planRenderer keeps the first rendering error so Plan reads linearly.
type planRenderer struct {
	g   *Generator
	e   *EntityDescriptor
	err error
}

func (r *planRenderer) render(kind ArtifactKind) string {
	if r.err != nil {
		return ""
	}
	out, err := r.g.Render(kind, r.e)
	if err != nil {
		r.err = err
	}
	return out
}

func (r *planRenderer) part(name string) string {
	if r.err != nil {
		return ""
	}
	out, err := r.g.RenderPart(name, r.e)
	if err != nil {
		r.err = err
	}
	return out
}

func (r *planRenderer) create(kind ArtifactKind, p string) effects.FileEffect {
	return effects.FileEffect{
		Kind:    string(kind),
		Path:    p,
		Content: r.render(kind),
		Policy:  effects.RefuseIfExists,
	}
}

func (r *planRenderer) migration(opts PlanOptions) effects.FileEffect {
	columns := make([]patch.MigrationColumn, len(r.e.Fields))
	for i, f := range r.e.Fields {
		columns[i] = patch.MigrationColumn{Name: f.Name, Line: ColumnLine(f)}
	}
	patcher := patch.MigrationColumns{Anchor: MigrationAnchor, Columns: columns}

	eff := effects.FileEffect{
		Kind:   string(KindMigration),
		Policy: effects.PatchOrCreate,
		Patch:  patcher,
	}
	switch {
	case opts.ExistingMigration != "":
		eff.Path = opts.ExistingMigration
	case opts.CreateMissingMigration:
		eff.Path = path.Join(opts.Layout.DatabaseDir, "migrations",
			fmt.Sprintf("%s_create_%s_table.php", opts.Timestamp, r.e.Table()))
		eff.Content = r.render(KindMigration)
	default:
		// Nothing to patch and nothing to create from: the write reports it.
		eff.Path = opts.Layout.MigrationGlob(r.e)
	}
	return eff
}

func (r *planRenderer) routes(opts PlanOptions) Step {
	l := opts.Layout
	e := r.e
	marker := "// Routes for " + e.Name
	header := r.part("routes_header")

	if opts.InlineRoutes {
		group := ""
		if r.err == nil {
			group, r.err = r.g.RenderInlineRoutes(e)
		}
		return Step{Name: "routes", Artifacts: []effects.FileEffect{{
			Kind:    string(KindRoutesAggregate),
			Path:    l.AggregateRoutes,
			Content: header + "\n\n" + group + "\n",
			Policy:  effects.AppendIfAbsent,
			Patch:   patch.AppendBlock{Markers: []string{marker}, Block: group + "\n"},
		}}}
	}

	require := r.part("routes_require")
	file := e.RoutePrefix() + ".php"
	return Step{Name: "routes", Artifacts: []effects.FileEffect{
		r.create(KindRoutes, path.Join(l.RoutesDir, "api", file)),
		{
			Kind:    string(KindRoutesAggregate),
			Path:    l.AggregateRoutes,
			Content: header + "\n\n" + require + "\n",
			Policy:  effects.AppendIfAbsent,
			Patch: patch.AppendBlock{
				Markers: []string{marker, "/api/" + file + "'"},
				Block:   require + "\n",
			},
		},
	}}
}
