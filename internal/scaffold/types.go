// Package scaffold provides code generation for Laravel CRUD modules.
package scaffold

// Relation kinds understood by the model renderer.
const (
	RelationBelongsTo     = "belongsTo"
	RelationHasOne        = "hasOne"
	RelationHasMany       = "hasMany"
	RelationBelongsToMany = "belongsToMany"
)

// FieldSpec is one column of the target entity.
type FieldSpec struct {
	Name     string  // as written by the user: "due_at"
	Type     string  // schema builder type: "string", "bigInteger", ...
	Nullable bool    // emits ->nullable() and the nullable rule
	Default  *string // raw literal, coerced per type when emitted
}

// RelationSpec is one declared relation to another model.
type RelationSpec struct {
	Kind    string // belongsTo, hasOne, hasMany, belongsToMany
	Related string // model class name, never checked for existence
}

// FeatureFlags toggles optional parts of a generation run.
type FeatureFlags struct {
	SkipMigration bool
	APIResource   bool
	WithTests     bool
	WithFactory   bool
	WithSeeder    bool
}

// EntityDescriptor is the immutable input of one generation run.
type EntityDescriptor struct {
	Name      string // PascalCase: "LineItem"
	Fields    []FieldSpec
	Relations []RelationSpec
	Flags     FeatureFlags
}

// Camel returns the camelCase name: "lineItem".
func (e *EntityDescriptor) Camel() string { return ToCamelCase(e.Name) }

// Snake returns the snake_case name used as route parameter: "line_item".
func (e *EntityDescriptor) Snake() string { return ToSnakeCase(e.Name) }

// Table returns the plural snake_case table name: "line_items".
func (e *EntityDescriptor) Table() string { return Pluralize(e.Snake()) }

// RoutePrefix returns the URL prefix and route-name prefix.
func (e *EntityDescriptor) RoutePrefix() string { return e.Table() }

// FieldNames returns the field names in declaration order.
func (e *EntityDescriptor) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

// ArtifactKind names one kind of generated file.
type ArtifactKind string

// Artifact kinds, in the order a full run touches them.
const (
	KindModel               ArtifactKind = "model"
	KindMigration           ArtifactKind = "migration"
	KindController          ArtifactKind = "controller"
	KindResource            ArtifactKind = "resource"
	KindRepositoryInterface ArtifactKind = "repository_interface"
	KindRepository          ArtifactKind = "repository"
	KindService             ArtifactKind = "service"
	KindProvider            ArtifactKind = "provider"
	KindRoutes              ArtifactKind = "routes"
	KindRoutesAggregate     ArtifactKind = "routes_aggregate"
	KindBaseRequest         ArtifactKind = "base_request"
	KindStoreRequest        ArtifactKind = "store_request"
	KindUpdateRequest       ArtifactKind = "update_request"
	KindFactory             ArtifactKind = "factory"
	KindSeeder              ArtifactKind = "seeder"
	KindControllerTest      ArtifactKind = "controller_test"
	KindServiceTest         ArtifactKind = "service_test"
	KindRepositoryTest      ArtifactKind = "repository_test"
)
