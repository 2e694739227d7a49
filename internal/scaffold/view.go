package scaffold

import (
	"fmt"
	"strings"

	"github.com/example/kiln/internal/core/typemap"
)

// view is the slot set every template renders from. It is derived from an
// EntityDescriptor and never mutated by templates.
type view struct {
	NS            string
	Name          string
	Camel         string
	Snake         string
	Table         string
	Prefix        string
	RouteParam    string
	ControllerRef string
	APIResource   bool
	Fillable      string
	Casts         string
	Properties    []string
	Relations     []relationView
	Columns       []string
	StoreRules    []ruleView
	UpdateRules   []ruleView
	Factory       []factoryView
	CreateData    string
	UpdateData    string
	PartialField  string
	PartialData   string
	SeedCount     int
}

type relationView struct {
	Method    string
	Kind      string
	KindClass string
	Related   string
}

type ruleView struct {
	Field string
	Rules string
}

type factoryView struct {
	Field string
	Expr  string
}

// SeedCount is the number of records a generated seeder creates.
const SeedCount = 10

// dataIndent is the indentation of a statement inside a generated test method.
const dataIndent = "        "

func newView(namespace string, e *EntityDescriptor) view {
	v := view{
		NS:            namespace,
		Name:          e.Name,
		Camel:         e.Camel(),
		Snake:         e.Snake(),
		Table:         e.Table(),
		Prefix:        e.RoutePrefix(),
		RouteParam:    "{" + e.Snake() + "}",
		ControllerRef: e.Name + "Controller",
		APIResource:   e.Flags.APIResource,
		SeedCount:     SeedCount,
	}

	quoted := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		quoted[i] = "'" + f.Name + "'"
	}
	v.Fillable = strings.Join(quoted, ", ")

	var casts []string
	for _, f := range e.Fields {
		if c := typemap.CastType(f.Type); c != "" {
			casts = append(casts, fmt.Sprintf("'%s' => '%s'", f.Name, c))
		}
	}
	v.Casts = strings.Join(casts, ", ")

	var create, update []string
	for _, f := range e.Fields {
		v.Properties = append(v.Properties, fmt.Sprintf("%s $%s", typemap.DisplayType(f.Type, f.Nullable), f.Name))
		v.Columns = append(v.Columns, ColumnLine(f))
		v.StoreRules = append(v.StoreRules, ruleView{
			Field: f.Name,
			Rules: strings.Join(typemap.ValidationRules(f.Type, f.Nullable, false), "|"),
		})
		v.UpdateRules = append(v.UpdateRules, ruleView{
			Field: f.Name,
			Rules: strings.Join(typemap.ValidationRules(f.Type, f.Nullable, true), "|"),
		})
		v.Factory = append(v.Factory, factoryView{Field: f.Name, Expr: typemap.FakerExpression(f.Name, f.Type)})
		create = append(create, fmt.Sprintf("'%s' => %s", f.Name, typemap.SampleValue(f.Name, f.Type, false)))
		update = append(update, fmt.Sprintf("'%s' => %s", f.Name, typemap.SampleValue(f.Name, f.Type, true)))
	}
	v.CreateData = phpArray(create, dataIndent)
	v.UpdateData = phpArray(update, dataIndent)
	if len(e.Fields) > 0 {
		v.PartialField = e.Fields[0].Name
		v.PartialData = phpArray(update[:1], dataIndent)
	}

	for _, r := range e.Relations {
		v.Relations = append(v.Relations, relationView{
			Method:    RelationMethod(r),
			Kind:      r.Kind,
			KindClass: strings.ToUpper(r.Kind[:1]) + r.Kind[1:],
			Related:   r.Related,
		})
	}

	return v
}

// ColumnLine renders the migration column for a field, without indentation.
func ColumnLine(f FieldSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "$table->%s('%s')", typemap.SchemaType(f.Type), f.Name)
	if f.Nullable {
		b.WriteString("->nullable()")
	}
	if f.Default != nil {
		fmt.Fprintf(&b, "->default(%s)", typemap.DefaultLiteral(f.Type, *f.Default))
	}
	b.WriteString(";")
	return b.String()
}

// phpArray renders entries as a multi-line PHP array literal whose closing
// bracket sits at indent.
func phpArray(entries []string, indent string) string {
	if len(entries) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, e := range entries {
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(e)
		b.WriteString(",\n")
	}
	b.WriteString(indent)
	b.WriteString("]")
	return b.String()
}
