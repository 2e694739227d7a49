package scaffold

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/example/kiln/internal/core/typemap"
)

// ErrInvalidEntityName is returned when a raw entity name cannot be
// normalized into a class identifier.
var ErrInvalidEntityName = errors.New("invalid entity name")

// identPattern matches names that can be emitted unquoted as PHP property,
// column and class identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultFields is used when no --fields spec is given.
func DefaultFields() []FieldSpec {
	on := "true"
	return []FieldSpec{
		{Name: "name", Type: "string"},
		{Name: "description", Type: "text", Nullable: true},
		{Name: "status", Type: "boolean", Default: &on},
	}
}

// ParseFields parses the --fields DSL.
// Format: "name:type[:nullable][:default=value],..."
// Entries with fewer than two tokens, or whose name is not an identifier,
// are dropped without error.
func ParseFields(spec string) []FieldSpec {
	fields, _ := ParseFieldsStrict(spec)
	return fields
}

// ParseFieldsStrict parses like ParseFields and also reports every entry it
// dropped or could not fully understand.
func ParseFieldsStrict(spec string) ([]FieldSpec, []string) {
	if strings.TrimSpace(spec) == "" {
		return DefaultFields(), nil
	}

	var fields []FieldSpec
	var warnings []string
	seen := make(map[string]int)

	for _, entry := range strings.Split(spec, ",") {
		tokens := strings.Split(entry, ":")
		if len(tokens) < 2 {
			if strings.TrimSpace(entry) != "" {
				warnings = append(warnings, fmt.Sprintf("dropped field entry %q: expected name:type", strings.TrimSpace(entry)))
			}
			continue
		}

		name := strings.TrimSpace(tokens[0])
		typ := strings.TrimSpace(tokens[1])
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("dropped field entry %q: empty name", strings.TrimSpace(entry)))
			continue
		}
		if !identPattern.MatchString(name) {
			warnings = append(warnings, fmt.Sprintf("dropped field entry %q: %q is not a valid column name", strings.TrimSpace(entry), name))
			continue
		}
		if !typemap.KnownType(typ) {
			warnings = append(warnings, fmt.Sprintf("field %q has unknown type %q", name, typ))
		}

		field := FieldSpec{Name: name, Type: typ}
		for _, opt := range tokens[2:] {
			opt = strings.TrimSpace(opt)
			switch {
			case opt == "nullable":
				field.Nullable = true
			case strings.HasPrefix(opt, "default="):
				v := strings.TrimPrefix(opt, "default=")
				field.Default = &v
			case opt != "":
				warnings = append(warnings, fmt.Sprintf("field %q: ignored modifier %q", name, opt))
			}
		}

		// A repeated name replaces the earlier entry in place.
		if i, ok := seen[name]; ok {
			fields[i] = field
			continue
		}
		seen[name] = len(fields)
		fields = append(fields, field)
	}

	return fields, warnings
}

// ParseRelations parses the --with-relations DSL.
// Format: "kind:Related,..."
func ParseRelations(spec string) []RelationSpec {
	relations, _ := ParseRelationsStrict(spec)
	return relations
}

// ParseRelationsStrict parses like ParseRelations and reports dropped entries
// and unknown relation kinds.
func ParseRelationsStrict(spec string) ([]RelationSpec, []string) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var relations []RelationSpec
	var warnings []string

	for _, entry := range strings.Split(spec, ",") {
		tokens := strings.Split(entry, ":")
		if len(tokens) < 2 {
			if strings.TrimSpace(entry) != "" {
				warnings = append(warnings, fmt.Sprintf("dropped relation entry %q: expected kind:Model", strings.TrimSpace(entry)))
			}
			continue
		}

		kind := strings.TrimSpace(tokens[0])
		related := strings.TrimSpace(tokens[1])
		if kind == "" || related == "" {
			warnings = append(warnings, fmt.Sprintf("dropped relation entry %q: empty kind or model", strings.TrimSpace(entry)))
			continue
		}
		if !identPattern.MatchString(related) {
			warnings = append(warnings, fmt.Sprintf("dropped relation entry %q: %q is not a valid class name", strings.TrimSpace(entry), related))
			continue
		}
		if !isRelationKind(kind) {
			warnings = append(warnings, fmt.Sprintf("relation %q has unknown kind %q", related, kind))
		}
		relations = append(relations, RelationSpec{Kind: kind, Related: related})
	}

	return relations, warnings
}

func isRelationKind(kind string) bool {
	switch kind {
	case RelationBelongsTo, RelationHasOne, RelationHasMany, RelationBelongsToMany:
		return true
	}
	return false
}

// FormatField serializes a field back into the DSL.
func FormatField(f FieldSpec) string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(":")
	b.WriteString(f.Type)
	if f.Nullable {
		b.WriteString(":nullable")
	}
	if f.Default != nil {
		b.WriteString(":default=")
		b.WriteString(*f.Default)
	}
	return b.String()
}

// FormatFields serializes a field list back into the DSL.
func FormatFields(fields []FieldSpec) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = FormatField(f)
	}
	return strings.Join(parts, ",")
}

// FormatRelations serializes a relation list back into the DSL.
func FormatRelations(relations []RelationSpec) string {
	parts := make([]string, len(relations))
	for i, r := range relations {
		parts[i] = r.Kind + ":" + r.Related
	}
	return strings.Join(parts, ",")
}

var classNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// reservedWords are PHP keywords that cannot name a class.
var reservedWords = map[string]bool{
	"abstract": true, "and": true, "array": true, "as": true, "break": true,
	"callable": true, "case": true, "catch": true, "class": true, "clone": true,
	"const": true, "continue": true, "declare": true, "default": true, "do": true,
	"echo": true, "else": true, "empty": true, "enum": true, "eval": true,
	"exit": true, "extends": true, "final": true, "fn": true, "for": true,
	"foreach": true, "function": true, "global": true, "goto": true, "if": true,
	"implements": true, "include": true, "instanceof": true, "interface": true,
	"isset": true, "list": true, "match": true, "namespace": true, "new": true,
	"or": true, "print": true, "private": true, "protected": true, "public": true,
	"readonly": true, "require": true, "return": true, "static": true,
	"switch": true, "throw": true, "trait": true, "try": true, "unset": true,
	"use": true, "var": true, "while": true, "xor": true, "yield": true,
	"null": true, "true": true, "false": true, "self": true, "parent": true,
}

// NormalizeEntityName turns user input ("line-item", "line_item") into a
// class name ("LineItem").
func NormalizeEntityName(raw string) (string, error) {
	name := ToPascalCase(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("%w: %q is empty after normalization", ErrInvalidEntityName, raw)
	}
	if !classNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q is not a valid class name", ErrInvalidEntityName, name)
	}
	if reservedWords[strings.ToLower(name)] {
		return "", fmt.Errorf("%w: %q is a reserved word", ErrInvalidEntityName, name)
	}
	return name, nil
}

// NewEntityDescriptor validates the name and assembles a descriptor.
func NewEntityDescriptor(rawName string, fields []FieldSpec, relations []RelationSpec, flags FeatureFlags) (*EntityDescriptor, error) {
	name, err := NormalizeEntityName(rawName)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	return &EntityDescriptor{
		Name:      name,
		Fields:    fields,
		Relations: relations,
		Flags:     flags,
	}, nil
}
