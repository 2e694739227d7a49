package scaffold

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	words := splitWords(s)
	caser := cases.Title(language.English)
	for i, word := range words {
		words[i] = caser.String(word)
	}
	return strings.Join(words, "")
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// splitWords splits camelCase, PascalCase, snake_case, kebab-case and
// space separated input into words.
func splitWords(s string) []string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if !unicode.IsSpace(prev) && !unicode.IsUpper(prev) {
				result.WriteRune(' ')
			}
		}
		result.WriteRune(r)
	}

	return strings.Fields(result.String())
}

// Pluralize returns the English plural of the last word.
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	return inflection.Plural(s)
}

// RelationMethod returns the accessor name for a relation: singular for
// belongsTo/hasOne, plural for hasMany/belongsToMany.
func RelationMethod(r RelationSpec) string {
	switch r.Kind {
	case RelationHasMany, RelationBelongsToMany:
		return ToCamelCase(Pluralize(r.Related))
	default:
		return ToCamelCase(r.Related)
	}
}
