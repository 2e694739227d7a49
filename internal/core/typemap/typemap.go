// Package typemap holds the pure lookup tables keyed by field type: schema
// column type, validation rules, sample values, documentation type, default
// literal coercion and factory expressions.
//
// Types match case-sensitively against the schema builder's method names.
// Anything else is an opaque value: every table has a fallback for it.
package typemap

// category groups types that every table treats the same way.
type category int

const (
	catOpaque category = iota
	catString
	catText
	catInteger
	catFloat
	catBoolean
	catDate
	catDateTime
	catTime
	catYear
	catJSON
	catEnum
	catUUID
	catForeignID
	catEmail
	catIP
	catMAC
)

var categories = map[string]category{
	"string":             catString,
	"char":               catString,
	"text":               catText,
	"tinyText":           catText,
	"mediumText":         catText,
	"longText":           catText,
	"integer":            catInteger,
	"tinyInteger":        catInteger,
	"smallInteger":       catInteger,
	"mediumInteger":      catInteger,
	"bigInteger":         catInteger,
	"unsignedInteger":    catInteger,
	"unsignedBigInteger": catInteger,
	"float":              catFloat,
	"double":             catFloat,
	"decimal":            catFloat,
	"boolean":            catBoolean,
	"date":               catDate,
	"dateTime":           catDateTime,
	"timestamp":          catDateTime,
	"time":               catTime,
	"year":               catYear,
	"json":               catJSON,
	"jsonb":              catJSON,
	"enum":               catEnum,
	"uuid":               catUUID,
	"foreignId":          catForeignID,
	"email":              catEmail,
	"ipAddress":          catIP,
	"macAddress":         catMAC,
}

func categoryOf(typ string) category {
	return categories[typ]
}

// KnownType reports whether typ belongs to the closed type enumeration.
func KnownType(typ string) bool {
	_, ok := categories[typ]
	return ok
}

// Types returns every known type.
func Types() []string {
	types := make([]string, 0, len(categories))
	for t := range categories {
		types = append(types, t)
	}
	return types
}

// SchemaType returns the migration column method for a field type.
func SchemaType(typ string) string {
	switch categoryOf(typ) {
	case catOpaque, catEmail, catEnum:
		return "string"
	default:
		return typ
	}
}

// DisplayType returns the PHPDoc type for a field type.
func DisplayType(typ string, nullable bool) string {
	var base string
	switch categoryOf(typ) {
	case catString, catText, catDate, catDateTime, catTime,
		catEnum, catUUID, catEmail, catIP, catMAC:
		base = "string"
	case catJSON:
		base = "array"
	case catInteger, catYear, catForeignID:
		base = "int"
	case catFloat:
		base = "float"
	case catBoolean:
		base = "bool"
	default:
		base = "mixed"
	}
	if nullable && base != "mixed" {
		return base + "|null"
	}
	return base
}

// CastType returns the Eloquent attribute cast for a field type, or "" when
// the column needs none. json columns must be cast so array payloads are
// encoded on write.
func CastType(typ string) string {
	switch categoryOf(typ) {
	case catJSON:
		return "array"
	case catBoolean:
		return "boolean"
	default:
		return ""
	}
}
