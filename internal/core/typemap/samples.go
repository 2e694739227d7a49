package typemap

import (
	"regexp"
	"strings"
)

const updatePrefix = "updated_"

var (
	emailName       = regexp.MustCompile(`(?i)(email|correo)`)
	titleName       = regexp.MustCompile(`(?i)(title|titulo)`)
	nameName        = regexp.MustCompile(`(?i)(name|nombre)`)
	descriptionName = regexp.MustCompile(`(?i)(description|descripcion|detail)`)
	urlName         = regexp.MustCompile(`(?i)(url|link|enlace)`)
	imageName       = regexp.MustCompile(`(?i)(image|imagen|photo|foto)`)
	priceName       = regexp.MustCompile(`(?i)(price|precio|cost)`)
	stockName       = regexp.MustCompile(`(?i)(stock|quantity|cantidad)`)
)

// SampleValue returns a deterministic PHP literal for a field, used by
// generated tests. The update variant always differs from the create variant.
//
// Name patterns win over the type for free-form types (strings, text,
// numbers, opaque). Types with a strict format (booleans, dates, json,
// uuid, addresses, foreign keys) always use the type value.
func SampleValue(name, typ string, update bool) string {
	cat := categoryOf(typ)
	if nameDriven(cat) {
		if v, ok := sampleByName(name, cat, update); ok {
			return v
		}
	}
	return sampleByType(name, typ, cat, update)
}

func nameDriven(cat category) bool {
	switch cat {
	case catString, catText, catInteger, catFloat, catOpaque:
		return true
	}
	return false
}

func sampleByName(name string, cat category, update bool) (string, bool) {
	p := ""
	if update {
		p = updatePrefix
	}

	switch {
	case emailName.MatchString(name):
		return quote(p + "test@example.com"), true
	case titleName.MatchString(name):
		return quote(p + "Test Title"), true
	case nameName.MatchString(name):
		return quote(p + "Test Name"), true
	case descriptionName.MatchString(name):
		return quote(p + "Test Description"), true
	case urlName.MatchString(name):
		return quote("https://example.com/" + p + "test"), true
	case imageName.MatchString(name):
		return quote("https://example.com/images/" + p + "test.png"), true
	case priceName.MatchString(name):
		if cat == catInteger {
			return pick(update, "1999", "2999"), true
		}
		return pick(update, "19.99", "29.99"), true
	case stockName.MatchString(name):
		return pick(update, "10", "20"), true
	}
	return "", false
}

func sampleByType(name, typ string, cat category, update bool) string {
	p := ""
	if update {
		p = updatePrefix
	}

	switch cat {
	case catString:
		return quote(p + "test_" + name)
	case catEmail:
		return quote(p + "test@example.com")
	case catText:
		return quote(p + "This is a test text for " + name)
	case catInteger:
		if typ == "tinyInteger" {
			return pick(update, "1", "2")
		}
		return pick(update, "100", "200")
	case catFloat:
		return pick(update, "1.5", "2.75")
	case catBoolean:
		return pick(update, "true", "false")
	case catDate:
		return pick(update, "'2024-01-15'", "'2024-01-22'")
	case catDateTime:
		return pick(update, "'2024-01-15 10:00:00'", "'2024-01-22 10:00:00'")
	case catTime:
		return pick(update, "'10:00:00'", "'11:00:00'")
	case catYear:
		return pick(update, "2024", "2025")
	case catJSON:
		return pick(update, "['test' => 'value']", "['test' => 'updated']")
	case catEnum:
		return pick(update, "'option1'", "'option2'")
	case catUUID:
		return pick(update, "'9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d'", "'1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed'")
	case catForeignID:
		return pick(update, "1", "2")
	case catIP:
		return pick(update, "'192.168.0.1'", "'192.168.0.2'")
	case catMAC:
		return pick(update, "'00:1A:2B:3C:4D:5E'", "'00:1A:2B:3C:4D:5F'")
	default:
		return quote(p + "test_value")
	}
}

// FakerExpression returns the faker call used by generated factories.
func FakerExpression(name, typ string) string {
	switch {
	case emailName.MatchString(name):
		return "fake()->safeEmail()"
	case titleName.MatchString(name):
		return "fake()->sentence(3)"
	case nameName.MatchString(name):
		return "fake()->name()"
	case descriptionName.MatchString(name):
		return "fake()->paragraph(2)"
	case urlName.MatchString(name):
		return "fake()->url()"
	case imageName.MatchString(name):
		return "fake()->imageUrl(640, 480)"
	case priceName.MatchString(name):
		return "fake()->randomFloat(2, 10, 1000)"
	case stockName.MatchString(name):
		return "fake()->randomNumber(2)"
	}

	switch categoryOf(typ) {
	case catString, catEnum:
		return "fake()->word()"
	case catText:
		return "fake()->paragraph()"
	case catInteger:
		return "fake()->numberBetween(1, 1000)"
	case catFloat:
		return "fake()->randomFloat(2, 1, 1000)"
	case catBoolean:
		return "fake()->boolean()"
	case catDate:
		return "fake()->date()"
	case catDateTime:
		return "fake()->dateTime()"
	case catTime:
		return "fake()->time()"
	case catYear:
		return "(int) fake()->year()"
	case catJSON:
		return "[fake()->word() => fake()->word()]"
	case catUUID:
		return "fake()->uuid()"
	case catForeignID:
		return "fake()->numberBetween(1, 10)"
	case catEmail:
		return "fake()->safeEmail()"
	case catIP:
		return "fake()->ipv4()"
	case catMAC:
		return "fake()->macAddress()"
	default:
		return "fake()->word()"
	}
}

func pick(update bool, create, updated string) string {
	if update {
		return updated
	}
	return create
}

// quote renders s as a single-quoted PHP string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
