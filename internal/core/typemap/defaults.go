package typemap

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultLiteral coerces a raw --fields default into the PHP literal passed
// to ->default() in a migration.
func DefaultLiteral(typ, raw string) string {
	switch categoryOf(typ) {
	case catBoolean:
		if truthy(raw) {
			return "true"
		}
		return "false"
	case catInteger, catYear, catForeignID:
		return strconv.FormatInt(leadingInt(raw), 10)
	case catFloat:
		return strconv.FormatFloat(leadingFloat(raw), 'f', -1, 64)
	case catJSON:
		encoded, err := json.Marshal(raw)
		if err != nil {
			return quote(raw)
		}
		return quote(string(encoded))
	default:
		return quote(raw)
	}
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// leadingInt parses the longest integer prefix, 0 when there is none.
func leadingInt(raw string) int64 {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || end == 0 && (c == '-' || c == '+') {
			end++
			continue
		}
		break
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// leadingFloat parses the longest decimal prefix, 0 when there is none.
func leadingFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}
