package typemap

// Rule tokens with special meaning.
const (
	RuleSometimes = "sometimes"
	RuleRequired  = "required"
	RuleNullable  = "nullable"
)

// ValidationRules returns the ordered rule tokens for a field:
// partial-update marker, then exactly one presence rule, then type rules.
func ValidationRules(typ string, nullable, partial bool) []string {
	rules := make([]string, 0, 4)
	if partial {
		rules = append(rules, RuleSometimes)
	}
	if nullable {
		rules = append(rules, RuleNullable)
	} else {
		rules = append(rules, RuleRequired)
	}
	return append(rules, typeRules(typ)...)
}

func typeRules(typ string) []string {
	switch typ {
	case "string", "char":
		return []string{"string", "max:255"}
	case "year":
		return []string{"integer", "digits:4"}
	case "unsignedInteger", "unsignedBigInteger":
		return []string{"integer", "min:0"}
	case "time":
		return []string{"date_format:H:i:s"}
	}

	switch categoryOf(typ) {
	case catText, catEnum:
		return []string{"string"}
	case catInteger, catForeignID:
		return []string{"integer"}
	case catFloat:
		return []string{"numeric"}
	case catBoolean:
		return []string{"boolean"}
	case catDate, catDateTime:
		return []string{"date"}
	case catJSON:
		return []string{"array"}
	case catEmail:
		return []string{"email"}
	case catUUID:
		return []string{"uuid"}
	case catIP:
		return []string{"ip"}
	case catMAC:
		return []string{"mac_address"}
	default:
		return nil
	}
}
