package patch

import (
	"fmt"
	"regexp"
	"strings"
)

// Patcher rewrites an existing file. Returning the input unchanged means the
// edit is already present.
type Patcher interface {
	Apply(src string) (string, error)
}

// MigrationColumns inserts column declarations after the primary key line.
// Columns already declared in the migration are left out.
type MigrationColumns struct {
	Anchor  string            // e.g. "$table->id();"
	Columns []MigrationColumn // in declaration order
}

// MigrationColumn is one rendered column line without indentation.
type MigrationColumn struct {
	Name string
	Line string
}

// Apply implements Patcher.
func (p MigrationColumns) Apply(src string) (string, error) {
	code := Mask(src)
	at := strings.Index(code, p.Anchor)
	if at < 0 {
		return src, fmt.Errorf("%w: %q", ErrAnchorNotFound, p.Anchor)
	}

	indent := lineIndent(src, at)
	var lines []string
	for _, c := range p.Columns {
		if hasColumn(src, c.Name) {
			continue
		}
		lines = append(lines, indent+c.Line)
	}
	if len(lines) == 0 {
		return src, nil
	}

	insertAt := at + len(p.Anchor)
	return src[:insertAt] + "\n" + strings.Join(lines, "\n") + src[insertAt:], nil
}

func hasColumn(src, name string) bool {
	re := regexp.MustCompile(`\$table->\w+\(\s*'` + regexp.QuoteMeta(name) + `'`)
	return re.MatchString(src)
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(src string, pos int) string {
	start := lineStart(src, pos)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}

// ServiceBinding registers an interface binding inside the register method
// of a service provider, creating register() when the class has none.
type ServiceBinding struct {
	Interface string // fully qualified, without leading backslash
	Binding   string // full statement, unindented, may span lines
}

// Apply implements Patcher.
func (p ServiceBinding) Apply(src string) (string, error) {
	if strings.Contains(src, p.Interface+"::class") {
		return src, nil
	}

	class, err := ParseClass(src, "")
	if err != nil {
		return src, err
	}

	if register := class.Method("register"); register != nil {
		body := src[register.Open+1 : register.Close]
		stmt := indentBlock(p.Binding, "        ")
		if strings.TrimSpace(body) == "" {
			return src[:register.Open+1] + "\n" + stmt + "\n    " + src[register.Close:], nil
		}
		return src[:register.Open+1] + "\n" + stmt + src[register.Open+1:], nil
	}

	method := "\n\n    /**\n     * Register any application services.\n     */\n" +
		"    public function register(): void\n    {\n" +
		indentBlock(p.Binding, "        ") + "\n    }\n"
	return src[:class.Open+1] + method + src[class.Open+1:], nil
}

// ModelMembers adds the factory trait, the fillable list, a PHPDoc block and
// relation methods to an existing model that has no fillable list yet.
type ModelMembers struct {
	Class     string
	DocBlock  string // "/**\n * @property ...\n */"
	Fillable  string // full declaration, unindented
	Casts     string // full declaration, unindented, may be empty
	Relations string // rendered methods, already indented, may be empty
}

const hasFactoryImport = "use Illuminate\\Database\\Eloquent\\Factories\\HasFactory;"

// Apply implements Patcher.
func (p ModelMembers) Apply(src string) (string, error) {
	code := Mask(src)
	if strings.Contains(code, "$fillable") {
		return src, nil
	}

	class, err := ParseClass(src, p.Class)
	if err != nil {
		return src, err
	}

	body := code[class.Open+1 : class.Close]
	members := ""
	if !regexp.MustCompile(`\buse\s+HasFactory\b`).MatchString(body) {
		members += "\n    use HasFactory;\n"
	}
	members += "\n    " + p.Fillable + "\n"
	if p.Casts != "" && !strings.Contains(code, "$casts") {
		members += "\n    " + p.Casts + "\n"
	}

	out := src[:class.Close] + p.Relations + src[class.Close:]
	out = out[:class.Open+1] + members + out[class.Open+1:]
	if p.DocBlock != "" && !strings.Contains(src[:class.Start], "@property") {
		out = out[:class.Start] + p.DocBlock + "\n" + out[class.Start:]
	}

	if !strings.Contains(code, hasFactoryImport) {
		out = addImport(out, hasFactoryImport)
	}
	return out, nil
}

var (
	namespaceDecl = regexp.MustCompile(`(?m)^namespace\s+[^;]+;`)
	useDecl       = regexp.MustCompile(`(?m)^use\s`)
)

// addImport places a use statement before the first import, or after the
// namespace declaration when there is none.
func addImport(src, stmt string) string {
	loc := namespaceDecl.FindStringIndex(src)
	if loc == nil {
		return src
	}
	if use := useDecl.FindStringIndex(src[loc[1]:]); use != nil {
		at := loc[1] + use[0]
		return src[:at] + stmt + "\n" + src[at:]
	}
	return src[:loc[1]] + "\n\n" + stmt + src[loc[1]:]
}

// AppendBlock appends a block at end of file unless any marker is present.
// A marker only counts when it is not followed by more identifier
// characters, so "// Routes for Invoice" does not match "// Routes for InvoiceItem".
type AppendBlock struct {
	Markers []string
	Block   string
}

// Apply implements Patcher.
func (p AppendBlock) Apply(src string) (string, error) {
	for _, m := range p.Markers {
		if containsMarker(src, m) {
			return src, nil
		}
	}
	out := src
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out + "\n" + p.Block, nil
}

func containsMarker(src, marker string) bool {
	if marker == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(src[from:], marker)
		if i < 0 {
			return false
		}
		end := from + i + len(marker)
		if end == len(src) || !isIdentByte(src[end]) || !isIdentByte(marker[len(marker)-1]) {
			return true
		}
		from = from + i + 1
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func indentBlock(block, indent string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}
