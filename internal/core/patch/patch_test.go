package patch

import (
	"errors"
	"strings"
	"testing"
)

const providerWithRegister = `<?php

namespace App\Providers;

use Illuminate\Support\ServiceProvider;

class AppServiceProvider extends ServiceProvider
{
    /**
     * Register any application services.
     */
    public function register(): void
    {
        //
    }

    public function boot(): void
    {
        // "{" inside a comment must not confuse the scanner
    }
}
`

const providerWithoutRegister = `<?php

namespace App\Providers;

use Illuminate\Support\ServiceProvider;

class AppServiceProvider extends ServiceProvider
{
    public function boot(): void
    {
    }
}
`

const invoiceBinding = "$this->app->bind(\n    \\App\\Repositories\\Contracts\\InvoiceRepositoryInterface::class,\n    \\App\\Repositories\\InvoiceRepository::class\n);"

func TestParseClass(t *testing.T) {
	class, err := ParseClass(providerWithRegister, "AppServiceProvider")
	if err != nil {
		t.Fatalf("ParseClass failed: %v", err)
	}
	if class.Name != "AppServiceProvider" {
		t.Errorf("expected class AppServiceProvider, got %q", class.Name)
	}
	if len(class.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(class.Methods))
	}
	if class.Method("register") == nil || class.Method("boot") == nil {
		t.Error("expected register and boot methods")
	}
	if providerWithRegister[class.Close] != '}' || class.Close != strings.LastIndex(providerWithRegister, "}") {
		t.Errorf("class close at %d, want last brace", class.Close)
	}
}

func TestParseClass_NotFound(t *testing.T) {
	_, err := ParseClass("<?php\n\nreturn [];\n", "")
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Errorf("expected ErrAnchorNotFound, got %v", err)
	}

	_, err = ParseClass(providerWithRegister, "Invoice")
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Errorf("expected ErrAnchorNotFound for missing class, got %v", err)
	}
}

func TestMask_IgnoresStringsAndComments(t *testing.T) {
	src := "$a = '{'; // }\n/* { */ $b = \"}\";"
	masked := Mask(src)
	if len(masked) != len(src) {
		t.Fatalf("mask changed length: %d != %d", len(masked), len(src))
	}
	if strings.ContainsAny(masked, "{}") {
		t.Errorf("expected braces to be masked, got %q", masked)
	}
	if !strings.Contains(masked, "$a =") || !strings.Contains(masked, "$b =") {
		t.Errorf("expected code to survive masking, got %q", masked)
	}
}

func TestServiceBinding_ExistingRegister(t *testing.T) {
	p := ServiceBinding{
		Interface: `App\Repositories\Contracts\InvoiceRepositoryInterface`,
		Binding:   invoiceBinding,
	}

	out, err := p.Apply(providerWithRegister)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !strings.Contains(out, "    {\n        $this->app->bind(\n") {
		t.Errorf("expected binding at top of register body, got:\n%s", out)
	}
	if strings.Count(out, "public function register") != 1 {
		t.Error("expected a single register method")
	}

	again, err := p.Apply(out)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if again != out {
		t.Error("expected second Apply to be a no-op")
	}
}

func TestServiceBinding_SynthesizesRegister(t *testing.T) {
	p := ServiceBinding{
		Interface: `App\Repositories\Contracts\InvoiceRepositoryInterface`,
		Binding:   invoiceBinding,
	}

	out, err := p.Apply(providerWithoutRegister)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !strings.Contains(out, "public function register(): void\n    {\n        $this->app->bind(") {
		t.Errorf("expected synthesized register method, got:\n%s", out)
	}
	if _, err := ParseClass(out, "AppServiceProvider"); err != nil {
		t.Errorf("patched provider no longer parses: %v", err)
	}
}

func TestServiceBinding_NoClass(t *testing.T) {
	p := ServiceBinding{Interface: "X", Binding: "bind();"}
	if _, err := p.Apply("<?php\n"); !errors.Is(err, ErrAnchorNotFound) {
		t.Errorf("expected ErrAnchorNotFound, got %v", err)
	}
}

const migration = `<?php

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('invoices', function (Blueprint $table) {
            $table->id();
            $table->timestamps();
        });
    }
};
`

func TestMigrationColumns(t *testing.T) {
	p := MigrationColumns{
		Anchor: "$table->id();",
		Columns: []MigrationColumn{
			{Name: "name", Line: "$table->string('name');"},
			{Name: "status", Line: "$table->boolean('status')->default(true);"},
		},
	}

	out, err := p.Apply(migration)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "            $table->id();\n            $table->string('name');\n            $table->boolean('status')->default(true);\n            $table->timestamps();"
	if !strings.Contains(out, want) {
		t.Errorf("expected columns after id, got:\n%s", out)
	}

	again, err := p.Apply(out)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if again != out {
		t.Error("expected second Apply to be a no-op")
	}
}

func TestMigrationColumns_MissingAnchor(t *testing.T) {
	p := MigrationColumns{Anchor: "$table->id();"}
	src := strings.Replace(migration, "$table->id();", "$table->uuid('id')->primary();", 1)
	if _, err := p.Apply(src); !errors.Is(err, ErrAnchorNotFound) {
		t.Errorf("expected ErrAnchorNotFound, got %v", err)
	}
}

const bareModel = `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Model;

class Invoice extends Model
{
    //
}
`

func TestModelMembers(t *testing.T) {
	p := ModelMembers{
		Class:     "Invoice",
		DocBlock:  "/**\n * @property int $id\n */",
		Fillable:  "protected $fillable = ['name'];",
		Relations: "\n    public function customer()\n    {\n        return $this->belongsTo(Customer::class);\n    }\n",
	}

	out, err := p.Apply(bareModel)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for _, want := range []string{
		hasFactoryImport,
		"/**\n * @property int $id\n */\nclass Invoice extends Model",
		"{\n    use HasFactory;\n\n    protected $fillable = ['name'];\n",
		"public function customer()",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Error("expected class to remain closed")
	}

	again, err := p.Apply(out)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if again != out {
		t.Error("expected second Apply to be a no-op once fillable exists")
	}
}

func TestModelMembers_Casts(t *testing.T) {
	p := ModelMembers{
		Class:    "Invoice",
		Fillable: "protected $fillable = ['meta'];",
		Casts:    "protected $casts = ['meta' => 'array'];",
	}

	out, err := p.Apply(bareModel)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !strings.Contains(out, "    protected $fillable = ['meta'];\n\n    protected $casts = ['meta' => 'array'];\n") {
		t.Errorf("expected casts after fillable, got:\n%s", out)
	}

	withCasts := strings.Replace(bareModel, "    //", "    protected $casts = ['paid_at' => 'datetime'];", 1)
	out, err = p.Apply(withCasts)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if strings.Count(out, "$casts") != 1 {
		t.Errorf("expected existing casts to be kept alone, got:\n%s", out)
	}
	if !strings.Contains(out, "protected $fillable = ['meta'];") {
		t.Errorf("expected fillable to be added, got:\n%s", out)
	}
}

func TestAppendBlock(t *testing.T) {
	p := AppendBlock{
		Markers: []string{"// Routes for Invoice"},
		Block:   "// Routes for Invoice\nrequire __DIR__ . '/api/invoices.php';\n",
	}

	out, err := p.Apply("<?php")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out != "<?php\n\n// Routes for Invoice\nrequire __DIR__ . '/api/invoices.php';\n" {
		t.Errorf("unexpected output: %q", out)
	}

	again, _ := p.Apply(out)
	if again != out {
		t.Error("expected marker to prevent a second append")
	}
}

func TestAppendBlock_PrefixedEntityName(t *testing.T) {
	src := "<?php\n\n// Routes for InvoiceItem\nrequire __DIR__ . '/api/invoice_items.php';\n"
	p := AppendBlock{
		Markers: []string{"// Routes for Invoice", "/api/invoices.php'"},
		Block:   "// Routes for Invoice\nrequire __DIR__ . '/api/invoices.php';\n",
	}

	out, err := p.Apply(src)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !strings.Contains(out, "require __DIR__ . '/api/invoices.php';") {
		t.Errorf("expected Invoice require line to be appended, got:\n%s", out)
	}
	if !strings.Contains(out, "/api/invoice_items.php") {
		t.Error("expected InvoiceItem routes to be kept")
	}

	again, _ := p.Apply(out)
	if again != out {
		t.Error("expected Invoice marker to prevent a second append")
	}
}

func TestContainsMarker(t *testing.T) {
	tests := []struct {
		src    string
		marker string
		want   bool
	}{
		{"// Routes for Invoice\n", "// Routes for Invoice", true},
		{"// Routes for Invoice", "// Routes for Invoice", true},
		{"// Routes for InvoiceItem\n", "// Routes for Invoice", false},
		{"// Routes for InvoiceItem\n// Routes for Invoice\n", "// Routes for Invoice", true},
		{"// Routes for Invoice_2\n", "// Routes for Invoice", false},
		{"'/api/invoices.php';", "/api/invoices.php'", true},
		{"anything", "", false},
	}

	for _, tt := range tests {
		if got := containsMarker(tt.src, tt.marker); got != tt.want {
			t.Errorf("containsMarker(%q, %q) = %v, want %v", tt.src, tt.marker, got, tt.want)
		}
	}
}
