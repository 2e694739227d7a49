// Package config loads the per-project kiln settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file, looked up in the project root.
const FileName = "kiln.yaml"

// Config represents the kiln configuration of one Laravel project
type Config struct {
	Namespace    string     `yaml:"namespace" mapstructure:"namespace"`
	Paths        Paths      `yaml:"paths" mapstructure:"paths"`
	Routes       Routes     `yaml:"routes" mapstructure:"routes"`
	Migrations   Migrations `yaml:"migrations" mapstructure:"migrations"`
	Formatter    Formatter  `yaml:"formatter" mapstructure:"formatter"`
	Ledger       Ledger     `yaml:"ledger" mapstructure:"ledger"`
	TemplatesDir string     `yaml:"templates_dir,omitempty" mapstructure:"templates_dir"`
	Strict       bool       `yaml:"strict" mapstructure:"strict"`
}

// Paths are project relative and slash separated.
type Paths struct {
	App             string `yaml:"app" mapstructure:"app"`
	Database        string `yaml:"database" mapstructure:"database"`
	Routes          string `yaml:"routes" mapstructure:"routes"`
	Tests           string `yaml:"tests" mapstructure:"tests"`
	Provider        string `yaml:"provider" mapstructure:"provider"`
	AggregateRoutes string `yaml:"aggregate_routes" mapstructure:"aggregate_routes"`
}

type Routes struct {
	Inline bool `yaml:"inline" mapstructure:"inline"`
}

type Migrations struct {
	CreateMissing bool `yaml:"create_missing" mapstructure:"create_missing"`
}

type Formatter struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	Command        string   `yaml:"command" mapstructure:"command"`
	Args           []string `yaml:"args" mapstructure:"args"`
	RouteFixer     string   `yaml:"route_fixer" mapstructure:"route_fixer"`
	RouteFixerArgs []string `yaml:"route_fixer_args" mapstructure:"route_fixer_args"`
	Timeout        string   `yaml:"timeout" mapstructure:"timeout"` // Go duration, e.g. "2m"
}

type Ledger struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

var namespacePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*(\\[A-Z][A-Za-z0-9_]*)*$`)

// Default returns the configuration used when a project has no kiln.yaml.
func Default() *Config {
	return &Config{
		Namespace: "App",
		Paths: Paths{
			App:             "app",
			Database:        "database",
			Routes:          "routes",
			Tests:           "tests",
			Provider:        "app/Providers/AppServiceProvider.php",
			AggregateRoutes: "routes/api.php",
		},
		Migrations: Migrations{CreateMissing: true},
		Formatter: Formatter{
			Enabled:        true,
			Command:        "vendor/bin/pint",
			RouteFixer:     "vendor/bin/phpcbf",
			RouteFixerArgs: []string{"--standard=PSR12"},
			Timeout:        "2m",
		},
		Ledger: Ledger{Enabled: true, Path: ".kiln/kiln.db"},
	}
}

// Load reads kiln.yaml from dir, or cfgFile when set, on top of the defaults.
// A .env file in dir is loaded first so KILN_* variables can live there.
// Missing kiln.yaml is not an error; a missing explicit cfgFile is.
func Load(dir, cfgFile string) (*Config, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("KILN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("namespace", d.Namespace)
	v.SetDefault("paths.app", d.Paths.App)
	v.SetDefault("paths.database", d.Paths.Database)
	v.SetDefault("paths.routes", d.Paths.Routes)
	v.SetDefault("paths.tests", d.Paths.Tests)
	v.SetDefault("paths.provider", d.Paths.Provider)
	v.SetDefault("paths.aggregate_routes", d.Paths.AggregateRoutes)
	v.SetDefault("routes.inline", d.Routes.Inline)
	v.SetDefault("migrations.create_missing", d.Migrations.CreateMissing)
	v.SetDefault("formatter.enabled", d.Formatter.Enabled)
	v.SetDefault("formatter.command", d.Formatter.Command)
	v.SetDefault("formatter.args", d.Formatter.Args)
	v.SetDefault("formatter.route_fixer", d.Formatter.RouteFixer)
	v.SetDefault("formatter.route_fixer_args", d.Formatter.RouteFixerArgs)
	v.SetDefault("formatter.timeout", d.Formatter.Timeout)
	v.SetDefault("ledger.enabled", d.Ledger.Enabled)
	v.SetDefault("ledger.path", d.Ledger.Path)
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("strict", d.Strict)
}

// Validate checks the values that the generator cannot recover from.
func (c *Config) Validate() error {
	if !namespacePattern.MatchString(c.Namespace) {
		return fmt.Errorf("invalid namespace %q: expected a PHP namespace such as App or Acme\\Billing", c.Namespace)
	}

	paths := []struct{ key, value string }{
		{"paths.app", c.Paths.App},
		{"paths.database", c.Paths.Database},
		{"paths.routes", c.Paths.Routes},
		{"paths.tests", c.Paths.Tests},
		{"paths.provider", c.Paths.Provider},
		{"paths.aggregate_routes", c.Paths.AggregateRoutes},
	}
	for _, p := range paths {
		if p.value == "" {
			return fmt.Errorf("%s cannot be empty", p.key)
		}
		if path.IsAbs(p.value) || filepath.IsAbs(p.value) {
			return fmt.Errorf("%s must be relative to the project root: %s", p.key, p.value)
		}
	}

	if _, err := c.FormatterTimeout(); err != nil {
		return err
	}

	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path cannot be empty when the ledger is enabled")
	}

	return nil
}

// FormatterTimeout parses formatter.timeout. Empty means no timeout.
func (c *Config) FormatterTimeout() (time.Duration, error) {
	if c.Formatter.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Formatter.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid formatter.timeout %q: %w", c.Formatter.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid formatter.timeout %q: must not be negative", c.Formatter.Timeout)
	}
	return d, nil
}

// LedgerPath returns the ledger database path for a project root.
func (c *Config) LedgerPath(root string) string {
	if filepath.IsAbs(c.Ledger.Path) {
		return c.Ledger.Path
	}
	return filepath.Join(root, filepath.FromSlash(c.Ledger.Path))
}

// TemplatesPath returns the template override directory for a project
// root, or "" when none is configured.
func (c *Config) TemplatesPath(root string) string {
	if c.TemplatesDir == "" {
		return ""
	}
	if filepath.IsAbs(c.TemplatesDir) {
		return c.TemplatesDir
	}
	return filepath.Join(root, filepath.FromSlash(c.TemplatesDir))
}

// SaveConfig writes kiln.yaml to dir. An existing file is only replaced
// when force is set.
func SaveConfig(dir string, cfg *Config, force bool) (string, error) {
	target := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(target); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	content := "# kiln configuration\n" + string(data)
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return target, nil
}
