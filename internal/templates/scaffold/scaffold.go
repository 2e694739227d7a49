// Package scaffold provides the PHP templates rendered by the generator.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed php/*.tmpl
var phpTemplates embed.FS

// Load parses the embedded templates. When overrideDir is set, every
// *.tmpl file found there replaces the embedded template of the same name.
func Load(overrideDir string) (*template.Template, error) {
	tmpl, err := template.New("scaffold").Funcs(TemplateFuncs()).ParseFS(phpTemplates, "php/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}

	if overrideDir == "" {
		return tmpl, nil
	}

	matches, err := filepath.Glob(filepath.Join(overrideDir, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list template overrides: %w", err)
	}
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template override %s: %w", path, err)
		}
		if _, err := tmpl.New(filepath.Base(path)).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template override %s: %w", path, err)
		}
	}

	return tmpl, nil
}

// Names returns the embedded template file names.
func Names() ([]string, error) {
	entries, err := phpTemplates.ReadDir("php")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Source returns the raw text of an embedded template, for `kiln templates eject`.
func Source(name string) (string, error) {
	content, err := phpTemplates.ReadFile("php/" + name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// TemplateFuncs returns the template function map for scaffold templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"toLower": strings.ToLower,
		"toUpper": strings.ToUpper,
		"join":    strings.Join,
		"dict":    dict,
	}
}

// dict builds a map from alternating keys and values, so templates can pass
// several values to a nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
