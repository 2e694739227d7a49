package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/config"
	scaffoldtmpl "github.com/example/kiln/internal/templates/scaffold"
)

// defaultTemplatesDir is where templates are ejected when templates_dir is unset.
const defaultTemplatesDir = "stubs/kiln"

// TemplatesCmd returns the templates command
func TemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and customize the PHP templates",
		Long: `List the embedded PHP templates or copy them into the project so they
can be edited. Templates found in templates_dir replace the embedded
template of the same name.`,
	}

	cmd.AddCommand(templatesListCmd())
	cmd.AddCommand(templatesEjectCmd())

	return cmd
}

func templatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := scaffoldtmpl.Names()
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d template(s):\n\n", len(names))
			for _, name := range names {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}

func templatesEjectCmd() *cobra.Command {
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:   "eject [template...]",
		Short: "Copy embedded templates into the project for editing",
		Long: `Copy embedded templates into templates_dir (or --dir). With no
arguments every template is ejected.

Examples:
  kiln templates eject
  kiln templates eject model.tmpl controller.tmpl --dir stubs/kiln`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveProjectDir()
			if err != nil {
				return err
			}

			target := dir
			if target == "" {
				cfg, err := config.Load(root, configFile)
				if err != nil {
					return err
				}
				target = cfg.TemplatesDir
			}
			usedDefault := target == ""
			if usedDefault {
				target = defaultTemplatesDir
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(root, filepath.FromSlash(target))
			}

			names := args
			if len(names) == 0 {
				if names, err = scaffoldtmpl.Names(); err != nil {
					return fmt.Errorf("failed to list templates: %w", err)
				}
			}

			written, err := ejectTemplates(target, names, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range written {
				fmt.Fprintf(out, "✓ %s\n", path)
			}
			fmt.Fprintf(out, "\nEjected %d template(s) to %s\n", len(written), target)
			if usedDefault {
				fmt.Fprintf(out, "Set templates_dir: %s in kiln.yaml to use them.\n", defaultTemplatesDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Target directory (default is templates_dir or stubs/kiln)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite templates that were already ejected")

	return cmd
}

// ejectTemplates writes the named embedded templates into dir.
func ejectTemplates(dir string, names []string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	for _, name := range names {
		source, err := scaffoldtmpl.Source(name)
		if err != nil {
			return written, fmt.Errorf("unknown template %q (see kiln templates list)", name)
		}

		path := filepath.Join(dir, name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return written, fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
