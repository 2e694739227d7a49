// Package cli provides CLI commands for the kiln application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/ctxutil"
	"github.com/example/kiln/internal/wire"
)

// globalActorID stores the detected actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// Global flags shared by every command.
var (
	projectDir string
	configFile string
	verbose    bool
)

// BindGlobalFlags registers the persistent flags on the root command.
func BindGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "Laravel project directory (default is the working directory)")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./kiln.yaml)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show every artifact, including those of skipped steps")
}

// Bootstrap runs before every command: it records the actor and points
// the service wiring at the selected project.
func Bootstrap(cmd *cobra.Command, args []string) error {
	DetectAndStoreActor()
	wire.Configure(wire.Options{
		ProjectDir: projectDir,
		ConfigFile: configFile,
	})
	return nil
}

// resolveProjectDir returns the --project directory or the working directory.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// DetectAndStoreActor detects the current actor identity and stores it globally.
// KILN_ACTOR wins over the OS user name.
func DetectAndStoreActor() {
	globalActorID = detectActor(os.Getenv("KILN_ACTOR"), user.Current)
}

func detectActor(env string, current func() (*user.User, error)) string {
	if env != "" {
		return env
	}
	u, err := current()
	if err != nil {
		return ""
	}
	return u.Username
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
