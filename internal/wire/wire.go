// Package wire provides dependency injection for the kiln application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	cliadapter "github.com/example/kiln/internal/adapters/cli"
	"github.com/example/kiln/internal/adapters/filesystem"
	"github.com/example/kiln/internal/adapters/shell"
	"github.com/example/kiln/internal/adapters/sqlite"
	"github.com/example/kiln/internal/app"
	"github.com/example/kiln/internal/config"
	"github.com/example/kiln/internal/db"
	"github.com/example/kiln/internal/ports/primary"
	"github.com/example/kiln/internal/ports/secondary"
	"github.com/example/kiln/internal/scaffold"
)

// ErrLedgerDisabled is returned by ledger-backed services when
// ledger.enabled is false.
var ErrLedgerDisabled = errors.New("the generation ledger is disabled (ledger.enabled: false)")

// Options locate the project and its config file.
type Options struct {
	ProjectDir string // defaults to the working directory
	ConfigFile string // defaults to kiln.yaml in ProjectDir
}

var (
	options Options

	cfg             *config.Config
	projectRoot     string
	database        *sql.DB
	scaffoldService primary.ScaffoldService
	historyService  primary.HistoryService
	initErr         error
	once            sync.Once
)

// Configure sets the project location. It must be called before the first
// service is requested.
func Configure(o Options) {
	options = o
}

// Config returns the loaded and validated project configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// ProjectRoot returns the absolute project directory.
func ProjectRoot() (string, error) {
	once.Do(initServices)
	return projectRoot, initErr
}

// ScaffoldService returns the singleton ScaffoldService instance.
func ScaffoldService() (primary.ScaffoldService, error) {
	once.Do(initServices)
	return scaffoldService, initErr
}

// HistoryService returns the singleton HistoryService instance.
func HistoryService() (primary.HistoryService, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	if historyService == nil {
		return nil, ErrLedgerDisabled
	}
	return historyService, nil
}

// Close releases the ledger database, if one was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	initErr = buildServices()
}

func buildServices() error {
	dir := options.ProjectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	loaded, err := config.Load(dir, options.ConfigFile)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = loaded

	workspace, err := filesystem.NewWorkspaceAdapter(dir)
	if err != nil {
		return err
	}

	projectRoot = workspace.Root()

	generator, err := scaffold.NewGenerator(cfg.Namespace, cfg.TemplatesPath(workspace.Root()))
	if err != nil {
		return err
	}

	opts, err := scaffoldOptions(cfg)
	if err != nil {
		return err
	}

	// Create the ledger repository (secondary port) when enabled
	var ledger secondary.LedgerRepository
	if cfg.Ledger.Enabled {
		database, err = db.Open(cfg.LedgerPath(workspace.Root()))
		if err != nil {
			return fmt.Errorf("failed to open ledger: %w", err)
		}
		ledger = sqlite.NewLedgerRepository(database)
	}

	executor := app.NewEffectExecutor(workspace, shell.NewRunner())

	// Create services (primary ports implementation)
	scaffoldService = app.NewScaffoldService(generator, executor, workspace, ledger, opts)
	if ledger != nil {
		historyService = app.NewHistoryService(ledger, workspace)
	}
	return nil
}

func scaffoldOptions(c *config.Config) (app.ScaffoldOptions, error) {
	timeout, err := c.FormatterTimeout()
	if err != nil {
		return app.ScaffoldOptions{}, err
	}

	return app.ScaffoldOptions{
		Layout: scaffold.Layout{
			AppDir:          c.Paths.App,
			DatabaseDir:     c.Paths.Database,
			RoutesDir:       c.Paths.Routes,
			TestsDir:        c.Paths.Tests,
			ProviderPath:    c.Paths.Provider,
			AggregateRoutes: c.Paths.AggregateRoutes,
		},
		InlineRoutes:           c.Routes.Inline,
		CreateMissingMigration: c.Migrations.CreateMissing,
		Strict:                 c.Strict,
		Formatter: app.FormatterOptions{
			Enabled:        c.Formatter.Enabled,
			Command:        c.Formatter.Command,
			Args:           c.Formatter.Args,
			RouteFixer:     c.Formatter.RouteFixer,
			RouteFixerArgs: c.Formatter.RouteFixerArgs,
			Timeout:        timeout,
		},
	}, nil
}

// ScaffoldAdapter returns a new ScaffoldAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ScaffoldAdapter() (*cliadapter.ScaffoldAdapter, error) {
	return ScaffoldAdapterWithOutput(os.Stdout)
}

// ScaffoldAdapterWithOutput returns a new ScaffoldAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ScaffoldAdapterWithOutput(out io.Writer) (*cliadapter.ScaffoldAdapter, error) {
	svc, err := ScaffoldService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewScaffoldAdapter(svc, out), nil
}

// HistoryAdapter returns a new HistoryAdapter writing to stdout.
func HistoryAdapter() (*cliadapter.HistoryAdapter, error) {
	return HistoryAdapterWithOutput(os.Stdout)
}

// HistoryAdapterWithOutput returns a new HistoryAdapter writing to the given output.
func HistoryAdapterWithOutput(out io.Writer) (*cliadapter.HistoryAdapter, error) {
	svc, err := HistoryService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewHistoryAdapter(svc, out), nil
}
