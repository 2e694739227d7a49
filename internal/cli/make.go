package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/kiln/internal/ports/primary"
	"github.com/example/kiln/internal/wire"
)

type makeFlags struct {
	fields      string
	relations   string
	noMigration bool
	apiResource bool
	withTests   bool
	withFactory bool
	withSeeder  bool
	dryRun      bool
	strict      bool
	noFormat    bool
}

func (f makeFlags) request(entity string) primary.ScaffoldRequest {
	return primary.ScaffoldRequest{
		Entity:        entity,
		Fields:        f.fields,
		Relations:     f.relations,
		SkipMigration: f.noMigration,
		APIResource:   f.apiResource,
		WithTests:     f.withTests,
		WithFactory:   f.withFactory,
		WithSeeder:    f.withSeeder,
		DryRun:        f.dryRun,
		Strict:        f.strict,
		NoFormat:      f.noFormat,
	}
}

// MakeCmd returns the make command
func MakeCmd() *cobra.Command {
	var flags makeFlags

	cmd := &cobra.Command{
		Use:     "make [Entity]",
		Aliases: []string{"make:scaffold", "scaffold"},
		Short:   "Generate a complete CRUD module for an entity",
		Long: `Generate the model, migration, controller, repository layer, service
binding, routes, form requests and, optionally, factory, seeder and tests
for one entity of a Laravel project.

Field spec: name:type[:nullable][:default=value], comma separated.
Types include string, text, integer, bigInteger, decimal, float, boolean,
date, dateTime, timestamp, json, enum, uuid, email and foreignId.

Relation spec: kind:Model, comma separated.
Kinds: belongsTo, hasMany, hasOne, belongsToMany.

Existing files are never overwritten. Shared files (service provider,
route file, existing migration and model) are patched in place.

Examples:
  kiln make Invoice --fields="number:string,total:decimal,paid_at:dateTime:nullable"
  kiln make Invoice --with-relations="belongsTo:Customer,hasMany:InvoiceLine" --api-resource
  kiln make Product --fields="name:string,active:boolean:default=true" --with-tests --with-factory --with-seeder
  kiln make Order --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			adapter.SetVerbose(verbose)

			_, err = adapter.Make(NewContext(), flags.request(args[0]))
			return err
		},
	}

	cmd.Flags().StringVar(&flags.fields, "fields", "", "Field spec (default: name, description, status)")
	cmd.Flags().StringVar(&flags.relations, "with-relations", "", "Relation spec, e.g. belongsTo:Customer,hasMany:Line")
	cmd.Flags().BoolVar(&flags.noMigration, "no-migration", false, "Do not create or patch a migration")
	cmd.Flags().BoolVar(&flags.apiResource, "api-resource", false, "Return data through an API resource class")
	cmd.Flags().BoolVar(&flags.withTests, "with-tests", false, "Generate feature and unit tests")
	cmd.Flags().BoolVar(&flags.withFactory, "with-factory", false, "Generate a model factory")
	cmd.Flags().BoolVar(&flags.withSeeder, "with-seeder", false, "Generate a seeder")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be written without touching the project")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Reject malformed fields, unknown types and unknown relation kinds")
	cmd.Flags().BoolVar(&flags.noFormat, "no-format", false, "Skip the formatter post-pass")

	return cmd
}
