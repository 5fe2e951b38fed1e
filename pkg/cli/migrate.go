package cli

import (
	"context"
	"fmt"

	"github.com/edopt/chatbot/pkg/cli/config"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/repository/sqlite"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/edopt/chatbot/pkg/utils/safe"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var dryRun bool
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Apply the SQLite schema or Firestore indexes of the configured backend",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Migrate configuration", "repository", repoCfg.LogAttrs(), "dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)

			case config.BackendSQLite:
				if dryRun {
					for _, stmt := range sqlite.Schema() {
						logger.Info("Schema statement", "sql", stmt)
					}
					return nil
				}
				// Opening the database applies the schema
				repo, err := repoCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to apply schema")
				}
				closeRepository(ctx, repo)
				logger.Info("Schema applied successfully")
				return nil

			default:
				logger.Info("Nothing to migrate", "backend", repoCfg.Backend())
				return nil
			}
		},
	}
}

// defaultFirestoreDatabase is the database ID used when none is configured
const defaultFirestoreDatabase = "(default)"

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()
	if repoCfg.ProjectID() == "" {
		return goerr.New("firestore-project-id is required when using firestore backend")
	}
	databaseID := repoCfg.DatabaseID()
	if databaseID == "" {
		databaseID = defaultFirestoreDatabase
	}

	indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

	client, err := fireconf.New(ctx, repoCfg.ProjectID(), databaseID, indexConfig, fireconf.WithLogger(logger))
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer safe.Close(ctx, client, "resource", "fireconf")

	if !dryRun {
		logger.Info("Applying migrations")
		if err := client.Migrate(ctx); err != nil {
			return goerr.Wrap(err, "failed to apply migrations")
		}
		logger.Info("Migrations applied successfully")
		return nil
	}

	logger.Info("Dry run mode - previewing changes")
	names := make([]string, 0, len(indexConfig.Collections))
	for _, c := range indexConfig.Collections {
		names = append(names, c.Name)
	}
	current, err := client.Import(ctx, names...)
	if err != nil {
		return goerr.Wrap(err, "failed to import current indexes")
	}
	diff, err := client.DiffConfigs(current)
	if err != nil {
		return goerr.Wrap(err, "failed to compare index configuration")
	}

	steps := migrationSteps(diff)
	if len(steps) == 0 {
		logger.Info("No changes required")
		return nil
	}
	for _, step := range steps {
		logger.Info("Migration step",
			"collection", step.collection,
			"operation", step.operation,
			"fields", step.fields,
			"destructive", step.operation == fireconf.ActionDelete)
	}
	return nil
}

type migrationStep struct {
	collection string
	operation  fireconf.DiffAction
	fields     []string
}

// migrationSteps flattens a diff into one step per index added or deleted
func migrationSteps(diff *fireconf.DiffResult) []migrationStep {
	if diff == nil {
		return nil
	}

	var steps []migrationStep
	for _, c := range diff.Collections {
		for _, idx := range c.IndexesToAdd {
			steps = append(steps, migrationStep{collection: c.Name, operation: fireconf.ActionAdd, fields: indexFields(idx)})
		}
		for _, idx := range c.IndexesToDelete {
			steps = append(steps, migrationStep{collection: c.Name, operation: fireconf.ActionDelete, fields: indexFields(idx)})
		}
	}
	return steps
}

func indexFields(idx fireconf.Index) []string {
	fields := make([]string, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		switch {
		case f.Vector != nil:
			fields = append(fields, fmt.Sprintf("%s VECTOR(%d)", f.Path, f.Vector.Dimension))
		default:
			fields = append(fields, fmt.Sprintf("%s %s", f.Path, f.Order))
		}
	}
	return fields
}

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// getIndexConfig returns the composite and vector indexes the Firestore backend queries need
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				// Conversation history: CreatedAt, Seq in both directions
				Name: prefixed(prefix, "messages"),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "CreatedAt", Order: fireconf.OrderAscending},
							{Path: "Seq", Order: fireconf.OrderAscending},
						},
					},
					{
						Fields: []fireconf.IndexField{
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
							{Path: "Seq", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: prefixed(prefix, "embeddings"),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: model.EmbeddingDimension,
								},
							},
						},
					},
				},
			},
			{
				Name: prefixed(prefix, "rsa_sections"),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "ChapterNo", Order: fireconf.OrderAscending},
							{Path: "SectionNo", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
