package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlainln("✓ Config written to %s", path)
}

// SetupDatabase creates the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.cfg().Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	// An injected database has not been migrated by OpenStorage.
	if !r.ownsDB {
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	r.logger.Infof("setup complete for database: %v", r.cfg().Database.Path)
	return r.writePlainln("✓ Database ready at %s", r.cfg().Database.Path)
}
