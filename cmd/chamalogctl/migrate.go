package main

import (
	"github.com/chamalog/chamalog/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	for _, dir := range []struct {
		direction db.Direction
		short     string
	}{
		{db.Up, "Apply all pending migrations"},
		{db.Down, "Roll back the latest migration"},
		{db.Status, "Print the migration status"},
	} {
		direction := dir.direction

		cmd.AddCommand(&cobra.Command{
			Use:   string(direction),
			Short: dir.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dsn, err := resolveDSN()
				if err != nil {
					return err
				}

				return db.Migrate(cmd.Context(), dsn, direction, cmd.OutOrStdout())
			},
		})
	}

	return cmd
}
