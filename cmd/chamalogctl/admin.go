package main

import (
	"errors"
	"fmt"

	"github.com/chamalog/chamalog/internal/db"
	"github.com/spf13/cobra"
)

func CreateAdminCmd() *cobra.Command {
	var seed db.AdminSeed

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account if the e-mail is not registered yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seed.Email == "" || seed.Password == "" {
				return errors.New("--email and --password are required")
			}

			dsn, err := resolveDSN()
			if err != nil {
				return err
			}

			pool, err := db.NewPool(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer pool.Close()

			created, err := db.EnsureAdminUser(cmd.Context(), pool, seed)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", seed.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, nothing to do\n", seed.Email)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&seed.Email, "email", "", "admin e-mail")
	cmd.Flags().StringVar(&seed.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&seed.Name, "name", "Administrador", "display name")

	return cmd
}
