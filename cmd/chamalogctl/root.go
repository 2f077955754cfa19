package main

import (
	"github.com/chamalog/chamalog/internal/config"
	"github.com/spf13/cobra"
)

var dsnFlag string

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chamalogctl",
		Short:         "ChamaLog maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "postgres connection string (defaults to DATABASE_URL / DB_* env)")

	root.AddCommand(
		MigrateCmd(),
		CreateAdminCmd(),
	)

	return root
}

// resolveDSN prefers --dsn over the environment.
func resolveDSN() (string, error) {
	if dsnFlag != "" {
		return dsnFlag, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}

	return cfg.DBURL(), nil
}
