package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"transaction-query/internal/config"
	"transaction-query/internal/database"
	"transaction-query/internal/repositories"
	"transaction-query/internal/services"
)

func seedCmd(root *rootOptions) *cobra.Command {
	var (
		random int
		days   int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Migrate the configured database and load the fixture transactions",
		Long: `Create the transactions schema in the configured database and insert the
ten fixture transactions. Existing rows with the same IDs are left untouched.
--random adds generated transactions spread over the last --days days.`,
		Example: `  DB_DRIVER=sqlite txquery seed
  txquery seed --random 500 --days 90`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverPostgres {
				cfg.Database.AutoMigrate = true
			}

			db, err := database.Initialize(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			records, err := repositories.FixtureRecords(cfg.Source.Location)
			if err != nil {
				return err
			}

			if random > 0 {
				end := time.Now().UTC()
				generated := services.NewTransactionGenerator().GenerateTransactions(end.AddDate(0, 0, -days), end, random)
				records = append(records, generated...)
			}

			repo := repositories.NewTransactionRepository(db.DB)
			created, err := repo.CreateBatch(cmd.Context(), records)
			if err != nil {
				return fmt.Errorf("failed to seed transactions: %w", err)
			}

			total, err := repo.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count transactions: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(
				fmt.Sprintf("Seeded %d transactions (%d total)", created, total)))
			return nil
		},
	}

	cmd.Flags().IntVar(&random, "random", 0, "number of generated transactions to add")
	cmd.Flags().IntVar(&days, "days", 30, "span in days for generated transactions")

	return cmd
}
