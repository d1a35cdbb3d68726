package main

import (
	"github.com/spf13/cobra"

	"transaction-query/internal/models"
	"transaction-query/internal/services"
)

func queryCmd(root *rootOptions) *cobra.Command {
	var (
		filters filterFlags
		page    int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a filtered query and print one page of results",
		Long: `Run a filtered query against the configured source and print the requested
page as a table. Bounds are inclusive and compose as a logical AND.`,
		Example: `  txquery query --min-credit 100 --max-credit 200
  txquery query --search store --sort credit --desc
  txquery query --start-date 2023-06-03 --end-date "2023-06-07 23:59" --page 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			p, err := openPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			records, spec, err := p.run(cmd.Context(), &filters)
			if err != nil {
				return err
			}

			return renderPage(cmd.OutOrStdout(), services.Paginate(records, models.DefaultPageSize, page), spec)
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page to print; out-of-range values are clamped")

	return cmd
}
