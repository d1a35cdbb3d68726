package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transaction-query/internal/services"
)

func exportCmd(root *rootOptions) *cobra.Command {
	var (
		filters filterFlags
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full filtered result set as CSV or XLSX",
		Long: `Export every record matching the filters, in sort order, ignoring paging.
CSV is written to stdout unless --output is given; XLSX always needs --output.`,
		Example: `  txquery export --search store > transactions.csv
  txquery export --sort credit --desc --format xlsx -o transactions.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exportFormat, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if exportFormat == services.ExportFormatXLSX && output == "" {
				return fmt.Errorf("--output is required for the xlsx format")
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			p, err := openPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			records, _, err := p.run(cmd.Context(), &filters)
			if err != nil {
				return err
			}

			artifact, err := services.Export(records, exportFormat)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(artifact.Body))
				return err
			}

			if err := os.WriteFile(output, artifact.Body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), SuccessStyle.Render(
				fmt.Sprintf("Exported %d transactions to %s", len(records), output)))
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "export format (csv, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the export to")

	return cmd
}
