package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cagestat/internal/export"
)

func newExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Run the pipeline and write the report to a file",
		RunE:  runExport,
	}

	addPipelineFlags(exportCmd)
	exportCmd.Flags().String("format", "json", "output format: json, csv, markdown, or html")
	exportCmd.Flags().String("out", "", "output file (stdout when empty)")
	exportCmd.Flags().Bool("pretty", true, "indent JSON output")

	return exportCmd
}

func runExport(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	defer opts.logger.Sync()

	ds, results, failures, err := runPipeline(opts)
	if err != nil {
		return err
	}
	for _, failure := range failures {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", failure)
	}

	report := export.NewReport(ds, results)

	format, _ := cmd.Flags().GetString("format")
	pretty, _ := cmd.Flags().GetBool("pretty")

	var content string
	switch format {
	case "json":
		content, err = export.JSON(report, pretty)
	case "csv":
		content, err = export.CSV(report)
	case "markdown", "md":
		content, err = export.Markdown(report)
	case "html":
		content, err = export.HTML(report)
	default:
		return fmt.Errorf("unknown format %q (want json, csv, markdown, or html)", format)
	}
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	if err := export.WriteFile(out, content); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", format, out)
	return nil
}
