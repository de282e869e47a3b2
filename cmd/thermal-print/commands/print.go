package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spherical/thermal-print/cmd/thermal-print/ui"
	"github.com/spherical/thermal-print/pkg/printer"
)

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := printer.NewClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ui.Info("Printing %s on %s", filepath.Base(filePath), client.Target())

	job, err := runJob(ctx, filepath.Base(filePath), func(ctx context.Context, events chan<- printer.StreamEvent) (*printer.PrintJob, error) {
		return client.Print(ctx, filePath, events)
	})
	if err != nil {
		return reportFailure(err)
	}

	ui.Success("Printed %s", filepath.Base(filePath))
	if verbose {
		ui.Section("Print Summary")
		ui.Table([]string{"Field", "Value"}, summaryRows(job,
			[]string{"Printer", job.Target.String()},
			[]string{"Font", client.FontName()},
		))
	}
	return nil
}
