package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spherical/thermal-print/cmd/thermal-print/ui"
	"github.com/spherical/thermal-print/internal/config"
	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
	"github.com/spherical/thermal-print/pkg/printer"
)

// loadConfig reads the config file and environment, then applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("vendor") {
		id, err := config.ParseUSBID(vendorID)
		if err != nil {
			return domain.ConfigError("invalid --vendor", err)
		}
		cfg.Printer.VendorID = id
	}
	if flags.Changed("product") {
		id, err := config.ParseUSBID(productID)
		if err != nil {
			return domain.ConfigError("invalid --product", err)
		}
		cfg.Printer.ProductID = id
	}
	if flags.Changed("no-crop") && noCrop {
		cfg.PDF.Crop = false
	}
	if flags.Changed("rasterizer") {
		cfg.PDF.Rasterizer = strings.ToLower(rasterizer)
	}
	if flags.Changed("log-format") {
		cfg.Observability.LogFormat = logFormat
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	return nil
}

func newLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		Output:      os.Stderr,
		ServiceName: "thermal-print",
	})
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, cancelling job...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

type jobFunc func(ctx context.Context, events chan<- printer.StreamEvent) (*printer.PrintJob, error)

// runJob executes job in the background and renders its events until it
// finishes.
func runJob(ctx context.Context, name string, job jobFunc) (*printer.PrintJob, error) {
	events := make(chan printer.StreamEvent, 100)

	type result struct {
		job *printer.PrintJob
		err error
	}
	done := make(chan result, 1)
	go func() {
		j, err := job(ctx, events)
		close(events)
		done <- result{j, err}
	}()

	var (
		spin *ui.Spinner
		bar  *ui.ProgressBar
	)
	stopSpinner := func() {
		if spin != nil {
			spin.Stop()
			spin = nil
		}
	}

	for event := range events {
		switch event.Type {
		case printer.EventStateChange:
			ui.Step("%s", event.State)
			switch event.State {
			case printer.StateConverting:
				spin = ui.NewSpinner(fmt.Sprintf("Converting %s...", name))
				spin.Start()
			case printer.StatePrinting:
				stopSpinner()
			}

		case printer.EventProgress:
			p, ok := event.Payload.(printer.Progress)
			if !ok {
				continue
			}
			if bar == nil {
				bar = ui.NewProgressBar(int64(p.Total), "Printing")
			}
			bar.Set(int64(p.Done))

		case printer.EventError, printer.EventComplete:
			stopSpinner()
			if bar != nil {
				bar.Finish()
				bar = nil
			}
		}
	}
	stopSpinner()

	r := <-done
	return r.job, r.err
}

// reportFailure prints a job failure and wraps it so main does not repeat it.
func reportFailure(err error) error {
	if printer.IsCancellation(err) {
		ui.Warning("Job cancelled")
	} else {
		ui.Error("%v", err)
		if printer.ErrorTypeOf(err) == domain.ErrorTypeUnsupportedFormat {
			ui.Info("Supported files: %s", strings.Join(printer.SupportedExtensions(), " "))
		}
	}
	return &reportedError{err: err}
}

func summaryRows(job *printer.PrintJob, extra ...[]string) [][]string {
	rows := [][]string{
		{"File", filepath.Base(job.Document.Path)},
		{"Kind", string(job.Document.Kind)},
	}
	rows = append(rows, extra...)
	rows = append(rows,
		[]string{"Duration", ui.FormatDuration(job.FinishedAt.Sub(job.StartedAt))},
		[]string{"Job", job.ID},
	)
	return rows
}
