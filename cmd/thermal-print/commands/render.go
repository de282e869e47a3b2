package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spherical/thermal-print/cmd/thermal-print/ui"
	"github.com/spherical/thermal-print/pkg/printer"
)

var (
	renderFile   string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the bitmap that would be printed to an image file",
	Long: `Render converts a document exactly as a print job would, scales and binarizes it
for the printer width, and writes the result as PNG or BMP instead of printing.`,
	Example: `  thermal-print render --file invoice.pdf --output invoice.png`,
	Args:    cobra.NoArgs,
	RunE:    runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFile, "file", "f", "", "document to render (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output image, .png or .bmp (default: <file>-preview.png)")
	_ = renderCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := printer.NewClient(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	if renderOutput == "" {
		renderOutput = previewPath(renderFile)
	}

	ctx, cancel := signalContext()
	defer cancel()

	job, err := runJob(ctx, filepath.Base(renderFile), func(ctx context.Context, events chan<- printer.StreamEvent) (*printer.PrintJob, error) {
		return client.Render(ctx, renderFile, renderOutput, events)
	})
	if err != nil {
		return reportFailure(err)
	}

	ui.Success("Preview written to %s", renderOutput)
	if verbose {
		ui.Section("Render Summary")
		ui.Table([]string{"Field", "Value"}, summaryRows(job, []string{"Output", renderOutput}))
	}
	return nil
}

// previewPath derives the default preview location next to the input.
func previewPath(input string) string {
	base := filepath.Base(input)
	name := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(filepath.Dir(input), name+"-preview.png")
}
