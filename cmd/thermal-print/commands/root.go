package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical/thermal-print/cmd/thermal-print/ui"
	"github.com/spherical/thermal-print/pkg/printer"
)

// Exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitCancelled = 130
)

var (
	cfgFile    string
	verbose    bool
	noColor    bool
	logFormat  string
	filePath   string
	vendorID   string
	productID  string
	noCrop     bool
	rasterizer string
)

var rootCmd = &cobra.Command{
	Use:   "thermal-print",
	Short: "Print PDF, text and image files on a USB receipt printer",
	Long: fmt.Sprintf(`thermal-print turns a document into a 576-dot monochrome raster and sends it
to an ESC/POS receipt printer over USB, then cuts the paper.

Supported files: %s`, strings.Join(printer.SupportedExtensions(), " ")),
	Example: `  thermal-print --file receipt.pdf
  thermal-print --file notes.txt --vendor 0x0416 --product 0x5011
  thermal-print --file scan.pdf --no-crop --rasterizer fitz`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitUI(noColor, verbose)
		return nil
	},
	RunE: runPrint,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().BoolVar(&noCrop, "no-crop", false, "do not trim PDF margins before rasterizing")
	rootCmd.PersistentFlags().StringVar(&rasterizer, "rasterizer", "", "PDF rasterizer: magick or fitz")

	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "document to print (required)")
	rootCmd.Flags().StringVar(&vendorID, "vendor", "", "USB vendor ID in hex (default 0x20d1)")
	rootCmd.Flags().StringVar(&productID, "product", "", "USB product ID in hex (default 0x7008)")
	_ = rootCmd.MarkFlagRequired("file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case printer.IsCancellation(err):
		return ExitCancelled
	default:
		return ExitFailure
	}
}

// reportedError marks an error already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already printed by a command.
func IsReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}
