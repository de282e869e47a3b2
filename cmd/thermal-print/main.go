package main

import (
	"os"

	"github.com/spherical/thermal-print/cmd/thermal-print/commands"
	"github.com/spherical/thermal-print/cmd/thermal-print/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !commands.IsReported(err) {
			ui.Error("%v", err)
		}
		os.Exit(commands.ExitCode(err))
	}
}
