package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dbusevents/cmd/dbusevents"
	"github.com/arthur-debert/dbusevents/pkg/ui"
)

func main() {
	rootCmd := dbusevents.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		styled := ui.DetectFormat(os.Stderr) == ui.FormatTerminal
		fmt.Fprintln(os.Stderr, ui.FormatError(err, styled))
		os.Exit(1)
	}
}
