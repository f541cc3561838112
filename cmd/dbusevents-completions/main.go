package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/dbusevents/cmd/dbusevents"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <%s>\n", os.Args[0], strings.Join(dbusevents.CompletionShells, "|"))
		os.Exit(1)
	}

	if err := dbusevents.GenCompletion(os.Stdout, os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
