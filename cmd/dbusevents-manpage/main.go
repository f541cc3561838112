package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dbusevents/cmd/dbusevents"
)

func main() {
	if err := dbusevents.GenManPage(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
