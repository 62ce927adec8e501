// ABOUTME: Entry point for the cms CLI
// ABOUTME: Admin console for companies, programs, and licensed instances

package main

import (
	"fmt"
	"os"

	"github.com/centerops/cms-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
