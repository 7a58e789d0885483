// Command gridmap-cli is the command-line client for gridmap-server.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/gridmap-go/internal/cli/command"
)

func main() {
	if err := command.NewApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
