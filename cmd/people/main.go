// Command people reads and updates the record store from the terminal.
//
//	people --file data list --last-name Pupkin
//	people --file data add student --first-name Vlad --last-name Upyrov \
//	    --gender male --student-id 3332 --course 3 --dorm 101-12
//	people --config config/local.yaml report
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/people-registry/internal/cli"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if err := cli.NewRootCommand(os.Stdout, log).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during run: %v\n", err)
		os.Exit(1)
	}
}
