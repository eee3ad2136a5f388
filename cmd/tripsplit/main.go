package main

import (
	"cmp"
	"fmt"
	"os"

	"github.com/mmynk/tripsplitter/internal/commands"
	"github.com/mmynk/tripsplitter/internal/config"
	"github.com/mmynk/tripsplitter/pkg/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cmp.Or(os.Getenv("LOG_LEVEL"), "warn")))

	if err := commands.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
