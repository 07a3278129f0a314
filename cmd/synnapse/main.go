package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// Supported subcommands:
// - serve: Run the HTTP API
// - show:  List every person
// - seed:  Insert the admin account and demo data

func main() {
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	serveDatabase := serveCmd.String("database", "", "SQLite database path (overrides database.driver and database.sqlite.path)")
	showDatabase := showCmd.String("database", "", "SQLite database path (overrides database.driver and database.sqlite.path)")
	seedDatabase := seedCmd.String("database", "", "SQLite database path (overrides database.driver and database.sqlite.path)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		_ = serveCmd.Parse(os.Args[2:])
		runServer(*serveDatabase)
	case "show":
		_ = showCmd.Parse(os.Args[2:])
		err = handleShow(ctx, *showDatabase)
	case "seed":
		_ = seedCmd.Parse(os.Args[2:])
		err = handleSeed(ctx, *seedDatabase)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: synnapse <command> [options]

Commands:
  serve   Run the HTTP API
  show    Print every person as "id: name <email>"
  seed    Create the admin account, demo persons and their entries

Options (all commands):
  -database string   SQLite database path; switches the driver to sqlite`)
}
