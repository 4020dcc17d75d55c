package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	flag.Parse()

	switch flag.Arg(0) {
	case "version":
		fmt.Fprintf(os.Stdout, "Skillboard %s\n", Version)
	case "serve":
		if err := serve(); err != nil {
			log.Fatal(err)
		}
	case "dev:fixtures":
		loadFixtures()
	case "help":
		fmt.Fprint(os.Stdout, help())
		return
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
	}
}

func help() string {
	return fmt.Sprintf(`
Skillboard is a Discord bot that tracks the "Beyond All Reason" Large Team
skill rating of the players of a server and posts ranked leaderboards.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    dev:fixtures create default data for quick testing during development
    help         display this help
    serve        start the bot, the scheduler, and the HTTP API
    version      display the current version
`,
		os.Args[0],
	)
}
