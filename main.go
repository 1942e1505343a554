package main

import (
	"log"
	"os"

	"github.com/imjasonh/govulncheck-action/cli"
	"github.com/imjasonh/govulncheck-action/config"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !cli.Reported(err) {
			log.Printf("%s %v", config.Red("Action failed:"), err)
		}
		os.Exit(1)
	}
}
