// Package main hosts the main function for idle-reclaimer.
package main

import (
	"os"

	"github.com/taskcluster/idle-reclaimer/commands"
	_ "github.com/taskcluster/idle-reclaimer/commands/help"
	_ "github.com/taskcluster/idle-reclaimer/commands/reclaim"
	_ "github.com/taskcluster/idle-reclaimer/commands/schema"
	_ "github.com/taskcluster/idle-reclaimer/commands/version"
	_ "github.com/taskcluster/idle-reclaimer/config/env"
)

func main() {
	if !commands.Run(nil) {
		os.Exit(1)
	}
}
