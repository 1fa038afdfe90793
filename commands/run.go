// Package commands exposes a run method for main() to call
package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/docopt/docopt-go"
)

// Run will parse command line arguments and run available commands. It
// returns true if the command was successful.
func Run(argv []string) bool {
	providers := Commands()
	usage := Usage(providers)

	// Parse arguments
	arguments, _ := docopt.Parse(usage, argv, true, "idle-reclaimer", true)
	cmd := arguments["<command>"].(string)

	// Find command provider
	provider := providers[cmd]
	if provider == nil {
		fmt.Fprintln(os.Stderr, "Unknown command: ", cmd)
		fmt.Fprint(os.Stderr, usage)
		return false
	}

	// Parse args for command provider
	subArguments, _ := docopt.Parse(
		provider.Usage(), append([]string{cmd}, arguments["<args>"].([]string)...),
		true, "idle-reclaimer", false,
	)
	// Execute provider with parsed args
	return provider.Execute(subArguments)
}

// Usage returns the top-level usage string listing the given commands
func Usage(providers map[string]CommandProvider) string {
	usage := "usage: idle-reclaimer <command> [<args>...]\n"
	usage += "\n"
	usage += "Commands available:\n"
	names := make([]string, 0, len(providers))
	maxNameLength := 0
	for name := range providers {
		names = append(names, name)
		if len(name) > maxNameLength {
			maxNameLength = len(name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		usage += "\n    " + pad(name, maxNameLength) + " " + providers[name].Summary()
	}
	usage += "\n"
	return usage
}

func pad(s string, length int) string {
	p := length - len(s)
	if p < 0 {
		p = 0
	}
	return s + strings.Repeat(" ", p)
}
