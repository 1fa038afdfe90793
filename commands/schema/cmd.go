// Package schema provides a command that dumps the configuration file schema.
package schema

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/taskcluster/idle-reclaimer/commands"
	"github.com/taskcluster/idle-reclaimer/config"
	"github.com/taskcluster/idle-reclaimer/retention"
	"github.com/taskcluster/idle-reclaimer/runtime"
)

func init() {
	commands.Register("schema", cmd{})
}

type cmd struct{}

func (cmd) Summary() string {
	return "Dump schema or documentation for config"
}

func (cmd) Usage() string {
	return `
idle-reclaimer schema can be used to export JSON schema document for the
configuration file, or for the retention section of it. The docs form renders
markdown documentation for the available retention strategies.

usage:
  idle-reclaimer schema config [options]
  idle-reclaimer schema retention [options]
  idle-reclaimer schema docs [options]

options:
  -f --format <format>          Set the format json or yaml [Default: json].
  -o --output <file>            Write output to a file [Default: -].
`
}

func (cmd) Execute(args map[string]interface{}) bool {
	var data []byte
	var err error
	switch {
	case args["docs"].(bool):
		data = []byte(runtime.RenderDocument("Retention Strategies", retention.Documentation()))
	case args["retention"].(bool):
		data, err = render(retention.ConfigSchema().Schema(), args["--format"].(string))
	default:
		data, err = render(config.Schema().Schema(), args["--format"].(string))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	// Write output file or write to stdout
	output := args["--output"].(string)
	if output != "-" {
		err = ioutil.WriteFile(output, data, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write file: '%s', error: %s\n", output, err)
			return false
		}
	} else {
		fmt.Println(string(data))
	}

	return true
}

func render(schema map[string]interface{}, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(schema)
	case "json":
		return json.MarshalIndent(schema, "", "  ")
	default:
		return nil, errors.Errorf("unsupported format: '%s', must be json or yaml", format)
	}
}
