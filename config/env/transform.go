// Package configenv implements a TransformationProvider that replaces objects on
// the form: {$env: "VAR"} with the value of the environment variable VAR.
package configenv

import (
	"os"

	"github.com/pkg/errors"
	"github.com/taskcluster/idle-reclaimer/config"
	"github.com/taskcluster/idle-reclaimer/runtime"
)

type provider struct{}

func init() {
	config.Register("env", provider{})
}

func (provider) Transform(cfg map[string]interface{}, monitor runtime.Monitor) error {
	return config.ReplaceObjects(cfg, "env", func(val map[string]interface{}) (interface{}, error) {
		name, ok := val["$env"].(string)
		if !ok {
			return nil, errors.New("$env must be the name of an environment variable")
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			monitor.Warnf("environment variable %s is not set", name)
		}
		return value, nil
	})
}
