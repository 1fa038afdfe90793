package config

import (
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/runtime"
	yaml "gopkg.in/yaml.v2"
)

// Schema returns the configuration file schema
func Schema() schematypes.Object {
	transformations := []string{}
	for name := range Providers() {
		transformations = append(transformations, name)
	}
	sort.Strings(transformations)
	return schematypes.Object{
		MetaData: schematypes.MetaData{
			Title:       "Reclaimer Configuration",
			Description: `Initial configuration and transformations to run.`,
		},
		Properties: schematypes.Properties{
			"transforms": schematypes.Array{
				MetaData: schematypes.MetaData{
					Title:       "Configuration Transformations",
					Description: "Ordered list of transformations to run on the config.",
				},
				Items: schematypes.StringEnum{
					Options: transformations,
				},
			},
			"config": ConfigSchema(),
		},
		Required: []string{"config"},
	}
}

// Load configuration from YAML config object.
func Load(data []byte, monitor runtime.Monitor) (*Config, error) {
	// Parse config file
	var config interface{}
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML config")
	}
	// yaml.Unmarshal generates map[interface{}]interface{} instead of
	// map[string]interface{}
	config = convertSimpleJSONTypes(config)

	// Extract transforms and config
	c, ok := config.(map[string]interface{})
	if !ok {
		return nil, errors.New("expected top-level config value to be an object")
	}
	result, ok := c["config"].(map[string]interface{})
	if !ok {
		return nil, errors.New("expected 'config' property to be an object")
	}

	if err = jsonCompatTypes(result); err != nil {
		return nil, errors.Wrap(err, "unsupported value in YAML config")
	}

	// Apply transforms
	if ct, ok := c["transforms"]; ok {
		var transforms []string
		err = schematypes.MustMap(Schema().Properties["transforms"], ct, &transforms)
		if err != nil {
			return nil, errors.Wrap(err, "'transforms' schema violated")
		}

		providers := Providers()
		for _, t := range transforms {
			provider, ok := providers[t]
			if !ok {
				return nil, errors.Errorf("unknown config transformation: %s", t)
			}
			if err = provider.Transform(result, monitor); err != nil {
				return nil, errors.Wrapf(err, "config transformation: %s failed", t)
			}

			// Transforms may only inject simple JSON compatible types
			if err = jsonCompatTypes(result); err != nil {
				panic(fmt.Sprintf("%s injected wrong types, error: %s", t, err))
			}
		}
	}

	// Filter out keys that aren't in the config schema, extra keys may be used
	// as options for the transformations.
	schema := ConfigSchema()
	result = schema.Filter(result)

	if err = schema.Validate(result); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	var cfg Config
	if err = schematypes.MustMap(schema, result, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to map configuration")
	}
	return &cfg, nil
}

// LoadFromFile will load configuration options from a YAML file and validate
// against the config file schema, returning an error message explaining what
// went wrong if unsuccessful.
func LoadFromFile(filename string, monitor runtime.Monitor) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", filename)
	}

	return Load(data, monitor)
}

func convertSimpleJSONTypes(val interface{}) interface{} {
	switch val := val.(type) {
	case []interface{}:
		r := make([]interface{}, len(val))
		for i, v := range val {
			r[i] = convertSimpleJSONTypes(v)
		}
		return r
	case map[interface{}]interface{}:
		r := make(map[string]interface{})
		for k, v := range val {
			s, ok := k.(string)
			if !ok {
				s = fmt.Sprintf("%v", k)
			}
			r[s] = convertSimpleJSONTypes(v)
		}
		return r
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// jsonCompatTypes returns an error if val contains types that wouldn't come
// out of json.Unmarshal into an interface{}.
func jsonCompatTypes(val interface{}) error {
	switch val := val.(type) {
	case []interface{}:
		for i, v := range val {
			if err := jsonCompatTypes(v); err != nil {
				return errors.Wrapf(err, "[%d]", i)
			}
		}
	case map[string]interface{}:
		for k, v := range val {
			if err := jsonCompatTypes(v); err != nil {
				return errors.Wrapf(err, "[%q]", k)
			}
		}
	case string, float64, bool, nil:
	default:
		return errors.Errorf("type %T is not JSON compatible", val)
	}
	return nil
}
