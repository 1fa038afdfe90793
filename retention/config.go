package retention

import (
	"fmt"
	"sort"

	"github.com/benbjohnson/clock"
	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/runtime/util"
)

var checkIntervalSchema = schematypes.Integer{
	MetaData: schematypes.MetaData{
		Title: "Check Interval",
		Description: util.Markdown(`
			Number of seconds the scheduler should wait before checking a worker
			again. Defaults to 60 seconds.
		`),
	},
	Minimum: 1,
	Maximum: 60 * 60,
}

const defaultCheckInterval = 60

// ConfigSchema returns schema for the config passed to New()
//
// This will compose a schema of config options from all registered providers.
func ConfigSchema() schematypes.Schema {
	mProviders.Lock()
	defer mProviders.Unlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make(schematypes.OneOf, 0, len(providers))
	for _, name := range names {
		provider := providers[name]
		option, err := schematypes.Merge(schematypes.Object{
			Properties: schematypes.Properties{
				"provider": schematypes.StringEnum{Options: []string{name}},
			},
			Required: []string{"provider"},
		}, provider.ConfigSchema())
		if err != nil {
			// Register doesn't allow AdditionalProperties or a "provider" property
			panic(fmt.Sprintf("retention.ConfigSchema(): cannot merge schemas, error: %s", err))
		}
		option.MetaData = provider.ConfigSchema().MetaData
		options = append(options, option)
	}
	return options
}

// New returns a Strategy from options.Config, which must match ConfigSchema().
func New(options Options) Strategy {
	if err := ConfigSchema().Validate(options.Config); err != nil {
		panic(fmt.Sprintf("retention.New(): invalid config, error: %s", err))
	}
	// The config matches ConfigSchema, so these casts can't fail
	config := options.Config.(map[string]interface{})
	name := config["provider"].(string)

	mProviders.Lock()
	p := providers[name]
	mProviders.Unlock()

	if options.Clock == nil {
		options.Clock = clock.New()
	}

	return p.NewStrategy(Options{
		Fleet:   options.Fleet,
		Monitor: options.Monitor.WithPrefix("retention").WithTag("retention-strategy", name),
		Clock:   options.Clock,
		Config:  p.ConfigSchema().Filter(config),
	})
}
