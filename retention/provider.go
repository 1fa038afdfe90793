package retention

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/fleet"
	"github.com/taskcluster/idle-reclaimer/runtime"
)

var (
	mProviders = sync.Mutex{}
	providers  = make(map[string]Provider)
)

// Options for creating a Strategy
type Options struct {
	Fleet   fleet.Controller
	Monitor runtime.Monitor
	// Clock used to measure idle time, defaults to the wall clock
	Clock  clock.Clock
	Config interface{}
}

// A Provider is a factory for a Strategy
type Provider interface {
	NewStrategy(Options) Strategy
	ConfigSchema() schematypes.Object
}

// Register will register a Provider, this is intended to be called from
// func init() {}, to register providers as an import side-effect.
//
// If a provider with the given name is already registered this will panic.
func Register(name string, provider Provider) {
	mProviders.Lock()
	defer mProviders.Unlock()

	// These restrictions allow us to flatten the config structure.
	if provider.ConfigSchema().AdditionalProperties {
		panic(fmt.Sprintf("retention.Provider implementation '%s' "+
			"allows additionalProperties in ConfigSchema()", name))
	}
	if _, ok := provider.ConfigSchema().Properties["provider"]; ok {
		panic(fmt.Sprintf("retention.Provider implementation '%s' "+
			"defines property 'provider' in ConfigSchema()", name))
	}

	if _, ok := providers[name]; ok {
		panic(fmt.Sprintf(
			"a retention.Provider with the name '%s' is already registered", name,
		))
	}

	providers[name] = provider
}

// Providers returns the names of registered providers
func Providers() []string {
	mProviders.Lock()
	defer mProviders.Unlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// Documentation returns a section for each registered provider, listing the
// title, description and config properties of the provider.
func Documentation() []runtime.Section {
	mProviders.Lock()
	defer mProviders.Unlock()

	docs := make([]runtime.Section, 0, len(providers))
	for name, provider := range providers {
		schema := provider.ConfigSchema()
		props := make([]string, 0, len(schema.Properties))
		for prop := range schema.Properties {
			props = append(props, prop)
		}
		sort.Strings(props)

		content := fmt.Sprintf("**%s**\n\n%s\n\n", schema.Title, schema.Description)
		content += fmt.Sprintf("- `provider: %s`\n", name)
		for _, prop := range props {
			required := ""
			for _, r := range schema.Required {
				if r == prop {
					required = " (required)"
				}
			}
			content += fmt.Sprintf("- `%s`%s\n", prop, required)
		}
		docs = append(docs, runtime.Section{
			Title:   name,
			Content: strings.TrimSpace(content),
		})
	}
	return docs
}
