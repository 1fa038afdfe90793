package config

import (
	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/retention"
	"github.com/taskcluster/idle-reclaimer/runtime/monitoring"
	"github.com/taskcluster/idle-reclaimer/runtime/util"
)

// Config is the typed form of a configuration matching ConfigSchema()
type Config struct {
	// Config for monitoring.New()
	Monitor interface{} `json:"monitor"`
	// Config for retention.New()
	Retention interface{} `json:"retention"`
	Scheduler struct {
		TickInterval int `json:"tickInterval"`
		Concurrency  int `json:"concurrency"`
	} `json:"scheduler"`
	Fleet struct {
		InitialSize     int `json:"initialSize"`
		ConnectDelay    int `json:"connectDelay"`
		DisconnectDelay int `json:"disconnectDelay"`
	} `json:"fleet"`
}

var schedulerSchema = schematypes.Object{
	MetaData: schematypes.MetaData{Title: "Scheduler"},
	Properties: schematypes.Properties{
		"tickInterval": schematypes.Integer{
			MetaData: schematypes.MetaData{
				Title: "Tick Interval",
				Description: util.Markdown(`
					Number of seconds between passes over the fleet. Workers are only
					checked when their next check, as hinted by the retention strategy,
					is due.
				`),
			},
			Minimum: 1,
			Maximum: 60 * 60,
		},
		"concurrency": schematypes.Integer{
			MetaData: schematypes.MetaData{
				Title:       "Concurrency",
				Description: "Maximum number of workers being checked at the same time.",
			},
			Minimum: 1,
			Maximum: 1000,
		},
	},
	Required: []string{"tickInterval", "concurrency"},
}

var fleetSchema = schematypes.Object{
	MetaData: schematypes.MetaData{
		Title: "In-Memory Fleet",
		Description: util.Markdown(`
			Options for the in-memory fleet driven by the 'reclaim' command.
		`),
	},
	Properties: schematypes.Properties{
		"initialSize": schematypes.Integer{
			MetaData: schematypes.MetaData{
				Title:       "Initial Size",
				Description: "Number of instances to provision at start-up.",
			},
			Minimum: 0,
			Maximum: 10000,
		},
		"connectDelay": schematypes.Integer{
			MetaData: schematypes.MetaData{
				Title:       "Connect Delay",
				Description: "Milliseconds from a connect request until a worker is online.",
			},
			Minimum: 0,
			Maximum: 10 * 60 * 1000,
		},
		"disconnectDelay": schematypes.Integer{
			MetaData: schematypes.MetaData{
				Title:       "Disconnect Delay",
				Description: "Milliseconds from a disconnect request until a worker is offline.",
			},
			Minimum: 0,
			Maximum: 10 * 60 * 1000,
		},
	},
	Required: []string{"initialSize"},
}

// ConfigSchema returns the schema for the 'config' section of the
// configuration file.
func ConfigSchema() schematypes.Object {
	return schematypes.Object{
		MetaData: schematypes.MetaData{
			Title:       "Reclaimer Config",
			Description: "Configuration for the idle reclaimer.",
		},
		Properties: schematypes.Properties{
			"monitor":   monitoring.ConfigSchema,
			"retention": retention.ConfigSchema(),
			"scheduler": schedulerSchema,
			"fleet":     fleetSchema,
		},
		Required: []string{"monitor", "retention", "scheduler", "fleet"},
	}
}
