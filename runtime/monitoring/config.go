package monitoring

import (
	"fmt"

	"github.com/sirupsen/logrus"
	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/runtime/mocks"
	"github.com/taskcluster/idle-reclaimer/runtime/util"
)

var mockConfigSchema = schematypes.Object{
	Properties: schematypes.Properties{
		"type": schematypes.StringEnum{Options: []string{"mock"}},
		"panicOnError": schematypes.Boolean{MetaData: schematypes.MetaData{
			Title:       "Panic On Error",
			Description: "Use a mock implementation of the monitor that panics on errors.",
		}},
	},
	Required: []string{"type", "panicOnError"},
}

var loggingConfigSchema = schematypes.Object{
	Properties: schematypes.Properties{
		"logLevel": schematypes.StringEnum{
			MetaData: schematypes.MetaData{Title: "Log Level"},
			Options: []string{
				logrus.DebugLevel.String(),
				logrus.InfoLevel.String(),
				logrus.WarnLevel.String(),
				logrus.ErrorLevel.String(),
				logrus.FatalLevel.String(),
				logrus.PanicLevel.String(),
			},
		},
		"tags": schematypes.Map{
			MetaData: schematypes.MetaData{
				Title:       "Tags",
				Description: "Tags that should be applied to all log entries from the reclaimer.",
			},
			Values: schematypes.String{},
		},
		"syslog": schematypes.String{MetaData: schematypes.MetaData{
			Title: "Syslog Name",
			Description: util.Markdown(`
				Name to use for process in syslog, leave as empty string to disable
				syslog forwarding.
			`),
		}},
	},
	Required: []string{"logLevel"},
}

// ConfigSchema for configuration given to New()
var ConfigSchema schematypes.Schema = schematypes.OneOf{
	mockConfigSchema,
	loggingConfigSchema,
}

// PreConfig returns a default monitor for use before the configuration is
// loaded. This logs at the INFO level to stderr.
func PreConfig() runtime.Monitor {
	return NewLoggingMonitor("info", map[string]string{"component": "idle-reclaimer"}, "")
}

// New returns a runtime.Monitor from config matching ConfigSchema.
func New(config interface{}) runtime.Monitor {
	if err := ConfigSchema.Validate(config); err != nil {
		panic(fmt.Sprintf("monitoring.New(): invalid config, error: %s", err))
	}

	var c struct {
		LogLevel string            `json:"logLevel"`
		Tags     map[string]string `json:"tags"`
		Syslog   string            `json:"syslog"`
	}
	if schematypes.MustMap(loggingConfigSchema, config, &c) == nil {
		return NewLoggingMonitor(c.LogLevel, c.Tags, c.Syslog)
	}

	var m struct {
		Type         string `json:"type"`
		PanicOnError bool   `json:"panicOnError"`
	}
	if schematypes.MustMap(mockConfigSchema, config, &m) == nil {
		return mocks.NewMockMonitor(m.PanicOnError)
	}

	panic("monitor config should have matched one of the options, this should be impossible")
}
