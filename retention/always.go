package retention

import (
	"context"
	"fmt"
	"time"

	schematypes "github.com/taskcluster/go-schematypes"
	"github.com/taskcluster/idle-reclaimer/fleet"
)

type alwaysProvider struct{}

func (alwaysProvider) ConfigSchema() schematypes.Object {
	return schematypes.Object{
		MetaData: schematypes.MetaData{
			Title:       "Always Retention Strategy",
			Description: "Keeps every worker, workers are connected but never reclaimed.",
		},
		Properties: schematypes.Properties{
			"checkInterval": checkIntervalSchema,
		},
	}
}

func (alwaysProvider) NewStrategy(options Options) Strategy {
	var c struct {
		CheckInterval int `json:"checkInterval"`
	}
	if err := schematypes.MustMap(alwaysProvider{}.ConfigSchema(), options.Config, &c); err != nil {
		panic(fmt.Sprintf("invalid 'always' retention config, error: %s", err))
	}
	if c.CheckInterval == 0 {
		c.CheckInterval = defaultCheckInterval
	}
	return &AlwaysStrategy{
		Base:          Base{Monitor: options.Monitor},
		CheckInterval: time.Duration(c.CheckInterval) * time.Second,
	}
}

// An AlwaysStrategy never reclaims workers.
type AlwaysStrategy struct {
	Base
	CheckInterval time.Duration
}

// Evaluate keeps w
func (s *AlwaysStrategy) Evaluate(ctx context.Context, w fleet.Worker) Outcome {
	return Outcome{Checked: true, NextCheck: s.CheckInterval}
}

func init() {
	Register("always", alwaysProvider{})
}
