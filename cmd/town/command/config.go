package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string         `json:"tick_interval"`
	Listener     ListenerConfig `json:"listener"`
	Storage      StorageConfig  `json:"storage"`
	Nats         NatsConfig     `json:"nats"`
	Pruning      PruningConfig  `json:"pruning"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < time.Second {
		el.Add(fmt.Errorf("tick_interval must be at least 1 second"))
	}

	el.Add(c.Listener.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Pruning.validate())

	return el.Err()
}

type PruningConfig struct {
	IdleTimeout string `json:"idle_timeout"`
}

func (c *PruningConfig) validate() error {
	el := errors.NewErrorList()

	if c.IdleTimeout == "" {
		el.Add(fmt.Errorf("idle_timeout is required"))
	} else {
		d, err := time.ParseDuration(c.IdleTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing idle_timeout: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("idle_timeout must be positive"))
		}
	}

	return el.Err()
}
