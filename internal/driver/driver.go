package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is a component that wants periodic housekeeping.
type Manager interface {
	Tick(context.Context) error
}

// TownDriver runs each registered manager's Tick on a fixed interval. It is
// the only recurring loop in the process; all other mutation is request
// driven.
type TownDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewTownDriver(managers []Manager, opts ...TownDriverOpt) *TownDriver {
	d := &TownDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *TownDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *TownDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
