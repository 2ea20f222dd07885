package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-town/internal/driver"
	"github.com/pixil98/go-town/internal/messaging"
	"github.com/pixil98/go-town/internal/space"
	"github.com/pixil98/go-town/internal/town"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Messaging backbone
	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Town definitions and registry
	townStore, err := cfg.Storage.Towns.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating town store: %w", err)
	}
	registry := town.NewRegistry(townStore)

	// Space store, one space per zone declared on each town's map. A failure
	// here is a map configuration bug and aborts startup.
	store := space.NewStore(registry)
	for townID, t := range registry.Towns() {
		for _, zone := range t.SpaceZones() {
			s, err := store.CreateSpace(zone, townID)
			if err != nil {
				return nil, fmt.Errorf("creating space %q in town %q: %w", zone, townID, err)
			}
			s.AddListener(messaging.NewSpaceEventBridge(s.ID(), nats))
		}
	}

	// Idle players get swept out of their spaces and towns by the driver.
	idleTimeout, err := time.ParseDuration(cfg.Pruning.IdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing idle_timeout: %w", err)
	}
	tickInterval, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}

	townDriver := driver.NewTownDriver(
		[]driver.Manager{town.NewIdlePruner(registry, store, idleTimeout)},
		driver.WithTickLength(tickInterval),
	)

	return service.WorkerList{
		"nats":   nats,
		"api":    cfg.Listener.BuildServer(store, registry, nats),
		"driver": townDriver,
	}, nil
}
