package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-town/internal/api"
	"github.com/pixil98/go-town/internal/space"
	"github.com/pixil98/go-town/internal/town"
)

type ListenerConfig struct {
	Port           uint16   `json:"port"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildServer(store *space.Store, towns *town.Registry, sub api.Subscriber) *api.Server {
	return api.NewServer(cl.Port, store, towns, sub, cl.AllowedOrigins)
}
