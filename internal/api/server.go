package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-town/internal/space"
	"github.com/pixil98/go-town/internal/town"
	"github.com/rs/cors"
)

// Subscriber is the slice of the messaging server the realtime endpoint
// needs to feed websocket clients.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// Server is the HTTP and websocket front door. Every route maps 1:1 onto a
// store or registry operation; the server itself holds no space state. It
// runs as a service worker: Start blocks until the context is cancelled.
type Server struct {
	addr    string
	handler http.Handler
}

// NewServer wires the route table. An empty allowedOrigins permits all
// origins, matching a development deployment.
func NewServer(port uint16, store *space.Store, towns *town.Registry, sub Subscriber, allowedOrigins []string) *Server {
	h := &handler{
		store: store,
		towns: towns,
		sub:   sub,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /towns/{townID}/players", h.joinTown)
	mux.HandleFunc("DELETE /towns/{townID}/players/{playerID}", h.leaveTown)
	mux.HandleFunc("POST /spaces/{townID}/{spaceID}", h.createSpace)
	mux.HandleFunc("GET /spaces/{townID}", h.listSpaces)
	mux.HandleFunc("GET /spaces/player/{playerID}", h.spaceForPlayer)
	mux.HandleFunc("POST /spaces/{townID}/{spaceID}/join", h.joinSpace)
	mux.HandleFunc("POST /spaces/{townID}/{spaceID}/leave", h.leaveSpace)
	mux.HandleFunc("POST /spaces/{townID}/{spaceID}/claim", h.claimSpace)
	mux.HandleFunc("PATCH /spaces/{townID}/{spaceID}", h.updateSpace)
	mux.HandleFunc("DELETE /spaces/{townID}/{spaceID}", h.disbandSpace)
	mux.HandleFunc("GET /events/{townID}/{playerID}", h.events)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return &Server{
		addr:    fmt.Sprintf(":%d", port),
		handler: c.Handler(mux),
	}
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.InfoContext(ctx, "api server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		return set[r.Header.Get("Origin")]
	}
}
