package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer embeds a NATS server in-process and holds an internal client
// connection for publishing and subscribing. It runs as a service worker:
// Start blocks until the context is cancelled. Messages published before the
// worker has connected are buffered and flushed once it has, so publishers
// wired up during bootstrap do not lose the startup window.
type NatsServer struct {
	ns *server.Server

	mu      sync.Mutex
	conn    *nats.Conn
	pending []pendingMsg

	startupTimeout time.Duration
	host           string
	port           int
}

type pendingMsg struct {
	subject string
	data    []byte
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(n.clientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}

	n.mu.Lock()
	n.conn = conn
	pending := n.pending
	n.pending = nil
	n.mu.Unlock()

	for _, msg := range pending {
		if err := conn.Publish(msg.subject, msg.data); err != nil {
			slog.WarnContext(ctx, "publishing buffered message", "subject", msg.subject, "error", err)
		}
	}

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	n.mu.Lock()
	conn := n.conn
	n.mu.Unlock()

	if conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject. Before the worker has
// connected the message is buffered for delivery on connect.
func (n *NatsServer) Publish(subject string, data []byte) error {
	n.mu.Lock()
	conn := n.conn
	if conn == nil {
		n.pending = append(n.pending, pendingMsg{subject: subject, data: data})
		n.mu.Unlock()
		return nil
	}
	n.mu.Unlock()

	return conn.Publish(subject, data)
}

func (n *NatsServer) clientURL() string {
	return fmt.Sprintf("nats://%s:%d", n.host, n.port)
}
