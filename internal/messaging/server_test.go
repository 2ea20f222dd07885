package messaging

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestNatsServer_PublishBeforeStartBuffers(t *testing.T) {
	s, err := NewNatsServer()
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	// Events fired before the worker connects are held, not dropped
	if err := s.Publish("space-town1_1", []byte(`{"event":"player-joined-space"}`)); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	if err := s.Publish("player-alice", []byte(`{"event":"player-left-space"}`)); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	testutil.AssertEqual(t, "buffered", len(s.pending), 2)
	testutil.AssertEqual(t, "first subject", s.pending[0].subject, "space-town1_1")
	testutil.AssertEqual(t, "second subject", s.pending[1].subject, "player-alice")
}
