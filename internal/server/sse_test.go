package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RiosenBeq/NASA/internal/events"
)

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"biosci.publication.ingested", "biosci.publication.ingested", true},
		{"biosci.publication.*", "biosci.publication.ingested", true},
		{"biosci.*.ingested", "biosci.publication.ingested", true},
		{"biosci.>", "biosci.publication.ingested", true},
		{"biosci.>", "biosci.graph.rebuilt", true},
		{">", "biosci.summary.generated", true},
		{"biosci.publication.*", "biosci.graph.rebuilt", false},
		{"biosci.publication.ingested.extra", "biosci.publication.ingested", false},
		{"biosci.publication", "biosci.publication.ingested", false},
		{"other.>", "biosci.publication.ingested", false},
	} {
		if got := matchTopicPattern(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}

func TestSSEClientMatchesTopic_EmptyMatchesAll(t *testing.T) {
	c := &sseClient{}
	if !c.matchesTopic("biosci.graph.rebuilt") {
		t.Error("empty filter should match all topics")
	}
}

func TestSSEHubBroadcastAndSubscribe(t *testing.T) {
	hub := newSSEHub()
	client := hub.subscribe(nil)
	defer hub.unsubscribe(client)

	hub.broadcast(events.TopicGraphRebuilt, []byte(`{"node_count":1}`))

	select {
	case evt := <-client.ch:
		if evt.Topic != events.TopicGraphRebuilt || string(evt.Data) != `{"node_count":1}` {
			t.Fatalf("got %+v", evt)
		}
		if evt.ID == 0 {
			t.Fatal("expected non-zero event id")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestSSEHubTopicFilter(t *testing.T) {
	hub := newSSEHub()
	client := hub.subscribe([]string{"biosci.graph.*"})
	defer hub.unsubscribe(client)

	hub.broadcast(events.TopicPublicationIngested, []byte(`{}`))
	hub.broadcast(events.TopicGraphRebuilt, []byte(`{}`))

	select {
	case evt := <-client.ch:
		if evt.Topic != events.TopicGraphRebuilt {
			t.Fatalf("got topic %q", evt.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for filtered broadcast")
	}

	select {
	case evt := <-client.ch:
		t.Fatalf("unexpected second event: %+v", evt)
	default:
	}
}

func TestSSEHubEventsSince(t *testing.T) {
	hub := newSSEHub()
	for i := 0; i < 5; i++ {
		hub.broadcast(events.TopicGraphRebuilt, []byte(fmt.Sprintf(`{"n":%d}`, i)))
	}

	replayed := hub.eventsSince(2)
	if len(replayed) != 3 {
		t.Fatalf("expected 3 replayed events, got %d", len(replayed))
	}
	if replayed[0].ID != 3 || replayed[2].ID != 5 {
		t.Fatalf("unexpected ids: %d..%d", replayed[0].ID, replayed[len(replayed)-1].ID)
	}
}

func TestSSEHubEventsSince_Empty(t *testing.T) {
	hub := newSSEHub()
	if got := hub.eventsSince(0); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSSEHubRingWraps(t *testing.T) {
	hub := newSSEHub()
	for i := 0; i < sseRingBufferSize+10; i++ {
		hub.broadcast("biosci.graph.rebuilt", []byte(`{}`))
	}

	replayed := hub.eventsSince(0)
	if len(replayed) != sseRingBufferSize {
		t.Fatalf("expected %d events, got %d", sseRingBufferSize, len(replayed))
	}
	// Oldest surviving event is the 11th.
	if replayed[0].ID != 11 {
		t.Fatalf("expected oldest id=11, got %d", replayed[0].ID)
	}
}

func TestSSEHubSlowClientDoesNotBlock(t *testing.T) {
	hub := newSSEHub()
	client := hub.subscribe(nil)
	defer hub.unsubscribe(client)

	// Overflow the client's buffered channel; broadcast must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.broadcast("biosci.graph.rebuilt", []byte(`{}`))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

func TestHandleEventStream(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms, nil)
	srv := httptest.NewServer(s.NewHTTPHandler(HandlerOptions{}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/events/stream", nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Give the handler a moment to register the subscriber, then broadcast.
	time.Sleep(50 * time.Millisecond)
	s.broadcastEvent(events.TopicGraphRebuilt, events.GraphRebuilt{NodeCount: 3, EdgeCount: 2})

	buf := make([]byte, 4096)
	deadline := time.After(2 * time.Second)
	var received strings.Builder
	for {
		select {
		case <-deadline:
			t.Fatalf("timed out; received so far: %q", received.String())
		default:
		}
		n, err := resp.Body.Read(buf)
		if n > 0 {
			received.Write(buf[:n])
			if strings.Contains(received.String(), "event:"+events.TopicGraphRebuilt) &&
				strings.Contains(received.String(), `"node_count":3`) {
				return
			}
		}
		if err != nil {
			t.Fatalf("read error: %v (received %q)", err, received.String())
		}
	}
}
