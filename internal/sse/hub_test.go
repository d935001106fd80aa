package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBroadcast(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("p1")
	b := h.Subscribe("p2")

	if n := h.Broadcast("p1", EventReload); n != 1 {
		t.Fatalf("Expected 1 recipient, got %d", n)
	}
	if msg := <-a.Msg; msg != EventReload {
		t.Errorf("Expected %q, got %q", EventReload, msg)
	}
	select {
	case msg := <-b.Msg:
		t.Errorf("Unexpected message for other post: %q", msg)
	default:
	}

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		h.Broadcast("p1", "one")
		if n := h.Broadcast("p1", "two"); n != 0 {
			t.Errorf("Expected message to be dropped, got %d recipients", n)
		}
	})

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	<-a.Msg // buffered "one"
	if _, open := <-a.Msg; open {
		t.Error("Expected channel to be closed after unsubscribe")
	}
	if h.Len() != 1 {
		t.Errorf("Expected 1 client left, got %d", h.Len())
	}
}

func TestServeHTTP(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	t.Run("missing post", func(t *testing.T) {
		resp, err := http.Get(srv.URL)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?post=p1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, "event: connected") {
		t.Fatalf("Expected connected event, got %q (%v)", line, err)
	}

	// Wait for the subscription before broadcasting.
	for h.Len() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	h.NotifyChanged("p1")

	for {
		line, err = reader.ReadString('\n')
		if err != nil {
			t.Fatalf("Stream ended early: %v", err)
		}
		if strings.HasPrefix(line, "data: "+EventReload) {
			break
		}
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for h.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.Len() != 0 {
		t.Error("Expected client to be removed after disconnect")
	}
}
