package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func testClient(h *Hub, buf int) *Client {
	return &Client{hub: h, send: make(chan []byte, buf)}
}

func TestHub_JobPostedReachesClients(t *testing.T) {
	h := startHub(t)
	a, b := testClient(h, 4), testClient(h, 4)
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	j := job.Job{ID: uuid.New(), Title: "Go Engineer", Company: "Acme", Location: "Remote"}
	h.JobPosted(j)

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var evt JobPostedEvent
			require.NoError(t, json.Unmarshal(msg, &evt))
			assert.Equal(t, EventJobPosted, evt.Type)
			assert.Equal(t, j.ID.String(), evt.JobID)
			assert.Equal(t, "Go Engineer", evt.Title)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	slow := testClient(h, 0)
	h.Register(slow)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast([]byte(`{}`))
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-slow.send
	assert.False(t, open)
}

func TestHub_UnregisterAndShutdown(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	a, b := testClient(h, 1), testClient(h, 1)
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.Unregister(a)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Zero(t, h.ClientCount())
	_, open := <-b.send
	assert.False(t, open)
}

func TestHub_RegisterAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	clients := make([]*Client, 0, 200)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 200; i++ {
			c := testClient(h, 1)
			clients = append(clients, c)
			h.Register(c)
			h.Unregister(c)
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Register or Unregister blocked after Run returned")
	}
	assert.Zero(t, h.ClientCount())
	for _, c := range clients {
		_, open := <-c.send
		assert.False(t, open)
	}
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.JobPosted(job.Job{})
	h.Broadcast(nil)
	assert.Zero(t, h.ClientCount())
}
