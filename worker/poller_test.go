package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	data   []string
}

func (p *recordingPublisher) Publish(eventType, data string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	p.data = append(p.data, data)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestPollPublishes(t *testing.T) {
	src := fixtureSource()
	f, _ := newTestFetcher(src, DefaultConfig())
	pub := &recordingPublisher{}

	NewPoller(f, pub, time.Hour).poll(context.Background())

	require.Equal(t, []string{"dashboard_updated"}, pub.events)
	var payload struct {
		Stories  int `json:"stories"`
		Comments int `json:"comments"`
	}
	require.NoError(t, json.Unmarshal([]byte(pub.data[0]), &payload))
	assert.Equal(t, 3, payload.Stories)
	assert.Equal(t, 3, payload.Comments)

	status := f.snap.Status()
	assert.Equal(t, 3, status.Stories)
	assert.Equal(t, 3, status.Sentiments)
}

func TestPollSkipsPublishOnFailure(t *testing.T) {
	src := fixtureSource()
	src.topErr = errors.New("down")
	f, _ := newTestFetcher(src, DefaultConfig())
	pub := &recordingPublisher{}

	NewPoller(f, pub, time.Hour).poll(context.Background())

	assert.Zero(t, pub.count())
}

func TestPollerStopsOnCancel(t *testing.T) {
	src := fixtureSource()
	f, _ := newTestFetcher(src, DefaultConfig())
	pub := &recordingPublisher{}

	ctx, cancel := context.WithCancel(context.Background())
	NewPoller(f, pub, 10*time.Millisecond).Start(ctx)

	require.Eventually(t, func() bool { return pub.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
