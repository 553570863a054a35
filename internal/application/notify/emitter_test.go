package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEmitter_ShowsLatestOnly(t *testing.T) {
	e := NewEmitter(time.Hour, nil)
	defer e.Close()

	first := e.Success("Item added successfully!")
	second := e.Error("Failed to save item. Check logs for details.")

	cur, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, second, cur)
	assert.NotEqual(t, first.Token, second.Token)

	assert.False(t, e.Dismiss(first.Token), "stale token must not clear the newer notification")
	_, ok = e.Current()
	assert.True(t, ok)

	assert.True(t, e.Dismiss(second.Token))
	_, ok = e.Current()
	assert.False(t, ok)
}

func TestEmitter_AutoDismiss(t *testing.T) {
	e := NewEmitter(20*time.Millisecond, nil)
	defer e.Close()

	var mu sync.Mutex
	var seen []Notification
	e.Subscribe(func(n Notification) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})

	e.Info("URL copied!")
	assert.Eventually(t, func() bool {
		_, ok := e.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, "URL copied!", seen[0].Message)
	assert.Equal(t, SeverityInfo, seen[0].Severity)
	assert.True(t, seen[1].Empty())
}

func TestEmitter_ReplacementRestartsTimer(t *testing.T) {
	e := NewEmitter(60*time.Millisecond, nil)
	defer e.Close()

	e.Info("first")
	time.Sleep(40 * time.Millisecond)
	second := e.Info("second")
	time.Sleep(40 * time.Millisecond)

	cur, ok := e.Current()
	require.True(t, ok, "the first timer must not dismiss the second notification")
	assert.Equal(t, second.Token, cur.Token)

	assert.Eventually(t, func() bool {
		_, ok := e.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestEmitter_CloseDropsLaterCalls(t *testing.T) {
	e := NewEmitter(time.Hour, nil)
	e.Info("x")
	e.Close()

	n := e.Info("y")
	assert.True(t, n.Empty())
	cur, _ := e.Current()
	assert.Equal(t, "x", cur.Message)
}
