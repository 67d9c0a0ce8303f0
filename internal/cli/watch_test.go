package cli

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fireRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *fireRecorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *fireRecorder) fired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestSettlerFiresOncePerBurst(t *testing.T) {
	rec := &fireRecorder{}
	s := newSettler(20*time.Millisecond, rec.record)

	// A burst of write events for the same file.
	s.schedule("/tmp/visit.wav")
	s.schedule("/tmp/visit.wav")
	s.schedule("/tmp/visit.wav")

	require.Eventually(t, func() bool {
		return len(rec.fired()) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"/tmp/visit.wav"}, rec.fired(), "burst fires exactly once")
}

func TestSettlerTracksPathsIndependently(t *testing.T) {
	rec := &fireRecorder{}
	s := newSettler(10*time.Millisecond, rec.record)

	s.schedule("/tmp/a.wav")
	s.schedule("/tmp/b.wav")

	require.Eventually(t, func() bool {
		return len(rec.fired()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"/tmp/a.wav", "/tmp/b.wav"}, rec.fired())
}

// A stopped settler must never fire: a pending timer firing after the
// watch loop returns would run a session against a closed store.
func TestSettlerStopCancelsPending(t *testing.T) {
	rec := &fireRecorder{}
	s := newSettler(20*time.Millisecond, rec.record)

	s.schedule("/tmp/visit.wav")
	s.stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.fired(), "no callback after stop")

	// Scheduling after stop is also a no-op.
	s.schedule("/tmp/late.wav")
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.fired())
}
