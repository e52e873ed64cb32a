package scorelog

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-cz/ringbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghthor/webtris/engine"
)

func newRecorder(t *testing.T) *SqliteRecorder {
	t.Helper()
	r, err := NewSqlite(context.Background(), filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSaveAndTop(t *testing.T) {
	r := newRecorder(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, score := range []uint64{850, 4250, 0, 4250} {
		rec, err := r.Save(Result{
			Player:  "p" + string(rune('a'+i)),
			Score:   score,
			Lines:   int(score / 850),
			Speed:   0.3,
			Started: base,
			Ended:   base.Add(time.Duration(i+1) * time.Minute),
		})
		require.NoError(t, err)
		require.EqualValues(t, i+1, rec.(Result).Id)
	}

	top, err := r.Top(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"pb", "pd", "pa"}, []string{top[0].Player, top[1].Player, top[2].Player})
	assert.EqualValues(t, 4250, top[0].Score)
	assert.Equal(t, 2*time.Minute, top[0].Duration())

	recent, err := r.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "pd", recent[0].(Result).Player)
	assert.Equal(t, "pc", recent[1].(Result).Player)
}

func TestResultOf(t *testing.T) {
	_, ok := ResultOf(engine.Event{Kind: engine.EventLocked})
	assert.False(t, ok)

	at := time.Unix(100, 0)
	res, ok := ResultOf(engine.Event{Kind: engine.EventGameOver, Player: "ann", Score: 10, Lines: 2, At: at})
	require.True(t, ok)
	assert.Equal(t, Result{Player: "ann", Score: 10, Lines: 2, Ended: at}, res)
}

func TestFollow(t *testing.T) {
	r := newRecorder(t)
	events := ringbuf.New[engine.Event](64)

	ctx, cancel := context.WithCancel(context.Background())
	context.AfterFunc(ctx, events.Close)
	wait := r.Follow(ctx, events, log.NewWithOptions(io.Discard, log.Options{}))

	events.Write(engine.Event{Kind: engine.EventSpawned})
	events.Write(engine.Event{Kind: engine.EventLinesCleared, Score: 850})
	events.Write(engine.Event{Kind: engine.EventGameOver, Player: "bob", Score: 850, Lines: 1, At: time.Now()})

	require.Eventually(t, func() bool {
		top, err := r.Top(10)
		return err == nil && len(top) == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, wait())

	top, err := r.Top(10)
	require.NoError(t, err)
	assert.Equal(t, "bob", top[0].Player)
}

func TestFollowStopsWhenIdle(t *testing.T) {
	r := newRecorder(t)
	events := ringbuf.New[engine.Event](64)

	ctx, cancel := context.WithCancel(context.Background())
	context.AfterFunc(ctx, events.Close)
	wait := r.Follow(ctx, events, log.NewWithOptions(io.Discard, log.Options{}))

	// let the follower park waiting for a write
	time.Sleep(50 * time.Millisecond)
	cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- wait() }()
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("follower still running after cancel")
	}
}
