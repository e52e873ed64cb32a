package scorelog

import (
	"time"

	"github.com/ghthor/webtris/engine"
)

// Result is one finished game.
type Result struct {
	Id      int64 `json:"-"`
	Player  string
	Score   uint64
	Lines   int
	Speed   float64
	Started time.Time
	Ended   time.Time
}

var _ Recordable = Result{}

func init() {
	Register(Result{})
}

func (Result) TypeName() string { return "webtris.result" }

func (r Result) Ts() time.Time { return r.Ended }

func (r Result) SetId(id int64) Recordable {
	r.Id = id
	return r
}

func (r Result) Duration() time.Duration {
	if r.Started.IsZero() {
		return 0
	}
	return r.Ended.Sub(r.Started)
}

// ResultOf converts a game over event.
func ResultOf(ev engine.Event) (Result, bool) {
	if ev.Kind != engine.EventGameOver {
		return Result{}, false
	}
	return Result{
		Player:  ev.Player,
		Score:   ev.Score,
		Lines:   ev.Lines,
		Speed:   ev.Speed,
		Started: ev.Started,
		Ended:   ev.At,
	}, true
}
