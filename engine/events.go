package engine

import (
	"time"

	"github.com/ghthor/webtris/figure"
)

type EventKind uint8

const (
	EventSpawned EventKind = iota
	EventLocked
	EventLinesCleared
	EventSpeedChanged
	EventPaused
	EventResumed
	EventGameOver
)

var eventNames = [...]string{
	EventSpawned:      "spawned",
	EventLocked:       "locked",
	EventLinesCleared: "lines-cleared",
	EventSpeedChanged: "speed-changed",
	EventPaused:       "paused",
	EventResumed:      "resumed",
	EventGameOver:     "game-over",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is published to the game's event stream. Fields not relevant to
// Kind are left zero.
type Event struct {
	Kind    EventKind
	At      time.Time
	Player  string
	Shape   figure.ShapeID
	Clears  []LineClear
	Score   uint64
	Lines   int
	Speed   float64
	Started time.Time
}
