package game

import "go.uber.org/zap"

type EventKind uint8

const (
	EventScore EventKind = iota + 1
	EventFeedback
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventScore:
		return "score"
	case EventFeedback:
		return "feedback"
	case EventGameOver:
		return "gameover"
	}
	return "unknown"
}

// Cue names what a feedback event reports, for sound and styling.
type Cue uint8

const (
	CueNone Cue = iota
	CueShot
	CueDunk
	CueSteal
	CueMiss
	CueShove
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueDunk:
		return "dunk"
	case CueSteal:
		return "steal"
	case CueMiss:
		return "miss"
	case CueShove:
		return "shove"
	}
	return "none"
}

// Feedback colours, 0xRRGGBB.
const (
	ColorWhite  uint32 = 0xffffff
	ColorGold   uint32 = 0xffd700
	ColorGreen  uint32 = 0x5be37d
	ColorOrange uint32 = 0xff8c1a
	ColorRed    uint32 = 0xff4d4d
	ColorGrey   uint32 = 0x9a9a9a
)

// Event is something a presentation layer should show. Score events carry
// Team, Points, Total and Dunk; feedback events carry Cue, Text, Color, TTL
// and the world position to float the text from; game-over events carry the
// winning Team.
type Event struct {
	Kind EventKind `json:"kind"`
	Tick uint32    `json:"tick"`

	Team   Team `json:"team"`
	Points int  `json:"points,omitempty"`
	Total  int  `json:"total,omitempty"`
	Dunk   bool `json:"dunk,omitempty"`

	Cue   Cue     `json:"cue,omitempty"`
	Text  string  `json:"text,omitempty"`
	Color uint32  `json:"color,omitempty"`
	TTL   int     `json:"ttl,omitempty"`
	X     float32 `json:"x,omitempty"`
	Y     float32 `json:"y,omitempty"`
}

//go:generate go tool mockgen -destination=./mocks/sink_mock.go -package=mocks . Sink

// Sink receives every event as it happens.
type Sink interface {
	Emit(Event)
}

func (m *Match) emit(e Event) {
	e.Tick = m.state.Tick
	m.events = append(m.events, e)
	if m.sink != nil {
		m.sink.Emit(e)
	}
}

func (m *Match) feedback(cue Cue, text string, color uint32, x, y float32) {
	m.emit(Event{
		Kind:  EventFeedback,
		Team:  NoTeam,
		Cue:   cue,
		Text:  text,
		Color: color,
		TTL:   m.tuning.FeedbackTTL,
		X:     x,
		Y:     y,
	})
}

func actorField(a *Actor) zap.Field {
	return zap.Int("actor", int(a.ID))
}
