package ws

import "encoding/json"

// Client -> Server message types
const (
	MsgPlayerInput uint8 = 0x01
	MsgPing        uint8 = 0x04
)

// Server -> Client message types
const (
	MsgGameState uint8 = 0x81
	MsgGameStart uint8 = 0x82
	MsgGameOver  uint8 = 0x83
	MsgScored    uint8 = 0x84
	MsgFeedback  uint8 = 0x85
	MsgPong      uint8 = 0x86
)

type Message struct {
	Type    uint8           `json:"type"`
	Tick    uint32          `json:"tick"`
	Payload json.RawMessage `json:"payload"`
}

// PlayerInputPayload carries level state, not edges. Buttons is an
// input.Button bitmask. Seq increases per client send; stale frames are
// dropped.
type PlayerInputPayload struct {
	MoveX   float32 `json:"moveX"`
	MoveY   float32 `json:"moveY"`
	Buttons uint8   `json:"buttons"`
	Seq     uint32  `json:"seq"`
}

type PingPayload struct {
	ClientTime uint64 `json:"clientTime"`
}

type GameStartPayload struct {
	SessionID string   `json:"sessionId"`
	Seed      uint64   `json:"seed"`
	Names     []string `json:"names"`
}

type ScoredPayload struct {
	Team   int8   `json:"team"`
	Points int    `json:"points"`
	Score  [2]int `json:"score"`
	Dunk   bool   `json:"dunk"`
}

type FeedbackPayload struct {
	Cue   string  `json:"cue"`
	Text  string  `json:"text"`
	Color uint32  `json:"color"`
	TTL   int     `json:"ttl"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
}

type GameOverPayload struct {
	Winner int8   `json:"winner"`
	Score  [2]int `json:"score"`
}

type PongPayload struct {
	ClientTime uint64 `json:"clientTime"`
	ServerTime uint64 `json:"serverTime"`
}

func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func Decode(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}

func NewMessage(typ uint8, tick uint32, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:    typ,
		Tick:    tick,
		Payload: json.RawMessage(data),
	}, nil
}
