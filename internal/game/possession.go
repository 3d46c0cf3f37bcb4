package game

import (
	"encoding/json"
	"fmt"
)

type PossessionKind uint8

const (
	KindLoose PossessionKind = iota
	KindInFlight
	KindCarried
)

func (k PossessionKind) String() string {
	switch k {
	case KindInFlight:
		return "in-flight"
	case KindCarried:
		return "carried"
	}
	return "loose"
}

// Possession says who holds the ball. Exactly one of Loose, InFlight or
// Carried(id) holds; the zero value is Loose.
type Possession struct {
	kind    PossessionKind
	carrier ActorID
}

func Loose() Possession    { return Possession{kind: KindLoose, carrier: NoActor} }
func InFlight() Possession { return Possession{kind: KindInFlight, carrier: NoActor} }

func Carried(id ActorID) Possession { return Possession{kind: KindCarried, carrier: id} }

func (p Possession) Kind() PossessionKind { return p.kind }

// Carrier returns the carrying actor when the ball is carried.
func (p Possession) Carrier() (ActorID, bool) {
	if p.kind != KindCarried {
		return NoActor, false
	}
	return p.carrier, true
}

// CarriedBy reports whether id holds the ball.
func (p Possession) CarriedBy(id ActorID) bool {
	return p.kind == KindCarried && p.carrier == id
}

func (p Possession) Equal(o Possession) bool {
	if p.kind != o.kind {
		return false
	}
	return p.kind != KindCarried || p.carrier == o.carrier
}

func (p Possession) String() string {
	if p.kind == KindCarried {
		return fmt.Sprintf("carried(%d)", p.carrier)
	}
	return p.kind.String()
}

type possessionJSON struct {
	Kind    string  `json:"kind"`
	Carrier ActorID `json:"carrier"`
}

func (p Possession) MarshalJSON() ([]byte, error) {
	id, _ := p.Carrier()
	return json.Marshal(possessionJSON{Kind: p.kind.String(), Carrier: id})
}

func (p *Possession) UnmarshalJSON(data []byte) error {
	var raw possessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "loose":
		*p = Loose()
	case "in-flight":
		*p = InFlight()
	case "carried":
		if raw.Carrier < 0 {
			return fmt.Errorf("possession: carried without carrier")
		}
		*p = Carried(raw.Carrier)
	default:
		return fmt.Errorf("possession: unknown kind %q", raw.Kind)
	}
	return nil
}

// tryPickup hands the ball to id if every pickup guard passes.
func (m *Match) tryPickup(id ActorID) bool {
	s := &m.state
	if s.Possession.Kind() == KindCarried {
		return false
	}
	if s.Dunk.InProgress() {
		return false
	}
	if s.Ball.PickupCooldown > 0 {
		return false
	}

	a := &s.Actors[id]
	s.Possession = Carried(id)
	s.Ball.LastOwner = id
	s.Ball.EnteredHoop = false
	s.Ball.Body.SetVelocity(0, 0)
	s.Ball.Body.SetGravityEnabled(false)
	m.followCarrier()

	if a.Controlled {
		s.Active = id
	}
	m.log.Debug("pickup", actorField(a))
	return true
}
