package physics

import (
	"math"
	"sort"

	"github.com/solarlune/resolv"
)

const (
	tagActor = "actor"
	tagBall  = "ball"
	tagZone  = "zone"

	cellSize = 16

	// Floor bounces slower than this settle the ball.
	restSpeed = float32(20)
)

// Params describes the playfield the World integrates bodies inside.
type Params struct {
	Gravity float32
	Width   float32
	Height  float32
	FloorY  float32

	FloorFriction   float32 // horizontal speed kept per ball floor bounce
	WallRestitution float32
	CeilRestitution float32
}

// ContactKind tells what the ball overlapped.
type ContactKind uint8

const (
	ContactBody ContactKind = iota
	ContactZone
)

// Contact is one ball overlap found after a step. Index is the actor index
// for ContactBody and the zone id for ContactZone.
type Contact struct {
	Kind  ContactKind
	Index int
	Dist  float32
}

type zoneRef int
type actorRef int

// World integrates actor bodies and the ball, and reports ball overlaps as
// an ordered contact queue. Overlap queries go through a resolv space.
type World struct {
	params Params
	rim    *Rim

	space     *resolv.Space
	ballObj   *resolv.Object
	actorObjs []*resolv.Object
	zones     []Rect
}

// NewWorld creates an empty world sized to the playfield.
func NewWorld(p Params) *World {
	w := &World{
		params: p,
		space:  resolv.NewSpace(int(p.Width), int(p.Height), cellSize, cellSize),
	}
	w.ballObj = resolv.NewObject(0, 0, 1, 1, tagBall)
	w.space.Add(w.ballObj)
	return w
}

// SetRim installs static hoop geometry for the ball to bounce off.
func (w *World) SetRim(r Rim) {
	w.rim = &r
}

// AddZone registers a static trigger rectangle and returns its id. Zones
// never collide, they only produce contacts.
func (w *World) AddZone(r Rect) int {
	id := len(w.zones)
	w.zones = append(w.zones, r)
	obj := resolv.NewObject(float64(r.MinX), float64(r.MinY), float64(r.Width()), float64(r.Height()), tagZone)
	obj.Data = zoneRef(id)
	w.space.Add(obj)
	return id
}

// Step advances every body by dt seconds.
func (w *World) Step(dt float32, actors []*Body, ball *Body) {
	for _, a := range actors {
		w.stepActor(a, dt)
	}
	if ball != nil {
		w.stepBall(ball, dt)
	}
}

func (w *World) integrate(b *Body, dt float32) {
	if b.Gravity {
		b.VY += w.params.Gravity * dt
	}
	b.X += b.VX * dt
	b.Y += b.VY * dt
}

func (w *World) stepActor(b *Body, dt float32) {
	w.integrate(b, dt)

	if b.Bottom() >= w.params.FloorY {
		b.Y = w.params.FloorY - b.H/2
		if b.VY > 0 {
			b.VY = 0
		}
		b.Grounded = true
	} else {
		b.Grounded = false
	}

	halfW := b.W / 2
	b.X = clampF(b.X, halfW, w.params.Width-halfW)
}

func (w *World) stepBall(b *Body, dt float32) {
	if !b.Gravity && b.VX == 0 && b.VY == 0 {
		// Held: the owner positions it.
		return
	}
	w.integrate(b, dt)

	radius := b.W / 2
	b.Grounded = false

	if b.Y+radius >= w.params.FloorY {
		b.Y = w.params.FloorY - radius
		b.VY = -b.VY * b.Bounce
		b.VX *= w.params.FloorFriction
		if float32(math.Abs(float64(b.VY))) < restSpeed {
			b.VY = 0
			b.Grounded = true
		}
	}

	if b.X-radius < 0 {
		b.X = radius
		b.VX = -b.VX * w.params.WallRestitution
	}
	if b.X+radius > w.params.Width {
		b.X = w.params.Width - radius
		b.VX = -b.VX * w.params.WallRestitution
	}
	if b.Y-radius < 0 {
		b.Y = radius
		b.VY = -b.VY * w.params.CeilRestitution
	}

	if w.rim != nil && b.Gravity {
		w.rim.collide(b)
	}
}

// Contacts returns every overlap between the ball and the actors or zones.
// Body contacts come first, nearest to the ball centre first and then by
// index. Zone contacts follow in registration order.
func (w *World) Contacts(actors []*Body, ball *Body) []Contact {
	w.sync(actors, ball)

	col := w.ballObj.Check(0, 0)
	if col == nil {
		return nil
	}

	var contacts []Contact
	seen := make(map[*resolv.Object]bool, len(col.Objects))
	for _, obj := range col.Objects {
		if seen[obj] {
			continue
		}
		seen[obj] = true
		switch ref := obj.Data.(type) {
		case actorRef:
			a := actors[int(ref)]
			if !ball.overlapsBody(a) {
				continue
			}
			dx := a.X - ball.X
			dy := a.Y - ball.Y
			contacts = append(contacts, Contact{
				Kind:  ContactBody,
				Index: int(ref),
				Dist:  float32(math.Sqrt(float64(dx*dx + dy*dy))),
			})
		case zoneRef:
			if !ball.Overlaps(w.zones[int(ref)]) {
				continue
			}
			contacts = append(contacts, Contact{Kind: ContactZone, Index: int(ref)})
		}
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		a, b := contacts[i], contacts[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Kind == ContactBody && a.Dist != b.Dist {
			return a.Dist < b.Dist
		}
		return a.Index < b.Index
	})
	return contacts
}

// sync mirrors body boxes into the resolv space.
func (w *World) sync(actors []*Body, ball *Body) {
	for len(w.actorObjs) < len(actors) {
		obj := resolv.NewObject(0, 0, 1, 1, tagActor)
		obj.Data = actorRef(len(w.actorObjs))
		w.space.Add(obj)
		w.actorObjs = append(w.actorObjs, obj)
	}
	for i, a := range actors {
		place(w.actorObjs[i], a)
	}
	place(w.ballObj, ball)
}

func place(obj *resolv.Object, b *Body) {
	obj.X = float64(b.Left())
	obj.Y = float64(b.Top())
	obj.W = float64(b.W)
	obj.H = float64(b.H)
	obj.Update()
}
