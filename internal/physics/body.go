package physics

// Body is an axis-aligned box integrated by World. X and Y are the centre of
// the box, in pixels, with Y growing downward.
type Body struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	VX       float32 `json:"vx"`
	VY       float32 `json:"vy"`
	W        float32 `json:"w"`
	H        float32 `json:"h"`
	Gravity  bool    `json:"gravity"`
	Grounded bool    `json:"grounded"`

	// Bounce is the floor restitution. Zero means the body lands and stays.
	Bounce float32 `json:"-"`
}

// NewBody returns a gravity-enabled body centred at (x, y).
func NewBody(x, y, w, h float32) Body {
	return Body{X: x, Y: y, W: w, H: h, Gravity: true}
}

func (b *Body) SetVelocity(vx, vy float32) {
	b.VX = vx
	b.VY = vy
}

func (b *Body) Velocity() (vx, vy float32) { return b.VX, b.VY }

func (b *Body) SetPosition(x, y float32) {
	b.X = x
	b.Y = y
}

func (b *Body) Position() (x, y float32) { return b.X, b.Y }

func (b *Body) SetGravityEnabled(on bool) { b.Gravity = on }

func (b *Body) GravityEnabled() bool { return b.Gravity }

// IsGrounded reports whether the last World step left the body resting on
// the floor.
func (b *Body) IsGrounded() bool { return b.Grounded }

func (b *Body) Left() float32   { return b.X - b.W/2 }
func (b *Body) Right() float32  { return b.X + b.W/2 }
func (b *Body) Top() float32    { return b.Y - b.H/2 }
func (b *Body) Bottom() float32 { return b.Y + b.H/2 }

// Rect is a static axis-aligned rectangle given by its edges.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

func (r Rect) Width() float32  { return r.MaxX - r.MinX }
func (r Rect) Height() float32 { return r.MaxY - r.MinY }

// Overlaps reports whether the body's box intersects r. Touching edges do
// not count.
func (b *Body) Overlaps(r Rect) bool {
	return b.Left() < r.MaxX && b.Right() > r.MinX &&
		b.Top() < r.MaxY && b.Bottom() > r.MinY
}

func (b *Body) overlapsBody(o *Body) bool {
	return b.Left() < o.Right() && b.Right() > o.Left() &&
		b.Top() < o.Bottom() && b.Bottom() > o.Top()
}

func clampF(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
