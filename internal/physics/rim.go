package physics

import "math"

// Rim is the static hoop geometry the ball bounces off: two rim end points
// and a vertical backboard behind them.
type Rim struct {
	LeftX, RightX float32
	Y             float32
	Radius        float32

	BackboardX      float32
	BackboardTopY   float32
	BackboardBottom float32

	Restitution          float32
	BackboardRestitution float32
}

func (r *Rim) collide(b *Body) {
	radius := b.W / 2
	r.collidePoint(b, r.LeftX, radius)
	r.collidePoint(b, r.RightX, radius)
	r.collideBackboard(b, radius)
}

func (r *Rim) collidePoint(b *Body, rimX, radius float32) {
	dx := b.X - rimX
	dy := b.Y - r.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	minDist := radius + r.Radius
	if dist >= minDist || dist == 0 {
		return
	}

	nx := dx / dist
	ny := dy / dist

	overlap := minDist - dist
	b.X += nx * overlap
	b.Y += ny * overlap

	dot := b.VX*nx + b.VY*ny
	b.VX -= 2 * dot * nx
	b.VY -= 2 * dot * ny

	b.VX *= r.Restitution
	b.VY *= r.Restitution
}

func (r *Rim) collideBackboard(b *Body, radius float32) {
	if b.Y+radius <= r.BackboardTopY || b.Y-radius >= r.BackboardBottom {
		return
	}
	if r.BackboardX < r.LeftX {
		// Board on the left: the ball arrives from the right.
		if b.X-radius < r.BackboardX && b.X > r.BackboardX-radius*2 {
			b.X = r.BackboardX + radius
			b.VX = -b.VX * r.BackboardRestitution
		}
		return
	}
	if b.X+radius > r.BackboardX && b.X < r.BackboardX+radius*2 {
		b.X = r.BackboardX - radius
		b.VX = -b.VX * r.BackboardRestitution
	}
}
