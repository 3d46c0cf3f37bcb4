// Package desktop runs a match in an ebiten window.
package desktop

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/frontend"
	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/hud"
	"github.com/vladimirvolkov/courtside/internal/input"
)

// Debug font cell size.
const (
	glyphW = 6
	glyphH = 16
)

// Keys returns a live input source reading bindings from the keyboard and
// the first gamepad.
func Keys(b input.Bindings) frontend.SourceFunc {
	return poller(b, ebiten.IsKeyPressed, gamepad)
}

type Options struct {
	Title string
	Scale float64
	Log   *zap.Logger
}

// Game implements ebiten.Game around a frontend.Driver.
type Game struct {
	d        *frontend.Driver
	tuning   game.Tuning
	hoop     game.Hoop
	finished bool
	log      *zap.Logger
}

func NewGame(d *frontend.Driver, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{d: d, tuning: d.Tuning(), hoop: d.Hoop(), log: log}
}

// Run opens the window and blocks until it closes.
func Run(d *frontend.Driver, opts Options) error {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	g := NewGame(d, opts.Log)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(int(float64(g.tuning.CourtWidth)*opts.Scale), int(float64(g.tuning.CourtHeight)*opts.Scale))
	ebiten.SetTPS(game.TickRate)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.finished || g.d.Over() {
		return nil
	}
	err := g.d.Step()
	if errors.Is(err, frontend.ErrSourceDone) {
		g.log.Info("replay finished", zap.Uint32("tick", g.d.State().Tick))
		g.finished = true
		return nil
	}
	return err
}

func (g *Game) Layout(_, _ int) (int, int) {
	return int(g.tuning.CourtWidth), int(g.tuning.CourtHeight)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(frontend.ColorCourt)
	t := &g.tuning
	vector.DrawFilledRect(screen, 0, t.FloorY, t.CourtWidth, t.CourtHeight-t.FloorY, frontend.ColorFloor, false)

	g.drawHoop(screen)

	s := g.d.State()
	for i := range s.Actors {
		g.drawActor(screen, &s.Actors[i], s.Active == s.Actors[i].ID)
	}
	b := s.Ball.Body
	vector.DrawFilledCircle(screen, b.X, b.Y, t.BallRadius, frontend.ColorBall, true)

	g.drawHUD(screen, g.d.Board())
}

func (g *Game) drawHoop(screen *ebiten.Image) {
	r := g.hoop.Rim
	vector.StrokeLine(screen, r.BackboardX, r.BackboardTopY, r.BackboardX, r.BackboardBottom, 4, frontend.ColorBackboard, false)
	vector.StrokeLine(screen, r.LeftX, r.Y, r.RightX, r.Y, 2, frontend.ColorRim, false)
	vector.DrawFilledCircle(screen, r.LeftX, r.Y, r.Radius, frontend.ColorRim, true)
	vector.DrawFilledCircle(screen, r.RightX, r.Y, r.Radius, frontend.ColorRim, true)

	// Net tapers from the rim down to the exit zone.
	net := color.RGBA{0xdd, 0xdd, 0xdd, 0x90}
	bottom := g.hoop.Exit.MaxY
	vector.StrokeLine(screen, r.LeftX, r.Y, g.hoop.Exit.MinX, bottom, 1, net, true)
	vector.StrokeLine(screen, r.RightX, r.Y, g.hoop.Exit.MaxX, bottom, 1, net, true)
}

func (g *Game) drawActor(screen *ebiten.Image, a *game.Actor, active bool) {
	b := a.Body
	x, y := b.X-b.W/2, b.Y-b.H/2
	vector.DrawFilledRect(screen, x, y, b.W, b.H, frontend.TeamColor(a.Team), false)
	if c, ok := frontend.Outline(a.Hint); ok {
		vector.StrokeRect(screen, x-2, y-2, b.W+4, b.H+4, 3, c, false)
	}

	// Eye on the facing side.
	ex := b.X + float32(a.Facing)*b.W/4
	vector.DrawFilledCircle(screen, ex, y+b.H/5, 3, frontend.ColorText, true)

	if active {
		vector.DrawFilledRect(screen, b.X-6, y-16, 12, 6, frontend.ColorText, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, board *hud.Board) {
	line := board.ScoreLine()
	lx := (int(g.tuning.CourtWidth) - len(line)*glyphW) / 2
	if team := board.Flash(); team != game.NoTeam {
		vector.DrawFilledRect(screen, float32(lx-6), 8, float32(len(line)*glyphW+12), glyphH+4, frontend.Fade(frontend.TeamColor(team), 0.6), false)
	}
	ebitenutil.DebugPrintAt(screen, line, lx, 10)

	for _, f := range board.Floaters() {
		x, y := f.Position()
		w := float32(len(f.Text) * glyphW)
		vector.DrawFilledRect(screen, x-w/2-3, y-2, w+6, glyphH+2, frontend.Fade(frontend.RGB(f.Color), 0.7*f.Alpha()), false)
		ebitenutil.DebugPrintAt(screen, f.Text, int(x-w/2), int(y))
	}

	if banner := board.Banner(); banner != "" {
		bx := (int(g.tuning.CourtWidth) - len(banner)*glyphW) / 2
		ebitenutil.DebugPrintAt(screen, banner, bx, int(g.tuning.CourtHeight)/3)
	}
	if g.finished {
		ebitenutil.DebugPrintAt(screen, "replay finished - esc to quit", 10, int(g.tuning.CourtHeight)-glyphH-4)
	}
}
