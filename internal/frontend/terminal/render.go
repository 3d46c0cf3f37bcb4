package terminal

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/vladimirvolkov/courtside/internal/frontend"
	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/hud"
)

const (
	glyphBody   = '█'
	glyphBall   = 'O'
	glyphRim    = '='
	glyphBoard  = '│'
	glyphFloor  = '▀'
	glyphMarker = '▼'
)

// hudRows is reserved above the court for the score line.
const hudRows = 1

// viewport maps court pixels onto terminal cells.
type viewport struct {
	cols, rows int
	sx, sy     float32
}

func newViewport(cols, rows int, t *game.Tuning) viewport {
	court := rows - hudRows
	if court < 1 {
		court = 1
	}
	return viewport{
		cols: cols,
		rows: rows,
		sx:   float32(cols) / t.CourtWidth,
		sy:   float32(court) / t.CourtHeight,
	}
}

func (v viewport) cell(x, y float32) (col, row int) {
	col = int(x * v.sx)
	row = hudRows + int(y*v.sy)
	return col, row
}

func (v viewport) inside(col, row int) bool {
	return col >= 0 && col < v.cols && row >= hudRows && row < v.rows
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fg(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcellColor(c))
}

type renderer struct {
	screen tcell.Screen
	tuning game.Tuning
	hoop   game.Hoop
}

func (r *renderer) draw(s *game.GameState, board *hud.Board, footer string) {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	v := newViewport(cols, rows, &r.tuning)

	r.drawCourt(v)
	for i := range s.Actors {
		r.drawActor(v, &s.Actors[i], s.Active == s.Actors[i].ID)
	}
	if col, row := v.cell(s.Ball.Body.X, s.Ball.Body.Y); v.inside(col, row) {
		r.screen.SetContent(col, row, glyphBall, nil, fg(frontend.ColorBall))
	}
	r.drawHUD(v, board, footer)
	r.screen.Show()
}

func (r *renderer) drawCourt(v viewport) {
	t := &r.tuning
	_, floor := v.cell(0, t.FloorY)
	style := fg(frontend.ColorFloor)
	for row := floor; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			r.screen.SetContent(col, row, glyphFloor, nil, style)
		}
	}

	rim := r.hoop.Rim
	bc, top := v.cell(rim.BackboardX, rim.BackboardTopY)
	_, bottom := v.cell(rim.BackboardX, rim.BackboardBottom)
	for row := top; row <= bottom; row++ {
		if v.inside(bc, row) {
			r.screen.SetContent(bc, row, glyphBoard, nil, fg(frontend.ColorBackboard))
		}
	}
	left, ry := v.cell(rim.LeftX, rim.Y)
	right, _ := v.cell(rim.RightX, rim.Y)
	for col := left; col <= right; col++ {
		if v.inside(col, ry) {
			r.screen.SetContent(col, ry, glyphRim, nil, fg(frontend.ColorRim))
		}
	}
}

func (r *renderer) drawActor(v viewport, a *game.Actor, active bool) {
	b := a.Body
	c0, r0 := v.cell(b.X-b.W/2, b.Y-b.H/2)
	c1, r1 := v.cell(b.X+b.W/2, b.Y+b.H/2)
	if c1 <= c0 {
		c1 = c0 + 1
	}
	if r1 <= r0 {
		r1 = r0 + 1
	}

	body := fg(frontend.TeamColor(a.Team))
	head := body
	if c, ok := frontend.Outline(a.Hint); ok {
		head = fg(c)
	}
	for row := r0; row < r1; row++ {
		style := body
		if row == r0 {
			style = head
		}
		for col := c0; col < c1; col++ {
			if v.inside(col, row) {
				r.screen.SetContent(col, row, glyphBody, nil, style)
			}
		}
	}

	if active {
		mc := (c0 + c1 - 1) / 2
		if v.inside(mc, r0-1) {
			r.screen.SetContent(mc, r0-1, glyphMarker, nil, fg(frontend.ColorText))
		}
	}
}

func (r *renderer) drawHUD(v viewport, board *hud.Board, footer string) {
	style := fg(frontend.ColorText)
	if team := board.Flash(); team != game.NoTeam {
		style = style.Background(tcellColor(frontend.TeamColor(team)))
	}
	line := board.ScoreLine()
	r.text((v.cols-len(line))/2, 0, line, style)

	for _, f := range board.Floaters() {
		x, y := f.Position()
		col, row := v.cell(x, y)
		st := fg(frontend.RGB(f.Color)).Bold(true)
		if f.Alpha() < 0.5 {
			st = st.Dim(true)
		}
		r.text(col-len(f.Text)/2, row, f.Text, st)
	}

	if banner := board.Banner(); banner != "" {
		r.text((v.cols-len(banner))/2, v.rows/3, banner, fg(frontend.ColorText).Bold(true))
	}
	if footer != "" {
		r.text(0, v.rows-1, footer, fg(frontend.ColorText).Reverse(true))
	}
}

func (r *renderer) text(col, row int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(col, row, ch, nil, style)
		col++
	}
}
