// Package terminal draws tetris snapshots and lobby messages on an ANSI
// terminal.
package terminal

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"text/template"

	"wtptetris/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos    = "\033[H"     // Reset cursor position to 0,0
	clearScreen = "\033[2J\033[H"

	emptyCell = "  "
	ghostCell = "[]"

	boxWidth = 38
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

// Lobby messages.
var (
	Welcome      = []string{"Welcome to Terminal Tetris", "", "(p)lay   (o)nline   (q)uit"}
	GameOver     = []string{"Game Over :)", "", "(p)lay   (o)nline   (q)uit"}
	Connecting   = []string{"connecting to server...", "", "(c)ancel"}
	Disconnected = []string{"something went wrong :(", "", "(p)lay   (o)nline   (q)uit"}
	Watching     = []string{"the game is over", "", "(q)uit"}
)

type templateData struct {
	Snapshot tetris.Snapshot
	Title    string
	NoGhost  bool
}

type Options struct {
	Writer  io.Writer
	Logger  *slog.Logger
	NoGhost bool
}

// Renderer writes frames to a terminal. It's safe for concurrent use.
type Renderer struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template

	mu   sync.Mutex
	data templateData
}

func New(o *Options) (*Renderer, error) {
	tmpl, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	r := &Renderer{
		writer:   o.Writer,
		logger:   o.Logger,
		template: tmpl,
		data:     templateData{NoGhost: o.NoGhost},
	}
	if r.writer == nil {
		r.writer = os.Stdout
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r, nil
}

// SetTitle sets the text shown next to the game name.
func (r *Renderer) SetTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Title = title
}

// Game draws a snapshot.
func (r *Renderer) Game(s tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Snapshot = s
	r.frame()
}

// Lobby draws a message box over the last frame.
func (r *Renderer) Lobby(lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame()
	border := "+" + strings.Repeat("-", boxWidth) + "+"
	row := 10
	fmt.Fprintf(r.writer, "\033[%d;9H%s", row, border)
	for _, l := range lines {
		row++
		fmt.Fprintf(r.writer, "\033[%d;9H|%s|", row, center(l, boxWidth))
	}
	fmt.Fprintf(r.writer, "\033[%d;9H%s", row+1, border)
}

// Clear blanks the screen and forgets the last snapshot.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Snapshot = tetris.Snapshot{}
	fmt.Fprint(r.writer, clearScreen)
}

func (r *Renderer) frame() {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, &r.data); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board": board,
		"next":  nextPiece,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func cell(s tetris.Shape) string {
	c, ok := colorMap[s]
	if !ok {
		return ghostCell
	}
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", c)
}

func inside(x, y int) bool {
	return x >= 0 && x < tetris.Width && y >= 0 && y < tetris.Height
}

// board renders the landed blocks, the ghost and the falling piece, in
// that order, top row first.
func board(t *templateData) [tetris.Height][tetris.Width]string {
	var rendered [tetris.Height][tetris.Width]string
	for y := range rendered {
		for x := range rendered[y] {
			rendered[y][x] = emptyCell
		}
	}
	for _, b := range t.Snapshot.Board {
		if inside(b.X, b.Y) {
			rendered[b.Y][b.X] = cell(b.Shape)
		}
	}
	if !t.NoGhost {
		for _, p := range t.Snapshot.Ghost {
			if inside(p.X, p.Y) {
				rendered[p.Y][p.X] = ghostCell
			}
		}
	}
	for _, b := range t.Snapshot.Piece {
		if inside(b.X, b.Y) {
			rendered[b.Y][b.X] = cell(b.Shape)
		}
	}
	return rendered
}

// nextPiece renders the spawn layout of the next shape in a 4x2 box.
func nextPiece(t *templateData) []string {
	rows := [2][4]string{}
	for y := range rows {
		for x := range rows[y] {
			rows[y][x] = emptyCell
		}
	}
	if p, err := tetris.NewPiece(t.Snapshot.Next, tetris.Point{}); err == nil {
		pts := p.Points()
		minX, minY := pts[0].X, pts[0].Y
		for _, pt := range pts {
			minX, minY = min(minX, pt.X), min(minY, pt.Y)
		}
		for _, pt := range pts {
			x, y := pt.X-minX, pt.Y-minY
			if y < len(rows) && x < len(rows[y]) {
				rows[y][x] = cell(p.Shape)
			}
		}
	}
	return []string{strings.Join(rows[0][:], ""), strings.Join(rows[1][:], "")}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
