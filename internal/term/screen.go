package term

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Viewport - rectangular region of the character grid.
type Viewport struct {
	X, Y, Width, Height int
}

// Layout - tiles the grid of given size: chat takes every row but the last one,
// input takes the last row.
func Layout(width, height int) (chat, input Viewport) {
	if width < 0 {
		width = 0
	}
	if height < 1 {
		return Viewport{Width: width}, Viewport{Width: width}
	}
	return Viewport{X: 0, Y: 0, Width: width, Height: height - 1},
		Viewport{X: 0, Y: height - 1, Width: width, Height: 1}
}

// Screen - fixed-width character grid.
type Screen interface {
	// Size - returns current grid size in columns and rows.
	Size() (width, height int)
	// Sync - rereads grid size and blanks the grid.
	Sync()
	// DrawText - writes text into row y from column x, filling the rest of width columns with spaces.
	DrawText(x, y, width int, text string)
	// SetCursor - places the caret after next Flush.
	SetCursor(x, y int)
	// Flush - outputs drawn content.
	Flush() error
}

// Component - visual region of the screen.
type Component interface {
	Resize(v Viewport)
	Redraw()
	// HandleKey - reports whether the key was applied to the component.
	HandleKey(k Key) bool
}

var _ Screen = (*ANSIScreen)(nil)

// ANSIScreen - Screen drawn with ANSI escape sequences.
type ANSIScreen struct {
	out           *bufio.Writer
	size          func() (width, height int, err error)
	width, height int
	cx, cy        int
}

// NewANSIScreen - builds screen writing into out, size reports terminal size.
func NewANSIScreen(out io.Writer, size func() (int, int, error)) *ANSIScreen {
	s := &ANSIScreen{
		out:  bufio.NewWriter(out),
		size: size,
	}
	s.Sync()
	return s
}

func (s *ANSIScreen) Size() (width, height int) {
	return s.width, s.height
}

func (s *ANSIScreen) Sync() {
	if w, h, err := s.size(); err == nil {
		s.width, s.height = w, h
	}
	s.out.WriteString("\x1b[2J")
}

func (s *ANSIScreen) DrawText(x, y, width int, text string) {
	if y < 0 || y >= s.height || x < 0 || x >= s.width || width <= 0 {
		return
	}
	if x+width > s.width {
		width = s.width - x
	}
	text = runewidth.Truncate(text, width, "")
	s.moveTo(x, y)
	s.out.WriteString(text)
	if fill := width - runewidth.StringWidth(text); fill > 0 {
		s.out.WriteString(strings.Repeat(" ", fill))
	}
}

func (s *ANSIScreen) SetCursor(x, y int) {
	s.cx, s.cy = x, y
}

func (s *ANSIScreen) Flush() error {
	s.moveTo(s.cx, s.cy)
	return s.out.Flush()
}

func (s *ANSIScreen) moveTo(x, y int) {
	s.out.WriteString("\x1b[")
	s.out.WriteString(strconv.Itoa(y + 1))
	s.out.WriteByte(';')
	s.out.WriteString(strconv.Itoa(x + 1))
	s.out.WriteByte('H')
}

// ellipsis - marks text truncated to fit viewport.
const ellipsis = "..."

// fit - truncates text to width columns, marking truncation with ellipsis if there is room for it.
func fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= len(ellipsis) {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, ellipsis)
}
