package term

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// margin - columns kept free at the end of input row.
const margin = 2

var _ Component = (*Input)(nil)

// Sender - consumer of submitted lines.
type Sender interface {
	Send(text string) error
}

// Input - single-row line editor.
type Input struct {
	screen Screen
	view   Viewport
	sender Sender
	// next - supplies continuation bytes of multi-byte characters
	next   func() Key
	prompt string
	text   []rune
	cursor int
	// offset - first character shown when the line is wider than the row
	offset int
	err    error
}

// NewInput - builds editor prompting as username and submitting lines to sender.
func NewInput(screen Screen, username string, sender Sender, next func() Key) *Input {
	return &Input{
		screen: screen,
		sender: sender,
		next:   next,
		prompt: fmt.Sprintf("[%s] # ", username),
		text:   []rune{},
	}
}

// Text - returns current line.
func (in *Input) Text() string {
	return string(in.text)
}

// Cursor - returns cursor position in characters.
func (in *Input) Cursor() int {
	return in.cursor
}

// Empty - reports the line is empty.
func (in *Input) Empty() bool {
	return len(in.text) == 0
}

// Err - returns the error of the last failed submit.
func (in *Input) Err() error {
	return in.err
}

// Clear - empties the line.
func (in *Input) Clear() {
	in.text = in.text[:0]
	in.cursor = 0
	in.offset = 0
}

// Resize - moves editor into v, truncating the line if it does not fit anymore.
func (in *Input) Resize(v Viewport) {
	in.view = v
	room := in.room()
	for len(in.text) > 0 && runewidth.StringWidth(string(in.text)) > room {
		in.text = in.text[:len(in.text)-1]
	}
	in.offset = 0
	in.clamp()
}

func (in *Input) Redraw() {
	v := in.view
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	in.scroll()
	shown := string(in.text[in.offset:])
	in.screen.DrawText(v.X, v.Y, v.Width, runewidth.Truncate(in.prompt+shown, v.Width, ""))
	col := runewidth.StringWidth(in.prompt) + runewidth.StringWidth(string(in.text[in.offset:in.cursor]))
	if col > v.Width-1 {
		col = v.Width - 1
	}
	in.screen.SetCursor(v.X+col, v.Y)
}

func (in *Input) HandleKey(k Key) bool {
	switch k {
	case KeyLeft, KeyCtrlB:
		in.cursor--
	case KeyRight, KeyCtrlF:
		in.cursor++
	case KeyBackspace, KeyCtrlH, KeyDEL:
		if in.cursor > 0 {
			in.text = append(in.text[:in.cursor-1], in.text[in.cursor:]...)
			in.cursor--
		}
	case KeyDelete, KeyCtrlD:
		if in.cursor < len(in.text) {
			in.text = append(in.text[:in.cursor], in.text[in.cursor+1:]...)
		}
	case KeyCtrlA, KeyHome:
		in.cursor = 0
	case KeyCtrlE, KeyEnd:
		in.cursor = len(in.text)
	case KeyCtrlU:
		in.Clear()
	case KeyCtrlK:
		in.text = in.text[:in.cursor]
	case KeyEnter, KeyCtrlM, KeyCtrlJ:
		in.submit()
	default:
		r, ok := DecodeKey(k, in.next)
		if !ok {
			return false
		}
		in.insert(r)
	}
	in.clamp()
	in.Redraw()
	return true
}

// room - columns available for the line text.
func (in *Input) room() int {
	return in.view.Width - runewidth.StringWidth(in.prompt) - margin
}

// scroll - moves offset so the cursor stays within the room of the row,
// showing as much of the line as fits.
func (in *Input) scroll() {
	if in.offset > in.cursor {
		in.offset = in.cursor
	}
	for in.offset > 0 && runewidth.StringWidth(string(in.text[in.offset-1:])) <= in.room() {
		in.offset--
	}
	for in.offset < in.cursor && runewidth.StringWidth(string(in.text[in.offset:in.cursor])) > in.room() {
		in.offset++
	}
}

func (in *Input) insert(r rune) {
	if runewidth.RuneWidth(r) > in.room() {
		return
	}
	in.text = append(in.text, 0)
	copy(in.text[in.cursor+1:], in.text[in.cursor:])
	in.text[in.cursor] = r
	in.cursor++
}

func (in *Input) submit() {
	if err := in.sender.Send(string(in.text)); err != nil {
		in.err = err
	}
	in.Clear()
}

func (in *Input) clamp() {
	if in.cursor < 0 {
		in.cursor = 0
	}
	if in.cursor > len(in.text) {
		in.cursor = len(in.text)
	}
}
