//go:build unix

package term

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal - returns when input is not a terminal.
var ErrNotTerminal = errors.New("term.Terminal: input is not a terminal")

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
)

// Terminal - holds terminal in raw mode with non-blocking input.
type Terminal struct {
	in, out  int
	output   *os.File
	state    *term.State
	resize   chan os.Signal
	released bool
}

// Acquire - switches terminal into raw mode and alternate screen.
// Release must be called on every exit path to give the terminal back.
func Acquire(in, out *os.File) (*Terminal, error) {
	t := &Terminal{
		in:     int(in.Fd()),
		out:    int(out.Fd()),
		output: out,
		resize: make(chan os.Signal, 1),
	}
	if !term.IsTerminal(t.in) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(t.in)
	if err != nil {
		return nil, fmt.Errorf("term.Acquire: raw mode: %w", err)
	}
	t.state = state
	if err := unix.SetNonblock(t.in, true); err != nil {
		term.Restore(t.in, state)
		return nil, fmt.Errorf("term.Acquire: non-blocking input: %w", err)
	}
	signal.Notify(t.resize, unix.SIGWINCH)
	t.output.WriteString(enterAltScreen)
	return t, nil
}

// Release - restores terminal state saved by Acquire, it is safe to call several times.
func (t *Terminal) Release() error {
	if t.released {
		return nil
	}
	t.released = true
	signal.Stop(t.resize)
	t.output.WriteString(leaveAltScreen)
	unix.SetNonblock(t.in, false)
	return term.Restore(t.in, t.state)
}

// Size - returns terminal size.
func (t *Terminal) Size() (width, height int, err error) {
	return term.GetSize(t.out)
}

// Keyboard - returns key source reading terminal input.
func (t *Terminal) Keyboard() *Keyboard {
	return NewKeyboard(fdReader(t.in), t.resize)
}

// Screen - returns screen drawing on terminal output.
func (t *Terminal) Screen() *ANSIScreen {
	return NewANSIScreen(t.output, t.Size)
}

// fdReader - reads non-blocking descriptor, "no data yet" is reported as 0 bytes without error.
type fdReader int

func (fd fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
