package term

import (
	"io"
	"os"
)

var _ KeySource = (*Keyboard)(nil)

// Keyboard - turns raw terminal input into key codes.
// Source reader must not block: it returns 0 bytes when no input is ready.
type Keyboard struct {
	src     io.Reader
	resize  <-chan os.Signal
	buf     []byte
	pending []byte
}

// NewKeyboard - builds keyboard over non-blocking source.
// Every notification from resize is reported as KeyResize, resize may be nil.
func NewKeyboard(src io.Reader, resize <-chan os.Signal) *Keyboard {
	return &Keyboard{
		src:    src,
		resize: resize,
		buf:    make([]byte, 256),
	}
}

// Poll - returns next key or KeyNone if there is no input, never blocks.
// Escape sequences of cursor and editing keys are folded into special keys,
// bytes of multi-byte characters are returned one by one, see DecodeKey.
func (k *Keyboard) Poll() Key {
	select {
	case <-k.resize:
		return KeyResize
	default:
	}

	b, ok := k.read()
	if !ok {
		return KeyNone
	}
	switch Key(b) {
	case KeyEsc:
		return k.escape()
	case KeyCtrlM, KeyCtrlJ:
		return KeyEnter
	case KeyDEL:
		return KeyBackspace
	default:
		return Key(b)
	}
}

// Next - returns next raw input byte or KeyNone.
func (k *Keyboard) Next() Key {
	b, ok := k.read()
	if !ok {
		return KeyNone
	}
	return Key(b)
}

func (k *Keyboard) fill() {
	if len(k.pending) > 0 {
		return
	}
	n, _ := k.src.Read(k.buf)
	if n > 0 {
		k.pending = append(k.pending[:0], k.buf[:n]...)
	}
}

func (k *Keyboard) peek() (byte, bool) {
	k.fill()
	if len(k.pending) == 0 {
		return 0, false
	}
	return k.pending[0], true
}

func (k *Keyboard) read() (byte, bool) {
	b, ok := k.peek()
	if ok {
		k.pending = k.pending[1:]
	}
	return b, ok
}

// escape - decodes CSI (ESC [) and SS3 (ESC O) sequences following ESC.
// Lone ESC is returned as is, unknown sequences are swallowed.
func (k *Keyboard) escape() Key {
	intro, ok := k.peek()
	if !ok || (intro != '[' && intro != 'O') {
		return KeyEsc
	}
	k.read()

	param := []byte{}
	for {
		b, ok := k.read()
		if !ok {
			return KeyNone
		}
		if b >= 0x40 && b <= 0x7e {
			return sequenceKey(string(param), b)
		}
		param = append(param, b)
	}
}

func sequenceKey(param string, final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	case '~':
		switch param {
		case "1", "7":
			return KeyHome
		case "3":
			return KeyDelete
		case "4", "8":
			return KeyEnd
		}
	}
	return KeyNone
}
