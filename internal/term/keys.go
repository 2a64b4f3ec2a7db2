// Package term implements the terminal side of chat client: key decoding, the
// line editor, the scrollback viewer and the session loop gluing them together
// with the network transport.
package term

// Key - code of a single key press.
// Values 0-255 are raw input bytes, special keys are numbered above the byte range.
type Key int

// KeyNone - no key is available.
const KeyNone Key = -1

// Control keys, as raw bytes.
const (
	KeyCtrlA Key = 0x01
	KeyCtrlB Key = 0x02
	KeyCtrlC Key = 0x03
	KeyCtrlD Key = 0x04
	KeyCtrlE Key = 0x05
	KeyCtrlF Key = 0x06
	KeyCtrlH Key = 0x08
	KeyCtrlJ Key = 0x0a
	KeyCtrlK Key = 0x0b
	KeyCtrlM Key = 0x0d
	KeyCtrlN Key = 0x0e
	KeyCtrlP Key = 0x10
	KeyCtrlU Key = 0x15
	KeyEsc   Key = 0x1b
	KeyDEL   Key = 0x7f
)

// Special keys, decoded from escape sequences or generated by the terminal.
const (
	KeyDown      Key = 0x102
	KeyUp        Key = 0x103
	KeyLeft      Key = 0x104
	KeyRight     Key = 0x105
	KeyHome      Key = 0x106
	KeyBackspace Key = 0x107
	KeyDelete    Key = 0x14a
	KeyEnter     Key = 0x157
	KeyEnd       Key = 0x168
	KeyResize    Key = 0x19a
)
