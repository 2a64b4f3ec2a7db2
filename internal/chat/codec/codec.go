// Package codec implements the chat wire format: newline-delimited UTF-8 text
// without any length prefix or other framing.
package codec

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Delimiter - terminates every line on the wire.
const Delimiter = '\n'

// Encode - frames text as a single line ready to be written into connection.
func Encode(text string) []byte {
	frame := make([]byte, 0, len(text)+1)
	frame = append(frame, text...)
	return append(frame, Delimiter)
}

// Format - builds the text of a chat line sent on behalf of user.
func Format(username, text string) string {
	return username + ": " + text
}

// Decode - turns raw frame bytes into text line.
// Invalid UTF-8 sequences are dropped and trailing spaces are trimmed,
// everything else is kept as is.
func Decode(frame []byte) string {
	b := strings.Builder{}
	b.Grow(len(frame))
	for len(frame) > 0 {
		r, size := utf8.DecodeRune(frame)
		frame = frame[size:]
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// Printable - prepares line for the character grid: control characters are dropped
// and any kind of space is replaced with plain space.
func Printable(line string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, line)
}
