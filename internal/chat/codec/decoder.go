package codec

import (
	"bytes"
	"unicode/utf8"
)

// DefaultMaxLineSize - limit of pending bytes after which incomplete line is flushed anyway.
const DefaultMaxLineSize = 64 * 1024

// Decoder - splits a byte stream read in arbitrary chunks into decoded lines.
// Bytes after the last delimiter are kept until the next Feed or Flush.
type Decoder struct {
	max     int
	pending bytes.Buffer
}

// NewDecoder - builds decoder, max <= 0 means DefaultMaxLineSize.
func NewDecoder(max int) *Decoder {
	if max <= 0 {
		max = DefaultMaxLineSize
	}
	return &Decoder{max: max}
}

// Feed - consumes next chunk of the stream and returns every line completed by it.
func (d *Decoder) Feed(p []byte) []string {
	var lines []string
	for len(p) > 0 {
		i := bytes.IndexByte(p, Delimiter)
		if i < 0 {
			d.pending.Write(p)
			if d.pending.Len() >= d.max {
				lines = append(lines, d.cut())
			}
			break
		}
		d.pending.Write(p[:i])
		p = p[i+1:]
		lines = append(lines, d.take())
	}
	return lines
}

// Flush - returns pending incomplete line, if any, and resets decoder.
func (d *Decoder) Flush() (string, bool) {
	if d.pending.Len() == 0 {
		return "", false
	}
	return d.take(), true
}

// Pending - number of bytes waiting for delimiter.
func (d *Decoder) Pending() int {
	return d.pending.Len()
}

func (d *Decoder) take() string {
	defer d.pending.Reset()
	return Decode(d.pending.Bytes())
}

// cut - flushes oversized pending data but keeps an incomplete trailing rune for the next chunk.
func (d *Decoder) cut() string {
	data := d.pending.Bytes()
	n := len(data) - incompleteTail(data)
	line := Decode(data[:n])
	tail := append([]byte(nil), data[n:]...)
	d.pending.Reset()
	d.pending.Write(tail)
	return line
}

// incompleteTail - returns the size of a truncated UTF-8 sequence at the end of p.
func incompleteTail(p []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(p); i++ {
		c := p[len(p)-i]
		if utf8.RuneStart(c) {
			if utf8.FullRune(p[len(p)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}
