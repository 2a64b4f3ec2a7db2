package term

import "unicode/utf8"

// DecodeKey - decodes character starting with the key code.
// Continuation bytes of a multi-byte UTF-8 character are taken from next.
// Returns false if the code is not a character (control or special key)
// or if the sequence is invalid; in the latter case continuation bytes
// already taken from next are lost.
func DecodeKey(code Key, next func() Key) (rune, bool) {
	var continuation int
	switch {
	case code >= 32 && code <= 126:
		return rune(code), true
	case code >= 194 && code <= 223:
		continuation = 1
	case code >= 224 && code <= 239:
		continuation = 2
	case code >= 240 && code <= 244:
		continuation = 3
	default:
		return 0, false
	}
	if next == nil {
		return 0, false
	}

	seq := make([]byte, 1, utf8.UTFMax)
	seq[0] = byte(code)
	for i := 0; i < continuation; i++ {
		c := next()
		if c < 128 || c > 191 {
			return 0, false
		}
		seq = append(seq, byte(c))
	}
	r, size := utf8.DecodeRune(seq)
	if r == utf8.RuneError || size != len(seq) {
		return 0, false
	}
	return r, true
}
