package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/encoding/charmap"
)

// Normalize repairs a raw rendered byte stream into clean, displayable
// text. The pipeline is applied in order:
//
//  1. decode: UTF-8 when valid, then codepage 437 (classic block-drawing
//     fonts), then Latin-1, which maps every byte and cannot fail;
//  2. newline canonicalization (CRLF/CR become LF);
//  3. rejoin escape sequences the renderer split across a line wrap;
//  4. collapse backspace overstrikes, keeping the later character;
//  5. trim trailing whitespace per line.
//
// Normalize is pure and idempotent: its output, re-encoded as bytes,
// normalizes to itself. The output strategy hashes this text, so a
// stable result across runs is required.
func Normalize(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	s := decodeRendered(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = rejoinSplitSequences(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(collapseOverstrikes(line), " \t")
	}
	return strings.Join(lines, "\n")
}

// decodeRendered resolves the byte stream's encoding. Many FIGlet fonts
// still use codepage 437 glyphs for shading; decoding those as UTF-8
// yields replacement-character mosaics, so CP437 is tried before the
// total Latin-1 fallback.
func decodeRendered(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw); err == nil {
		return string(decoded)
	}
	// Latin-1 maps every byte to the code point of the same value.
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// csiFinal reports whether b terminates a CSI sequence.
func csiFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

// rejoinSplitSequences repairs escape sequences broken by a forced line
// wrap. The renderer wraps long lines blindly, so a color or style code
// can be cut before its final byte; the newline inserted mid-sequence is
// dropped so the sequence terminates correctly again.
func rejoinSplitSequences(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		c := s[i]
		if c != 0x1b {
			b.WriteByte(c)
			i++
			continue
		}

		b.WriteByte(c)
		j := i + 1
		// Wrap directly after the ESC: the introducer starts the next line.
		for j < len(s) && s[j] == '\n' {
			j++
		}
		if j < len(s) && s[j] == '[' {
			b.WriteByte('[')
			j++
			// CSI bodies are short; the cap keeps a never-terminated
			// sequence from swallowing newlines to end of input. Only
			// written bytes count toward it: after one pass the kept
			// bytes sit contiguously, so a rerun cuts at the same spot.
			for body := 0; j < len(s) && body < 64; {
				ch := s[j]
				if ch == '\n' {
					// Wrap inside the sequence body.
					j++
					continue
				}
				b.WriteByte(ch)
				j++
				body++
				if csiFinal(ch) {
					break
				}
			}
		} else if j < len(s) {
			// Two-byte escape (RIS, charset selection, ...): copy the
			// continuation byte as-is.
			b.WriteByte(s[j])
			j++
		}
		i = j
	}
	return b.String()
}

// collapseOverstrikes applies classic backspace overstriking to a single
// line: a backspace means the previous character and the next one share
// a display cell, so the pair collapses to the later character. Escape
// sequences are zero-width markup and pass through untouched; a
// backspace never consumes them.
func collapseOverstrikes(line string) string {
	if !strings.ContainsRune(line, '\b') {
		return line
	}

	type cell struct {
		seq   string
		glyph bool
	}
	var cells []cell

	var state byte
	remaining := line
	for len(remaining) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(remaining, state, nil)
		state = newState
		remaining = remaining[n:]

		switch {
		case seq == "\b":
			// Pop the most recent glyph; markup between it and the
			// backspace survives. A leading backspace has nothing to
			// overstrike and is dropped.
			for k := len(cells) - 1; k >= 0; k-- {
				if cells[k].glyph {
					cells = append(cells[:k], cells[k+1:]...)
					break
				}
			}
		case width == 0:
			cells = append(cells, cell{seq: seq})
		default:
			cells = append(cells, cell{seq: seq, glyph: true})
		}
	}

	var b strings.Builder
	b.Grow(len(line))
	for _, c := range cells {
		b.WriteString(c.seq)
	}
	return b.String()
}
