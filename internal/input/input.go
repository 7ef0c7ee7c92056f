// Package input turns raw terminal bytes into per-frame player input:
// quit and nudge keys plus xterm SGR mouse reports.
package input

import (
	"bufio"
	"strconv"
)

// Input represents the current frame's input state.
type Input struct {
	Quit  bool
	Space bool

	// Nudges accumulated from arrow keys and WASD this frame. Positive DY is down.
	DX, DY int

	// Pointer is set when the terminal reported the mouse position this
	// frame; Col and Row are its last 1-based position.
	Pointer bool
	Col     int
	Row     int

	// Press is set when a mouse button went down this frame. Like a touch
	// starting, it asks for the mallet to jump to the pointer.
	Press bool

	Pressed []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape sequence carried to the next frame
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking and
// parses them. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	if len(rest) > 0 && !closed {
		s.pending = append([]byte(nil), rest...)
	}
	if closed {
		in.Quit = true
	}
	return in
}

// Parse decodes a frame's worth of bytes. It returns the input and any
// trailing bytes that form an incomplete escape sequence.
func Parse(buf []byte) (Input, []byte) {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			if i+2 >= len(buf) {
				return in, buf[i:]
			}
			switch buf[i+2] {
			case 'A':
				in.DY--
				i += 2
				continue
			case 'B':
				in.DY++
				i += 2
				continue
			case 'C':
				in.DX++
				i += 2
				continue
			case 'D':
				in.DX--
				i += 2
				continue
			case '<':
				n, ok := parseMouse(buf[i+3:], &in)
				if !ok {
					return in, buf[i:]
				}
				i += 2 + n
				continue
			}
		}
		if b == '\x1b' && i+1 == len(buf) {
			// Could be the start of a sequence split across reads.
			return in, buf[i:]
		}

		applyByte(&in, b)
	}

	return in, nil
}

// parseMouse decodes the body of an SGR mouse report, "b;x;yM" or "b;x;ym",
// that follows "ESC [ <". It returns the number of bytes consumed, or false
// if the report is incomplete.
func parseMouse(buf []byte, in *Input) (int, bool) {
	var fields [3]int
	field := 0
	start := 0
	for i, b := range buf {
		switch {
		case b >= '0' && b <= '9':
			continue
		case b == ';' && field < 2:
			v, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return i + 1, true // Malformed, skip it
			}
			fields[field] = v
			field++
			start = i + 1
		case (b == 'M' || b == 'm') && field == 2:
			v, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return i + 1, true
			}
			fields[2] = v
			applyMouse(in, fields[0], fields[1], fields[2], b == 'M')
			return i + 1, true
		default:
			return i + 1, true
		}
	}
	return 0, false
}

// applyMouse records a mouse report. Bit 5 of the button code marks motion;
// codes 64 and up are wheel events and carry no position change.
func applyMouse(in *Input, code, col, row int, down bool) {
	if code >= 64 {
		return
	}
	in.Pointer = true
	in.Col = col
	in.Row = row
	if down && code&32 == 0 {
		in.Press = true
	}
}

// applyByte updates the input for a single key byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C arrives as a byte in raw mode
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		in.DX--
	case 'd', 'D', 'l', 'L':
		in.DX++
	case 'w', 'W', 'k', 'K':
		in.DY--
	case 's', 'S', 'j', 'J':
		in.DY++
	case ' ', '\n', '\r':
		in.Space = true
	}
}
