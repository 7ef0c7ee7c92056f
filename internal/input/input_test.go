package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	in, rest := Parse([]byte("ww\x1b[Cd\x1b[B q"))
	if len(rest) != 0 {
		t.Fatalf("unexpected remainder %q", rest)
	}
	if in.DX != 2 || in.DY != -1 {
		t.Errorf("nudge = (%d,%d), want (2,-1)", in.DX, in.DY)
	}
	if !in.Space || !in.Quit {
		t.Errorf("space=%v quit=%v, want both set", in.Space, in.Quit)
	}
}

func TestParseMouse(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		pointer   bool
		press     bool
		col, row  int
		remainder string
	}{
		{"motion", "\x1b[<35;10;20M", true, false, 10, 20, ""},
		{"press", "\x1b[<0;3;4M", true, true, 3, 4, ""},
		{"release", "\x1b[<0;5;6m", true, false, 5, 6, ""},
		{"drag", "\x1b[<32;7;8M", true, false, 7, 8, ""},
		{"wheel ignored", "\x1b[<64;7;8M", false, false, 0, 0, ""},
		{"last report wins", "\x1b[<35;1;1M\x1b[<35;40;30M", true, false, 40, 30, ""},
		{"incomplete", "\x1b[<35;10", false, false, 0, 0, "\x1b[<35;10"},
		{"split escape", "\x1b", false, false, 0, 0, "\x1b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, rest := Parse([]byte(tt.data))
			if in.Pointer != tt.pointer || in.Press != tt.press {
				t.Errorf("pointer=%v press=%v, want %v %v", in.Pointer, in.Press, tt.pointer, tt.press)
			}
			if in.Col != tt.col || in.Row != tt.row {
				t.Errorf("position = (%d,%d), want (%d,%d)", in.Col, in.Row, tt.col, tt.row)
			}
			if string(rest) != tt.remainder {
				t.Errorf("remainder = %q, want %q", rest, tt.remainder)
			}
		})
	}
}

func TestReadInputCarriesPartialSequence(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}
	for _, b := range []byte("\x1b[<0;12") {
		s.ch <- b
	}
	if in := ReadInput(s); in.Pointer {
		t.Fatal("partial report should not produce a pointer")
	}

	for _, b := range []byte(";9M") {
		s.ch <- b
	}
	in := ReadInput(s)
	if !in.Pointer || !in.Press || in.Col != 12 || in.Row != 9 {
		t.Errorf("got %+v, want press at (12,9)", in)
	}
}

func TestReadInputClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("d")))

	deadline := time.After(time.Second)
	for {
		in := ReadInput(s)
		if in.Quit {
			return
		}
		select {
		case <-deadline:
			t.Fatal("closed stream never reported quit")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
