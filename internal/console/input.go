package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	maxLineSize = 1024 * 1024
	// lines typed ahead on a terminal; beyond this the reader waits
	typeAheadLines = 64
)

// Input reads lines in its own goroutine so that every wait on the user
// can be abandoned when a countdown or the run ends. A line is consumed
// only by the call that receives it.
//
// Scripted input (a pipe or a file) is read on demand and every line is
// an answer, in order. Interactive input is read as it is typed, and
// Discard drops whatever arrived while nobody was asking.
type Input struct {
	lines       chan string
	once        sync.Once
	r           io.Reader
	interactive bool

	// set before lines is closed
	err error
}

func NewInput(r io.Reader) *Input {
	return &Input{
		lines: make(chan string),
		r:     r,
	}
}

// NewInteractiveInput reads a terminal from now on, so keys pressed during
// a countdown can be told apart from answers to the next question
func NewInteractiveInput(r io.Reader) *Input {
	in := &Input{
		lines:       make(chan string, typeAheadLines),
		r:           r,
		interactive: true,
	}
	in.start()
	return in
}

func (in *Input) start() {
	in.once.Do(func() {
		go func() {
			defer close(in.lines)
			scanner := bufio.NewScanner(in.r)
			scanner.Buffer(make([]byte, 64*1024), maxLineSize)
			for scanner.Scan() {
				in.lines <- strings.TrimRight(scanner.Text(), "\r")
			}
			in.err = scanner.Err()
		}()
	})
}

// Discard drops lines typed before the current wait began. Scripted
// input is left alone.
func (in *Input) Discard() {
	if !in.interactive {
		return
	}
	for {
		select {
		case _, ok := <-in.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Next returns the next line, io.EOF once the input is exhausted, the read
// error if reading failed, or ctx.Err() when ctx ends first
func (in *Input) Next(ctx context.Context) (string, error) {
	in.start()

	select {
	case line, ok := <-in.lines:
		if !ok {
			if in.err != nil {
				return "", fmt.Errorf("read input: %w", in.err)
			}
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
