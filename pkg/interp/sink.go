package interp

import (
	"bufio"
	"io"
	"strings"
)

// Sink receives printed lines in program order.
type Sink interface {
	WriteLine(line string) error
}

// Flusher is implemented by sinks that buffer output. The interpreter flushes
// them when a run returns.
type Flusher interface {
	Flush() error
}

// WriterSink writes newline-terminated lines to an io.Writer through a buffer.
type WriterSink struct {
	w *bufio.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *WriterSink) Flush() error {
	return s.w.Flush()
}

// BufferSink keeps lines in memory.
type BufferSink struct {
	lines []string
}

func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (s *BufferSink) WriteLine(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

// Lines returns the lines written so far.
func (s *BufferSink) Lines() []string {
	return s.lines
}

// String joins the lines, each terminated by a newline.
func (s *BufferSink) String() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// Reset drops the buffered lines.
func (s *BufferSink) Reset() {
	s.lines = s.lines[:0]
}
