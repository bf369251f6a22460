package smartfmt

import (
	"io"
	"strings"
)

// Output receives the text produced while formatting. The FormattingInfo
// identifies the placeholder being written, nil for literal text of the
// template itself.
type Output interface {
	Write(text string, info *FormattingInfo) error
}

// StringOutput accumulates text in memory.
type StringOutput struct {
	sb strings.Builder
}

// NewStringOutput creates an output with room for capacity bytes
func NewStringOutput(capacity int) *StringOutput {
	o := &StringOutput{}
	if capacity > 0 {
		o.sb.Grow(capacity)
	}
	return o
}

// Write implements Output
func (o *StringOutput) Write(text string, _ *FormattingInfo) error {
	o.sb.WriteString(text)
	return nil
}

// String returns everything written so far
func (o *StringOutput) String() string { return o.sb.String() }

// Len returns the number of bytes written
func (o *StringOutput) Len() int { return o.sb.Len() }

// Reset discards the written text
func (o *StringOutput) Reset() { o.sb.Reset() }

// WriterOutput streams text to an io.Writer.
type WriterOutput struct {
	w io.Writer
}

// NewWriterOutput wraps w
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{w: w}
}

// Write implements Output
func (o *WriterOutput) Write(text string, _ *FormattingInfo) error {
	_, err := io.WriteString(o.w, text)
	return err
}
