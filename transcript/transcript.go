// Package transcript accumulates trace lines and mirrors them to a logger.
package transcript

import (
	"fmt"
	"log"
	"strings"
)

// Transcript is a line buffering logger.
type Transcript struct {
	Sink *log.Logger // Mirror for every line. May be nil.

	message strings.Builder
	lines   int
}

// NewTranscript creates a transcript mirrored to sink.
func NewTranscript(sink *log.Logger) *Transcript {
	return &Transcript{Sink: sink}
}

// Log joins the values with single spaces and appends the line.
func (tr *Transcript) Log(args ...any) {
	words := make([]string, len(args))
	for n, arg := range args {
		words[n] = fmt.Sprint(arg)
	}
	line := strings.Join(words, " ")

	if tr.Sink != nil {
		tr.Sink.Println(line)
	}

	tr.message.WriteString(line)
	tr.message.WriteByte('\n')
	tr.lines++
}

// String returns the accumulated transcript.
func (tr *Transcript) String() string {
	return tr.message.String()
}

// Lines returns the number of lines logged since the last Clear.
func (tr *Transcript) Lines() int {
	return tr.lines
}

// Clear resets the transcript.
func (tr *Transcript) Clear() {
	tr.message.Reset()
	tr.lines = 0
}
