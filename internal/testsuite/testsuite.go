// Package testsuite parses the delimited tests.txt format into ordered
// input/output cases.
//
// A file is a sequence of cases. Each case is an input block, a "---"
// separator line, and an output block; cases are divided by "===" lines. A
// leading "===" is optional and the end of the file closes the last case.
// Lines keep their trailing newline, and CRLF line endings are normalized.
package testsuite

import (
	"fmt"
	"os"
	"strings"

	"curriculum/internal/curriculum"
)

const (
	// StartMarker opens a case.
	StartMarker = "==="
	// Separator divides a case's input from its expected output.
	Separator = "---"
)

type builder struct {
	cases     []curriculum.TestCase
	input     strings.Builder
	output    strings.Builder
	inOutput  bool
	separated bool
}

// close emits the pending case when it has content or a separator was seen,
// so consecutive start markers never produce empty cases.
func (b *builder) close() {
	if b.input.Len() > 0 || b.output.Len() > 0 || b.separated {
		b.cases = append(b.cases, curriculum.TestCase{
			Input:  b.input.String(),
			Output: b.output.String(),
		})
	}
	b.input.Reset()
	b.output.Reset()
	b.inOutput = false
	b.separated = false
}

// Parse splits text into test cases in document order.
func Parse(text string) []curriculum.TestCase {
	b := &builder{}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return b.cases
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case line == StartMarker:
			b.close()
		case line == Separator && !b.inOutput:
			b.inOutput = true
			b.separated = true
		case b.inOutput:
			b.output.WriteString(line)
			b.output.WriteByte('\n')
		default:
			b.input.WriteString(line)
			b.input.WriteByte('\n')
		}
	}
	b.close()
	return b.cases
}

// ParseFile reads and parses path.
func ParseFile(path string) ([]curriculum.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test suite: %w", err)
	}
	return Parse(string(data)), nil
}

// Format renders cases back into the tests.txt format. Parse(Format(c))
// reproduces c for cases whose blocks end in a newline or are empty.
func Format(cases []curriculum.TestCase) string {
	var buf strings.Builder
	for _, tc := range cases {
		buf.WriteString(StartMarker)
		buf.WriteByte('\n')
		writeBlock(&buf, tc.Input)
		buf.WriteString(Separator)
		buf.WriteByte('\n')
		writeBlock(&buf, tc.Output)
	}
	return buf.String()
}

func writeBlock(buf *strings.Builder, block string) {
	if block == "" {
		return
	}
	buf.WriteString(block)
	if !strings.HasSuffix(block, "\n") {
		buf.WriteByte('\n')
	}
}
