package testsuite_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"curriculum/internal/curriculum"
	"curriculum/internal/testsuite"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []curriculum.TestCase
	}{
		{
			name: "two cases",
			text: "===\ninput1\n---\noutput1\n===\ninput2\n---\noutput2\n",
			want: []curriculum.TestCase{{Input: "input1\n", Output: "output1\n"}, {Input: "input2\n", Output: "output2\n"}},
		},
		{
			name: "leading marker optional",
			text: "a\nb\n---\nc\n",
			want: []curriculum.TestCase{{Input: "a\nb\n", Output: "c\n"}},
		},
		{
			name: "empty input and output preserved",
			text: "===\n---\nout\n===\nin\n---\n",
			want: []curriculum.TestCase{{Input: "", Output: "out\n"}, {Input: "in\n", Output: ""}},
		},
		{
			name: "crlf",
			text: "===\r\n1 2\r\n---\r\n3\r\n",
			want: []curriculum.TestCase{{Input: "1 2\n", Output: "3\n"}},
		},
		{
			name: "separator inside output is content",
			text: "===\nx\n---\ny\n---\nz\n",
			want: []curriculum.TestCase{{Input: "x\n", Output: "y\n---\nz\n"}},
		},
		{
			name: "blank lines kept",
			text: "===\n\nx\n---\n\n",
			want: []curriculum.TestCase{{Input: "\nx\n", Output: "\n"}},
		},
		{
			name: "no trailing newline",
			text: "===\nin\n---\nout",
			want: []curriculum.TestCase{{Input: "in\n", Output: "out\n"}},
		},
		{
			name: "repeated start markers",
			text: "===\n===\nin\n---\nout\n===\n",
			want: []curriculum.TestCase{{Input: "in\n", Output: "out\n"}},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "input only",
			text: "===\njust input\n",
			want: []curriculum.TestCase{{Input: "just input\n", Output: ""}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := testsuite.Parse(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tc.text, got, tc.want)
			}
		})
	}
}

func TestFormatParses(t *testing.T) {
	cases := []curriculum.TestCase{
		{Input: "1\n2\n", Output: "3\n"},
		{Input: "", Output: "empty\n"},
		{Input: "x", Output: ""},
	}
	got := testsuite.Parse(testsuite.Format(cases))
	want := []curriculum.TestCase{
		{Input: "1\n2\n", Output: "3\n"},
		{Input: "", Output: "empty\n"},
		{Input: "x\n", Output: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip = %#v, want %#v", got, want)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.txt")
	if err := os.WriteFile(path, []byte("in\n---\nout\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cases, err := testsuite.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected one case, got %d", len(cases))
	}
	if _, err := testsuite.ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
