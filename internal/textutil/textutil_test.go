package textutil_test

import (
	"reflect"
	"testing"

	"curriculum/internal/textutil"
)

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"02_for-loops", "02 For Loops"},
		{"hello world", "Hello World"},
		{"/content/basics/intro.v2", "Intro V2"},
		{"__", "__"},
		{"", ""},
		{"straße", "Straße"},
	}
	for _, tc := range tests {
		if got := textutil.TitleFromName(tc.in); got != tc.want {
			t.Errorf("TitleFromName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOrderedSet(t *testing.T) {
	got := textutil.OrderedSet([]string{" go", "python", "", "go", "rust ", "python"})
	want := []string{"go", "python", "rust"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OrderedSet = %v, want %v", got, want)
	}
	if empty := textutil.OrderedSet(nil); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}
