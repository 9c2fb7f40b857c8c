package domain

import (
	"reflect"
	"testing"
)

func TestTaskEntry(t *testing.T) {
	task := Task{Description: "Write report", Deadline: "2024-05-01", Owner: "alice"}
	if got, want := task.Entry(), "Write report (Deadline: 2024-05-01)"; got != want {
		t.Fatalf("Entry() = %q, want %q", got, want)
	}
	if got, want := FormatEntry("", ""), " (Deadline: )"; got != want {
		t.Fatalf("FormatEntry empty = %q, want %q", got, want)
	}
}

func TestSplitEntries(t *testing.T) {
	if got := SplitEntries(""); got == nil || len(got) != 0 {
		t.Fatalf("SplitEntries(\"\") = %#v, want empty non-nil slice", got)
	}
	entries := []string{"a (Deadline: 1)", "b (Deadline: 2)"}
	if got := SplitEntries(JoinEntries(entries)); !reflect.DeepEqual(got, entries) {
		t.Fatalf("round trip = %#v, want %#v", got, entries)
	}
	if got := JoinEntries(nil); got != "" {
		t.Fatalf("JoinEntries(nil) = %q", got)
	}
	// separator inside a description is not escaped
	if got := SplitEntries("x;y (Deadline: z)"); len(got) != 2 {
		t.Fatalf("expected separator in description to split, got %#v", got)
	}
}

func TestNormalizeEntries(t *testing.T) {
	if got := NormalizeEntries(nil); got == nil || len(got) != 0 {
		t.Fatalf("NormalizeEntries(nil) = %#v, want empty non-nil slice", got)
	}
	in := []string{"a;b (Deadline: 1)", "c (Deadline: 2)"}
	want := []string{"a", "b (Deadline: 1)", "c (Deadline: 2)"}
	if got := NormalizeEntries(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeEntries = %#v, want %#v", got, want)
	}
}
