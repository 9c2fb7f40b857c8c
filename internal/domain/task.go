package domain

import "strings"

// entrySeparator joins task entries inside a single stored cell.
const entrySeparator = ";"

// Task is one row of the append-only task log.
type Task struct {
	Description string
	Deadline    string
	Owner       string
}

// Entry returns the string appended to the owner's task list.
func (t Task) Entry() string {
	return FormatEntry(t.Description, t.Deadline)
}

// FormatEntry renders a task as "<description> (Deadline: <deadline>)".
func FormatEntry(description, deadline string) string {
	return description + " (Deadline: " + deadline + ")"
}

// JoinEntries serializes a task list into one cell. An empty list becomes "".
func JoinEntries(entries []string) string {
	return strings.Join(entries, entrySeparator)
}

// SplitEntries parses a cell written by JoinEntries. It never returns nil.
// Entries that themselves contain the separator come back split.
func SplitEntries(cell string) []string {
	if cell == "" {
		return []string{}
	}
	return strings.Split(cell, entrySeparator)
}

// NormalizeEntries reshapes a list held element-wise so it reads back the
// same as one stored in a single cell.
func NormalizeEntries(entries []string) []string {
	return SplitEntries(JoinEntries(entries))
}
