package model

// Priority is an open string enum. The four canonical levels below drive
// display order and chart labels, but values outside the set are carried
// through grouping and aggregation rather than discarded.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityModerate Priority = "Moderate"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities returns the canonical levels in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityModerate, PriorityHigh, PriorityCritical}
}

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityModerate: 1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the priority's position in the canonical order. Unknown
// priorities rank after every canonical one.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

func (p Priority) Known() bool {
	_, ok := priorityRank[p]
	return ok
}

// colourRank fixes the display order for the "colour" sort option.
// Colours outside the table sort last, ties broken by input order.
var colourRank = map[string]int{
	"red":    0,
	"orange": 1,
	"yellow": 2,
	"green":  3,
	"teal":   4,
	"blue":   5,
	"purple": 6,
	"pink":   7,
	"grey":   8,
}

func ColourRank(colour string) int {
	if r, ok := colourRank[colour]; ok {
		return r
	}
	return len(colourRank)
}
