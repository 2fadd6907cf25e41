package task

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

// QuickEntry is the result of parsing a one-line capture.
type QuickEntry struct {
	Title    string     `json:"title"`
	Tags     []string   `json:"tags"`
	Due      *date.Date `json:"due"`
	Priority Priority   `json:"priority,omitempty"`
}

var bangPriorities = map[string]Priority{
	"p1":     PriorityLow,
	"p2":     PriorityMedium,
	"p3":     PriorityHigh,
	"p4":     PriorityUrgent,
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
	"urgent": PriorityUrgent,
}

// ParseQuickEntry extracts shorthand from a capture line:
//
//	#word                 tag (lowercased)
//	!p1..!p4, !low..      priority (p1 is low, p4 is urgent)
//	^YYYY-MM-DD           due date, if it is a real date
//	today tomorrow        due relative to asOf
//	nextweek next-week    due seven days after asOf
//
// Everything else is rejoined in order as the title. When nothing is left the
// trimmed input is the title. A later due token overrides an earlier one.
// Priority stays empty without a priority token so the caller's default applies.
func ParseQuickEntry(text string, asOf date.Date) QuickEntry {
	out := QuickEntry{Tags: []string{}}
	var rest []string

	for _, tok := range strings.Fields(text) {
		switch {
		case strings.HasPrefix(tok, "#") && len(tok) > 1:
			tag := strings.ToLower(tok[1:])
			if !slices.Contains(out.Tags, tag) {
				out.Tags = append(out.Tags, tag)
			}
			continue
		case strings.HasPrefix(tok, "!"):
			if p, ok := bangPriorities[strings.ToLower(tok[1:])]; ok {
				out.Priority = p
				continue
			}
		case strings.HasPrefix(tok, "^"):
			if d, err := date.Parse(tok[1:]); err == nil {
				out.Due = &d
				continue
			}
		default:
			if d, ok := relativeDue(strings.ToLower(tok), asOf); ok {
				out.Due = &d
				continue
			}
		}
		rest = append(rest, tok)
	}

	out.Title = strings.Join(rest, " ")
	if out.Title == "" {
		out.Title = strings.TrimSpace(text)
	}
	return out
}

func relativeDue(word string, asOf date.Date) (date.Date, bool) {
	switch word {
	case "today":
		return asOf, true
	case "tomorrow":
		return asOf.AddDays(1), true
	case "nextweek", "next-week":
		return asOf.AddDays(7), true //nolint:mnd // one week
	default:
		return date.Date{}, false
	}
}
