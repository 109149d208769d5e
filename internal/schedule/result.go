package schedule

import "strings"

// Failure is a record that could not be scheduled.
type Failure struct {
	Title string
	Err   error
}

// Result lists the titles touched by one reconciliation, in input order.
type Result struct {
	Created []string
	Updated []string
	Failed  []Failure
	// Skipped counts records dropped by the region filter.
	Skipped int
}

// Summary renders the message shown to the invoking user.
func (r *Result) Summary() string {
	var sb strings.Builder
	sb.WriteString("Event update summary:\n")
	if len(r.Created) > 0 {
		sb.WriteString("Created events: " + strings.Join(r.Created, ", ") + "\n")
	}
	if len(r.Updated) > 0 {
		sb.WriteString("Updated events: " + strings.Join(r.Updated, ", ") + "\n")
	}
	if len(r.Created) == 0 && len(r.Updated) == 0 {
		sb.WriteString("No events were created or updated.")
	}
	if len(r.Failed) > 0 {
		titles := make([]string, len(r.Failed))
		for i, f := range r.Failed {
			titles[i] = f.Title
		}
		if len(r.Created) == 0 && len(r.Updated) == 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Failed events: " + strings.Join(titles, ", ") + "\n")
	}
	return sb.String()
}
