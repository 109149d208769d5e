package schedule

import (
	"strconv"
	"strings"

	"github.com/keshon/ctf-scheduler/internal/ctftime"
)

// Discord rejects scheduled event descriptions longer than this.
const maxDescriptionLen = 1000

// Description renders the text posted on the scheduled event.
func Description(ev ctftime.Event) string {
	var sb strings.Builder
	if ev.Restrictions != ctftime.RestrictionOpen {
		sb.WriteString("Restriction: " + ev.Restrictions + "\n\n")
	}
	sb.WriteString("CTFtime URL: " + ev.CTFTimeURL + "\n\n")
	sb.WriteString("Format: " + ev.Format + "\n\n")
	sb.WriteString("Weight: " + strconv.FormatFloat(ev.Weight, 'f', -1, 64) + "\n\n")
	sb.WriteString("Prizes: " + ev.Prizes + "\n\n")
	sb.WriteString(ev.Description)
	return truncate(sb.String(), maxDescriptionLen)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Eligible reports whether an event may be scheduled. On-site events must be
// held in region; online events always pass.
func Eligible(ev ctftime.Event, region string) bool {
	return !ev.Onsite || strings.Contains(ev.Location, region)
}
