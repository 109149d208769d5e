package ctftime

// Event is a single entry of the CTFtime events listing.
type Event struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
	CTFTimeURL   string  `json:"ctftime_url"`
	Logo         string  `json:"logo"`
	Format       string  `json:"format"`
	Weight       float64 `json:"weight"`
	Prizes       string  `json:"prizes"`
	Restrictions string  `json:"restrictions"`
	Onsite       bool    `json:"onsite"`
	Location     string  `json:"location"`
	// Start and Finish are ISO-8601 timestamps, e.g. "2024-05-01T10:00:00+00:00".
	Start  string `json:"start"`
	Finish string `json:"finish"`
}

// RestrictionOpen marks an event anyone can join.
const RestrictionOpen = "Open"
