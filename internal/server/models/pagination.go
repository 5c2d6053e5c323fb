package models

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Page selects a window of a listing.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage is the first DefaultPageLimit rows.
func DefaultPage() Page {
	return Page{Limit: DefaultPageLimit}
}
