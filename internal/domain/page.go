package domain

// Page is an offset window over an id-ordered listing.
type Page struct {
	Skip  int
	Limit int
}
