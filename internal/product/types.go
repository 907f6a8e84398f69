package product

import "time"

// Submission is a product as received on POST /publish
type Submission struct {
	ID          string   // Optional external reference
	Title       string
	Description string
	Tags        []string
	ImageFile   string
}

// Published is a priced, identified product as written to the store
type Published struct {
	PublishedID string
	OriginalID  string // Submission.ID, may be empty
	Title       string
	Description string
	Tags        []string
	ImageFile   string
	Price       float64
	PublishedAt time.Time
}

// URLs holds the storefront and admin base URLs a publication is linked under
type URLs struct {
	Store string
	Admin string
}
