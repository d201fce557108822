package domain

import "time"

// Collection groups products into a storefront section (Marble, Onyx, ...).
// ProductCount is computed at read time and never persisted.
type Collection struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Tagline      string    `json:"tagline"`
	Tagline2     string    `json:"tagline2"`
	Tagline3     string    `json:"tagline3"`
	Image        string    `json:"image"`
	DisplayOrder int       `json:"displayOrder"`
	Status       Status    `json:"status"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
