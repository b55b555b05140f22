package models

// CatalogImage is the artwork block of a catalog show record.
// Either resolution may be missing.
type CatalogImage struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// CatalogShow represents the raw show record nested in a catalog search result.
// Pointer fields distinguish an absent key from a zero value.
type CatalogShow struct {
	ID      *int          `json:"id"`
	Name    *string       `json:"name"`
	Summary *string       `json:"summary"` // HTML, null for some shows
	Image   *CatalogImage `json:"image"`   // null when the catalog has no artwork
}

// CatalogSearchResult represents one element of the catalog search response.
type CatalogSearchResult struct {
	Score float64      `json:"score"`
	Show  *CatalogShow `json:"show"`
}

// Show represents a TV show normalized for display
type Show struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	ImageURL string `json:"imageUrl"`
}
