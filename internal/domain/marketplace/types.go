package marketplace

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a marketplace record does not exist.
var ErrNotFound = errors.New("marketplace record not found")

// Professional is the read-model summary of a renovation professional.
type Professional struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories,omitempty"`
	City          string   `json:"city,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"review_count"`
	PriceMin      *float64 `json:"price_min,omitempty"`
	PriceMax      *float64 `json:"price_max,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	Verified      bool     `json:"verified"`
}

// Review is a published review left for a professional.
type Review struct {
	ID             string    `json:"id"`
	ProfessionalID string    `json:"professional_id"`
	Author         string    `json:"author"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
}

// Category is one node of the three-level marketplace category tree.
type Category struct {
	Key           string            `json:"key"`
	Names         map[string]string `json:"names"` // locale -> display name
	Active        bool              `json:"active"`
	Subcategories []Subcategory     `json:"subcategories,omitempty"`
}

// Subcategory is a second-level category node.
type Subcategory struct {
	Key      string            `json:"key"`
	Names    map[string]string `json:"names"`
	Children []SubSubcategory  `json:"children,omitempty"`
}

// SubSubcategory is a third-level category node.
type SubSubcategory struct {
	Key   string            `json:"key"`
	Names map[string]string `json:"names"`
}

// Name returns the category display name for a locale, falling back to English.
func localizedName(names map[string]string, locale string) string {
	if names == nil {
		return ""
	}
	if name, ok := names[locale]; ok && name != "" {
		return name
	}
	return names["en"]
}

// Name returns the display name for the locale.
func (c Category) Name(locale string) string { return localizedName(c.Names, locale) }

// Name returns the display name for the locale.
func (s Subcategory) Name(locale string) string { return localizedName(s.Names, locale) }

// Name returns the display name for the locale.
func (s SubSubcategory) Name(locale string) string { return localizedName(s.Names, locale) }

// SearchSort enumerates the supported professional sort orders.
type SearchSort string

const (
	SortRating    SearchSort = "rating"
	SortReviews   SearchSort = "reviews"
	SortPriceLow  SearchSort = "price-low"
	SortPriceHigh SearchSort = "price-high"
	SortNewest    SearchSort = "newest"
)

// ValidSort reports whether the sort value is one of the supported orders.
func ValidSort(s SearchSort) bool {
	switch s {
	case SortRating, SortReviews, SortPriceLow, SortPriceHigh, SortNewest:
		return true
	}
	return false
}

// SearchQuery carries the professional search filters.
type SearchQuery struct {
	Category    string
	Subcategory string
	MinRating   *float64
	MinPrice    *float64
	MaxPrice    *float64
	Sort        SearchSort
	Limit       int
}

// Reader is the narrow read surface of the marketplace consumed by the
// assistant tools. The CRUD services behind it are external collaborators.
type Reader interface {
	SearchProfessionals(ctx context.Context, query SearchQuery) ([]Professional, int, error)
	GetProfessional(ctx context.Context, id string) (*Professional, error)
	ListReviews(ctx context.Context, professionalID string, limit int) ([]Review, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
