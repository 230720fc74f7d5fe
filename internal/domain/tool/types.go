package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"renohub/services/assistant-api/internal/domain/marketplace"
)

// Tool names. The set is fixed: the assistant offers exactly these six.
const (
	NameSearchProfessionals    = "search_professionals"
	NameGetProfessionalDetails = "get_professional_details"
	NameGetProfessionalReviews = "get_professional_reviews"
	NameGetCategories          = "get_categories"
	NameGetPriceRanges         = "get_price_ranges"
	NameExplainFeature         = "explain_feature"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 10
	defaultReviewLimit = 5
	maxReviewLimit     = 10

	// How many matching professionals feed the price tier calculation.
	pricingSampleLimit = 100
)

type searchProfessionalsArgs struct {
	Category    string   `json:"category,omitempty" jsonschema:"description=Service category or subcategory key, e.g. plumbing"`
	Subcategory string   `json:"subcategory,omitempty" jsonschema:"description=Subcategory key to narrow the search"`
	MinRating   *float64 `json:"minRating,omitempty" jsonschema:"minimum=0,maximum=5,description=Only professionals rated at least this high"`
	MinPrice    *float64 `json:"minPrice,omitempty" jsonschema:"minimum=0"`
	MaxPrice    *float64 `json:"maxPrice,omitempty" jsonschema:"minimum=0"`
	Sort        string   `json:"sort,omitempty" jsonschema:"enum=rating,enum=reviews,enum=price-low,enum=price-high,enum=newest,description=Sort order for results"`
	Limit       int      `json:"limit,omitempty" jsonschema:"minimum=1,maximum=10,default=5"`
}

func (a *searchProfessionalsArgs) validate() error {
	if a.Sort == "" {
		a.Sort = string(marketplace.SortRating)
	}
	if !marketplace.ValidSort(marketplace.SearchSort(a.Sort)) {
		return fmt.Errorf("invalid sort %q", a.Sort)
	}
	if a.Limit == 0 {
		a.Limit = defaultSearchLimit
	}
	if a.Limit < 1 || a.Limit > maxSearchLimit {
		return fmt.Errorf("limit must be between 1 and %d", maxSearchLimit)
	}
	if a.MinRating != nil && (*a.MinRating < 0 || *a.MinRating > 5) {
		return fmt.Errorf("minRating must be between 0 and 5")
	}
	if a.MinPrice != nil && *a.MinPrice < 0 {
		return fmt.Errorf("minPrice must not be negative")
	}
	if a.MaxPrice != nil && *a.MaxPrice < 0 {
		return fmt.Errorf("maxPrice must not be negative")
	}
	if a.MinPrice != nil && a.MaxPrice != nil && *a.MaxPrice < *a.MinPrice {
		return fmt.Errorf("maxPrice must not be below minPrice")
	}
	return nil
}

type professionalDetailsArgs struct {
	ProID string `json:"proId" jsonschema:"required,description=Identifier of the professional"`
}

func (a *professionalDetailsArgs) validate() error {
	if a.ProID == "" {
		return fmt.Errorf("proId is required")
	}
	return nil
}

type professionalReviewsArgs struct {
	ProID string `json:"proId" jsonschema:"required,description=Identifier of the professional"`
	Limit int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=10,default=5"`
}

func (a *professionalReviewsArgs) validate() error {
	if a.ProID == "" {
		return fmt.Errorf("proId is required")
	}
	if a.Limit == 0 {
		a.Limit = defaultReviewLimit
	}
	if a.Limit < 1 || a.Limit > maxReviewLimit {
		return fmt.Errorf("limit must be between 1 and %d", maxReviewLimit)
	}
	return nil
}

type getCategoriesArgs struct {
	CategoryKey string `json:"categoryKey,omitempty" jsonschema:"description=Return only this category; omit for all active categories"`
}

func (a *getCategoriesArgs) validate() error { return nil }

type getPriceRangesArgs struct {
	Category string `json:"category" jsonschema:"required,description=Category or subcategory key to price"`
}

func (a *getPriceRangesArgs) validate() error {
	if a.Category == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}

type explainFeatureArgs struct {
	Feature string `json:"feature" jsonschema:"required,description=Free-text name of the marketplace feature to explain"`
	Locale  string `json:"locale,omitempty" jsonschema:"enum=en,enum=ka,enum=ru"`
}

func (a *explainFeatureArgs) validate() error {
	if a.Feature == "" {
		return fmt.Errorf("feature is required")
	}
	return nil
}

// parameterSchema reflects a typed args struct into the inline JSON schema
// shape the chat completions API expects for a tool definition.
func parameterSchema(args interface{}) map[string]interface{} {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(args)
	raw, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{"type": "object"}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{"type": "object"}
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

func decodeArgs(raw json.RawMessage, into interface{ validate() error }) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("invalid tool arguments: %w", err)
		}
	}
	return into.validate()
}
