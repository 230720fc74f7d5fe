package tool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/domain/marketplace"
)

// MockReader is a func-field marketplace.Reader.
type MockReader struct {
	SearchProfessionalsFunc func(ctx context.Context, query marketplace.SearchQuery) ([]marketplace.Professional, int, error)
	GetProfessionalFunc     func(ctx context.Context, id string) (*marketplace.Professional, error)
	ListReviewsFunc         func(ctx context.Context, professionalID string, limit int) ([]marketplace.Review, error)
	ListCategoriesFunc      func(ctx context.Context) ([]marketplace.Category, error)
}

func (m *MockReader) SearchProfessionals(ctx context.Context, query marketplace.SearchQuery) ([]marketplace.Professional, int, error) {
	if m.SearchProfessionalsFunc != nil {
		return m.SearchProfessionalsFunc(ctx, query)
	}
	return nil, 0, nil
}

func (m *MockReader) GetProfessional(ctx context.Context, id string) (*marketplace.Professional, error) {
	if m.GetProfessionalFunc != nil {
		return m.GetProfessionalFunc(ctx, id)
	}
	return nil, marketplace.ErrNotFound
}

func (m *MockReader) ListReviews(ctx context.Context, professionalID string, limit int) ([]marketplace.Review, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, professionalID, limit)
	}
	return nil, nil
}

func (m *MockReader) ListCategories(ctx context.Context) ([]marketplace.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

func categoriesFixture() []marketplace.Category {
	return []marketplace.Category{
		{
			Key:    "plumbing",
			Names:  map[string]string{"en": "Plumbing", "ka": "სანტექნიკა", "ru": "Сантехника"},
			Active: true,
			Subcategories: []marketplace.Subcategory{
				{Key: "pipe-repair", Names: map[string]string{"en": "Pipe Repair"}},
			},
		},
		{
			Key:    "retired-category",
			Names:  map[string]string{"en": "Retired"},
			Active: false,
		},
	}
}

func newTestRegistry(reader marketplace.Reader) *Registry {
	return NewRegistry(reader, zerolog.Nop())
}

func TestDefinitionsStableOrder(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	defs := reg.Definitions()
	if len(defs) != 6 {
		t.Fatalf("expected 6 tool definitions, got %d", len(defs))
	}

	want := []string{
		NameSearchProfessionals,
		NameGetProfessionalDetails,
		NameGetProfessionalReviews,
		NameGetCategories,
		NameGetPriceRanges,
		NameExplainFeature,
	}
	for i, def := range defs {
		if def.Type != "function" {
			t.Errorf("definition %d has type %q", i, def.Type)
		}
		if def.Function.Name != want[i] {
			t.Errorf("definition %d is %q, want %q", i, def.Function.Name, want[i])
		}
		if def.Function.Parameters == nil {
			t.Errorf("definition %q has no parameter schema", def.Function.Name)
		}
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	_, err := reg.Dispatch(context.Background(), "launch_rocket", nil, chat.LocaleEN)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestSearchProfessionalsResolvesSubcategory(t *testing.T) {
	var seen marketplace.SearchQuery
	reader := &MockReader{
		ListCategoriesFunc: func(ctx context.Context) ([]marketplace.Category, error) {
			return categoriesFixture(), nil
		},
		SearchProfessionalsFunc: func(ctx context.Context, query marketplace.SearchQuery) ([]marketplace.Professional, int, error) {
			seen = query
			return []marketplace.Professional{{ID: "p1", DisplayName: "Giorgi", Rating: 4.8}}, 1, nil
		},
	}
	reg := newTestRegistry(reader)

	args := json.RawMessage(`{"category":"Pipe-Repair","minRating":4}`)
	outcome, err := reg.Dispatch(context.Background(), NameSearchProfessionals, args, chat.LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen.Category != "plumbing" || seen.Subcategory != "pipe-repair" {
		t.Errorf("key not resolved against the tree: %+v", seen)
	}
	if seen.Sort != marketplace.SortRating || seen.Limit != defaultSearchLimit {
		t.Errorf("defaults not applied: %+v", seen)
	}
	if seen.MinRating == nil || *seen.MinRating != 4 {
		t.Errorf("minRating not forwarded: %+v", seen.MinRating)
	}

	if outcome.RichContent == nil || outcome.RichContent.Type != chat.RichProfessionalList {
		t.Fatalf("expected professional list rich content, got %+v", outcome.RichContent)
	}
}

func TestSearchProfessionalsValidation(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	cases := []string{
		`{"sort":"alphabetical"}`,
		`{"limit":11}`,
		`{"minRating":6}`,
		`{"minPrice":200,"maxPrice":100}`,
	}
	for _, raw := range cases {
		if _, err := reg.Dispatch(context.Background(), NameSearchProfessionals, json.RawMessage(raw), chat.LocaleEN); err == nil {
			t.Errorf("expected validation error for %s", raw)
		}
	}
}

func TestSearchProfessionalsEmptyResultHasNoRichContent(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	outcome, err := reg.Dispatch(context.Background(), NameSearchProfessionals, json.RawMessage(`{}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent != nil {
		t.Errorf("empty search must not attach rich content, got %+v", outcome.RichContent)
	}

	summary, ok := outcome.Summary.(map[string]interface{})
	if !ok || summary["total"] != 0 {
		t.Errorf("unexpected summary: %+v", outcome.Summary)
	}
}

func TestGetProfessionalDetailsNotFound(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	outcome, err := reg.Dispatch(context.Background(), NameGetProfessionalDetails, json.RawMessage(`{"proId":"ghost"}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("missing profile must not be a tool error: %v", err)
	}
	if outcome.RichContent != nil {
		t.Error("missing profile must not attach rich content")
	}
	summary := outcome.Summary.(map[string]interface{})
	if summary["found"] != false {
		t.Errorf("expected found=false, got %+v", summary)
	}
}

func TestGetProfessionalReviews(t *testing.T) {
	reader := &MockReader{
		ListReviewsFunc: func(ctx context.Context, professionalID string, limit int) ([]marketplace.Review, error) {
			return []marketplace.Review{
				{Rating: 5, Author: "Nino", Comment: "Excellent work"},
				{Rating: 4, Author: "Luka", Comment: "Good"},
			}, nil
		},
	}
	reg := newTestRegistry(reader)

	outcome, err := reg.Dispatch(context.Background(), NameGetProfessionalReviews, json.RawMessage(`{"proId":"p1"}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent == nil || outcome.RichContent.Type != chat.RichReviewList {
		t.Fatalf("expected review list rich content, got %+v", outcome.RichContent)
	}
	summary := outcome.Summary.(map[string]interface{})
	if summary["averageRating"] != 4.5 {
		t.Errorf("expected average 4.5, got %v", summary["averageRating"])
	}

	// No reviews: summary only.
	empty := newTestRegistry(&MockReader{})
	outcome, err = empty.Dispatch(context.Background(), NameGetProfessionalReviews, json.RawMessage(`{"proId":"p1"}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent != nil {
		t.Error("empty review list must not attach rich content")
	}
}

func TestGetCategoriesFiltersInactive(t *testing.T) {
	reader := &MockReader{
		ListCategoriesFunc: func(ctx context.Context) ([]marketplace.Category, error) {
			return categoriesFixture(), nil
		},
	}
	reg := newTestRegistry(reader)

	outcome, err := reg.Dispatch(context.Background(), NameGetCategories, json.RawMessage(`{}`), chat.LocaleKA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent == nil || outcome.RichContent.Type != chat.RichCategoryList {
		t.Fatalf("expected category list, got %+v", outcome.RichContent)
	}
	cats := outcome.RichContent.CategoryList.Categories
	if len(cats) != 1 || cats[0].Key != "plumbing" {
		t.Errorf("inactive categories must be filtered, got %+v", cats)
	}

	// Localized names in the summary.
	summary := outcome.Summary.(map[string]interface{})
	if !strings.Contains(jsonString(t, summary), "სანტექნიკა") {
		t.Errorf("expected Georgian category name in summary: %+v", summary)
	}
}

func TestGetPriceRangesEmptyStillReturnsPriceInfo(t *testing.T) {
	reader := &MockReader{
		ListCategoriesFunc: func(ctx context.Context) ([]marketplace.Category, error) {
			return categoriesFixture(), nil
		},
	}
	reg := newTestRegistry(reader)

	outcome, err := reg.Dispatch(context.Background(), NameGetPriceRanges, json.RawMessage(`{"category":"plumbing"}`), chat.LocaleRU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent == nil || outcome.RichContent.Type != chat.RichPriceInfo {
		t.Fatalf("PRICE_INFO must be attached even without data, got %+v", outcome.RichContent)
	}

	info := outcome.RichContent.PriceInfo
	if len(info.PriceRanges) != 0 {
		t.Errorf("expected no tiers, got %+v", info.PriceRanges)
	}
	if info.Note != noPriceDataNotes[chat.LocaleRU] {
		t.Errorf("expected localized no-data note, got %q", info.Note)
	}
}

func TestGetPriceRangesComputesTiers(t *testing.T) {
	price := func(v float64) *float64 { return &v }
	reader := &MockReader{
		ListCategoriesFunc: func(ctx context.Context) ([]marketplace.Category, error) {
			return categoriesFixture(), nil
		},
		SearchProfessionalsFunc: func(ctx context.Context, query marketplace.SearchQuery) ([]marketplace.Professional, int, error) {
			if query.Limit != pricingSampleLimit {
				t.Errorf("pricing must widen the sample, got limit %d", query.Limit)
			}
			return []marketplace.Professional{
				{ID: "p1", PriceMin: price(100), PriceMax: price(150)},
				{ID: "p2", PriceMin: price(200), PriceMax: price(280)},
				{ID: "p3", PriceMin: price(300), PriceMax: price(400)},
			}, 3, nil
		},
	}
	reg := newTestRegistry(reader)

	outcome, err := reg.Dispatch(context.Background(), NameGetPriceRanges, json.RawMessage(`{"category":"plumbing"}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := outcome.RichContent.PriceInfo
	if len(info.PriceRanges) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(info.PriceRanges))
	}
	if info.Currency != priceCurrency {
		t.Errorf("expected currency %q, got %q", priceCurrency, info.Currency)
	}
	if info.Note != "" {
		t.Errorf("no note expected when data exists, got %q", info.Note)
	}
}

func TestExplainFeatureMatching(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	outcome, err := reg.Dispatch(context.Background(), NameExplainFeature, json.RawMessage(`{"feature":"как разместить заказ"}`), chat.LocaleRU)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent == nil || outcome.RichContent.Type != chat.RichFeatureExplanation {
		t.Fatalf("expected feature explanation, got %+v", outcome.RichContent)
	}
	walkthrough := outcome.RichContent.FeatureExplanation
	if walkthrough.Feature != featurePostJob {
		t.Errorf("expected post-job walkthrough, got %q", walkthrough.Feature)
	}
	if walkthrough.Title != "Размещение заказа" {
		t.Errorf("expected Russian walkthrough, got %q", walkthrough.Title)
	}
}

func TestExplainFeatureUnmatched(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	outcome, err := reg.Dispatch(context.Background(), NameExplainFeature, json.RawMessage(`{"feature":"time travel"}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("unmatched feature must not be a tool error: %v", err)
	}
	if outcome.RichContent != nil {
		t.Error("unmatched feature must not attach rich content")
	}
	summary := outcome.Summary.(map[string]interface{})
	if summary["found"] != false {
		t.Errorf("expected found=false, got %+v", summary)
	}
}

func TestExplainFeatureLocaleOverride(t *testing.T) {
	reg := newTestRegistry(&MockReader{})

	outcome, err := reg.Dispatch(context.Background(), NameExplainFeature, json.RawMessage(`{"feature":"post a job","locale":"ka"}`), chat.LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RichContent.FeatureExplanation.Title != "სამუშაოს განთავსება" {
		t.Errorf("locale argument must override the turn locale, got %q", outcome.RichContent.FeatureExplanation.Title)
	}
}

func jsonString(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}
