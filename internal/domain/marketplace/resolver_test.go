package marketplace

import "testing"

func testTree() []Category {
	return []Category{
		{
			Key:    "plumbing",
			Names:  map[string]string{"en": "Plumbing", "ka": "სანტექნიკა"},
			Active: true,
			Subcategories: []Subcategory{
				{
					Key:   "pipe-repair",
					Names: map[string]string{"en": "Pipe Repair"},
					Children: []SubSubcategory{
						{Key: "leak-fix", Names: map[string]string{"en": "Leak Fix"}},
					},
				},
			},
		},
		{
			Key:    "electrical",
			Names:  map[string]string{"en": "Electrical"},
			Active: true,
		},
	}
}

func TestResolveCategory(t *testing.T) {
	tree := testTree()

	tests := []struct {
		name string
		key  string
		want Resolution
	}{
		{
			name: "top level match",
			key:  "plumbing",
			want: Resolution{Level: LevelCategory, CategoryKey: "plumbing"},
		},
		{
			name: "case insensitive",
			key:  "PLUMBING",
			want: Resolution{Level: LevelCategory, CategoryKey: "plumbing"},
		},
		{
			name: "second level match carries the parent",
			key:  "pipe-repair",
			want: Resolution{Level: LevelSubcategory, CategoryKey: "plumbing", SubcategoryKey: "pipe-repair"},
		},
		{
			name: "third level match reports as subcategory of the top level",
			key:  "leak-fix",
			want: Resolution{Level: LevelSubcategory, CategoryKey: "plumbing", SubcategoryKey: "leak-fix"},
		},
		{
			name: "unmatched key kept as raw subcategory filter",
			key:  "underwater-basket-weaving",
			want: Resolution{Level: LevelUnresolved, SubcategoryKey: "underwater-basket-weaving"},
		},
		{
			name: "blank key",
			key:  "  ",
			want: Resolution{Level: LevelUnresolved},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCategory(tree, tt.key)
			if got != tt.want {
				t.Errorf("ResolveCategory(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestCategoryNameFallback(t *testing.T) {
	cat := testTree()[0]

	if got := cat.Name("ka"); got != "სანტექნიკა" {
		t.Errorf("expected Georgian name, got %q", got)
	}
	// Russian has no translation here, so English wins.
	if got := cat.Name("ru"); got != "Plumbing" {
		t.Errorf("expected English fallback, got %q", got)
	}
}
