package marketplace

import "strings"

// ResolutionLevel says at which tree depth a category key matched.
type ResolutionLevel string

const (
	LevelCategory    ResolutionLevel = "category"
	LevelSubcategory ResolutionLevel = "subcategory"
	LevelUnresolved  ResolutionLevel = "unresolved"
)

// Resolution is the outcome of resolving a free-text category key.
type Resolution struct {
	Level          ResolutionLevel
	CategoryKey    string
	SubcategoryKey string
}

// ResolveCategory maps a case-insensitive key onto the category tree, walking
// top-level categories, then subcategories, then sub-subcategories, and
// returning the first structural match. An unmatched key is never an error:
// callers use it as a subcategory filter and must tolerate zero matches.
func ResolveCategory(tree []Category, key string) Resolution {
	needle := strings.ToLower(strings.TrimSpace(key))
	if needle == "" {
		return Resolution{Level: LevelUnresolved}
	}

	for _, cat := range tree {
		if strings.ToLower(cat.Key) == needle {
			return Resolution{Level: LevelCategory, CategoryKey: cat.Key}
		}
	}

	for _, cat := range tree {
		for _, sub := range cat.Subcategories {
			if strings.ToLower(sub.Key) == needle {
				return Resolution{
					Level:          LevelSubcategory,
					CategoryKey:    cat.Key,
					SubcategoryKey: sub.Key,
				}
			}
		}
	}

	for _, cat := range tree {
		for _, sub := range cat.Subcategories {
			for _, leaf := range sub.Children {
				if strings.ToLower(leaf.Key) == needle {
					return Resolution{
						Level:          LevelSubcategory,
						CategoryKey:    cat.Key,
						SubcategoryKey: leaf.Key,
					}
				}
			}
		}
	}

	return Resolution{Level: LevelUnresolved, SubcategoryKey: key}
}
