package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/domain/marketplace"
)

const priceCurrency = "GEL"

var noPriceDataNotes = map[chat.Locale]string{
	chat.LocaleEN: "No published prices in this category yet. Post a job to get quotes directly from professionals.",
	chat.LocaleKA: "ამ კატეგორიაში გამოქვეყნებული ფასები ჯერ არ არის. განათავსეთ სამუშაო და მიიღეთ შეთავაზებები პირდაპირ ხელოსნებისგან.",
	chat.LocaleRU: "В этой категории пока нет опубликованных цен. Разместите заказ и получите предложения напрямую от специалистов.",
}

func (r *Registry) getCategories(ctx context.Context, raw json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	var args getCategoriesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return chat.ToolOutcome{}, err
	}

	tree, err := r.reader.ListCategories(ctx)
	if err != nil {
		return chat.ToolOutcome{}, fmt.Errorf("list categories: %w", err)
	}

	active := make([]marketplace.Category, 0, len(tree))
	for _, cat := range tree {
		if !cat.Active {
			continue
		}
		if args.CategoryKey != "" {
			res := marketplace.ResolveCategory(tree, args.CategoryKey)
			if res.Level == marketplace.LevelUnresolved || res.CategoryKey != cat.Key {
				continue
			}
		}
		active = append(active, cat)
	}

	type categorySummary struct {
		Key           string   `json:"key"`
		Name          string   `json:"name"`
		Subcategories []string `json:"subcategories,omitempty"`
	}
	summaries := make([]categorySummary, 0, len(active))
	for _, cat := range active {
		subs := make([]string, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			subs = append(subs, sub.Key)
		}
		summaries = append(summaries, categorySummary{
			Key:           cat.Key,
			Name:          cat.Name(string(locale)),
			Subcategories: subs,
		})
	}

	outcome := chat.ToolOutcome{
		Summary: map[string]interface{}{
			"count":      len(active),
			"categories": summaries,
		},
	}
	if len(active) > 0 {
		outcome.RichContent = &chat.RichContent{
			Type:         chat.RichCategoryList,
			CategoryList: &chat.CategoryListData{Categories: active},
		}
	}
	return outcome, nil
}

func (r *Registry) getPriceRanges(ctx context.Context, raw json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	var args getPriceRangesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return chat.ToolOutcome{}, err
	}

	tree, err := r.reader.ListCategories(ctx)
	if err != nil {
		return chat.ToolOutcome{}, fmt.Errorf("list categories: %w", err)
	}

	query := marketplace.SearchQuery{
		Sort:  marketplace.SortRating,
		Limit: pricingSampleLimit,
	}
	label := args.Category
	res := marketplace.ResolveCategory(tree, args.Category)
	switch res.Level {
	case marketplace.LevelCategory:
		query.Category = res.CategoryKey
		label = res.CategoryKey
	case marketplace.LevelSubcategory:
		query.Category = res.CategoryKey
		query.Subcategory = res.SubcategoryKey
		label = res.SubcategoryKey
	default:
		query.Subcategory = res.SubcategoryKey
	}

	pros, _, err := r.reader.SearchProfessionals(ctx, query)
	if err != nil {
		return chat.ToolOutcome{}, fmt.Errorf("search professionals: %w", err)
	}

	report := marketplace.ComputePriceTiers(pros)

	data := &chat.PriceInfoData{
		Category:    label,
		Currency:    priceCurrency,
		PriceRanges: report.Tiers,
		AverageMin:  report.AverageMin,
		AverageMax:  report.AverageMax,
	}
	summary := map[string]interface{}{
		"category":   label,
		"sampleSize": report.SampleSize,
		"currency":   priceCurrency,
	}
	if report.SampleSize == 0 {
		// The UI block is still attached so the client can render the
		// "no price data" state with a follow-up action.
		data.Note = noPriceDataNotes[locale]
		summary["note"] = "no published prices in this category"
	} else {
		summary["tiers"] = report.Tiers
		summary["averageMin"] = report.AverageMin
		summary["averageMax"] = report.AverageMax
	}

	return chat.ToolOutcome{
		Summary: summary,
		RichContent: &chat.RichContent{
			Type:      chat.RichPriceInfo,
			PriceInfo: data,
		},
	}, nil
}
