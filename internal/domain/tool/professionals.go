package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/domain/marketplace"
)

// professionalSummary is the compact per-professional shape echoed back to the
// model. Full profiles ride on the rich content instead.
type professionalSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	PriceMin    *float64 `json:"priceMin,omitempty"`
	PriceMax    *float64 `json:"priceMax,omitempty"`
	City        string   `json:"city,omitempty"`
	Verified    bool     `json:"verified"`
}

func summarizeProfessional(p marketplace.Professional) professionalSummary {
	return professionalSummary{
		ID:          p.ID,
		Name:        p.DisplayName,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		PriceMin:    p.PriceMin,
		PriceMax:    p.PriceMax,
		City:        p.City,
		Verified:    p.Verified,
	}
}

func (r *Registry) searchProfessionals(ctx context.Context, raw json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	var args searchProfessionalsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return chat.ToolOutcome{}, err
	}

	query := marketplace.SearchQuery{
		MinRating: args.MinRating,
		MinPrice:  args.MinPrice,
		MaxPrice:  args.MaxPrice,
		Sort:      marketplace.SearchSort(args.Sort),
		Limit:     args.Limit,
	}

	// A category key from the model can sit at any tree depth; resolve it
	// against the live tree so the search filters stay structural.
	label := args.Category
	if args.Category != "" {
		tree, err := r.reader.ListCategories(ctx)
		if err != nil {
			return chat.ToolOutcome{}, fmt.Errorf("list categories: %w", err)
		}
		res := marketplace.ResolveCategory(tree, args.Category)
		switch res.Level {
		case marketplace.LevelCategory:
			query.Category = res.CategoryKey
		case marketplace.LevelSubcategory:
			query.Category = res.CategoryKey
			query.Subcategory = res.SubcategoryKey
		default:
			// Pass the raw key through as a subcategory filter; zero
			// matches is an acceptable answer.
			query.Subcategory = res.SubcategoryKey
		}
	}
	if args.Subcategory != "" {
		query.Subcategory = args.Subcategory
	}

	pros, total, err := r.reader.SearchProfessionals(ctx, query)
	if err != nil {
		return chat.ToolOutcome{}, fmt.Errorf("search professionals: %w", err)
	}

	summaries := make([]professionalSummary, 0, len(pros))
	for _, p := range pros {
		summaries = append(summaries, summarizeProfessional(p))
	}

	outcome := chat.ToolOutcome{
		Summary: map[string]interface{}{
			"total":         total,
			"returned":      len(pros),
			"professionals": summaries,
		},
	}
	if len(pros) > 0 {
		outcome.RichContent = &chat.RichContent{
			Type: chat.RichProfessionalList,
			ProfessionalList: &chat.ProfessionalListData{
				Professionals: pros,
				Total:         total,
				Category:      label,
			},
		}
	}
	return outcome, nil
}

func (r *Registry) getProfessionalDetails(ctx context.Context, raw json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	var args professionalDetailsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return chat.ToolOutcome{}, err
	}

	pro, err := r.reader.GetProfessional(ctx, args.ProID)
	if errors.Is(err, marketplace.ErrNotFound) {
		// A missing profile is an answer, not a failure: the model should
		// tell the user instead of the turn degrading.
		return chat.ToolOutcome{
			Summary: map[string]interface{}{"found": false, "proId": args.ProID},
		}, nil
	}
	if err != nil {
		return chat.ToolOutcome{}, fmt.Errorf("get professional: %w", err)
	}

	return chat.ToolOutcome{
		Summary: map[string]interface{}{
			"found":        true,
			"professional": summarizeProfessional(*pro),
			"bio":          pro.Bio,
			"categories":   pro.Categories,
		},
		RichContent: &chat.RichContent{
			Type:             chat.RichProfessionalCard,
			ProfessionalCard: &chat.ProfessionalCardData{Professional: *pro},
		},
	}, nil
}

func (r *Registry) getProfessionalReviews(ctx context.Context, raw json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	var args professionalReviewsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return chat.ToolOutcome{}, err
	}

	reviews, err := r.reader.ListReviews(ctx, args.ProID, args.Limit)
	if err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			return chat.ToolOutcome{
				Summary: map[string]interface{}{"found": false, "proId": args.ProID},
			}, nil
		}
		return chat.ToolOutcome{}, fmt.Errorf("list reviews: %w", err)
	}

	type reviewSummary struct {
		Author  string `json:"author"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	summaries := make([]reviewSummary, 0, len(reviews))
	var ratingSum int
	for _, rev := range reviews {
		ratingSum += rev.Rating
		summaries = append(summaries, reviewSummary{
			Author:  rev.Author,
			Rating:  rev.Rating,
			Comment: excerpt(rev.Comment, 200),
		})
	}
	var average float64
	if len(reviews) > 0 {
		average = float64(ratingSum) / float64(len(reviews))
	}

	outcome := chat.ToolOutcome{
		Summary: map[string]interface{}{
			"count":         len(reviews),
			"averageRating": average,
			"reviews":       summaries,
		},
	}
	if len(reviews) > 0 {
		outcome.RichContent = &chat.RichContent{
			Type: chat.RichReviewList,
			ReviewList: &chat.ReviewListData{
				ProfessionalID: args.ProID,
				Reviews:        reviews,
			},
		}
	}
	return outcome, nil
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
