package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"renohub/services/assistant-api/internal/domain/chat"
	"renohub/services/assistant-api/internal/domain/llm"
	"renohub/services/assistant-api/internal/domain/marketplace"
)

type handlerFunc func(ctx context.Context, args json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error)

type entry struct {
	definition llm.ToolDefinition
	run        handlerFunc
}

// Registry holds the fixed dispatch table of assistant tools backed by the
// marketplace catalogue. It implements chat.ToolRunner.
type Registry struct {
	reader marketplace.Reader
	log    zerolog.Logger

	entries map[string]entry
	// order keeps tool definitions stable across calls.
	order []string
}

// NewRegistry builds the six-tool dispatch table.
func NewRegistry(reader marketplace.Reader, log zerolog.Logger) *Registry {
	r := &Registry{
		reader:  reader,
		log:     log.With().Str("component", "tool-registry").Logger(),
		entries: make(map[string]entry),
	}

	r.register(NameSearchProfessionals,
		"Search renovation professionals by category, rating, price range and sort order.",
		&searchProfessionalsArgs{}, r.searchProfessionals)
	r.register(NameGetProfessionalDetails,
		"Fetch the full profile of one professional by identifier.",
		&professionalDetailsArgs{}, r.getProfessionalDetails)
	r.register(NameGetProfessionalReviews,
		"Fetch recent reviews left for one professional.",
		&professionalReviewsArgs{}, r.getProfessionalReviews)
	r.register(NameGetCategories,
		"List the active service categories, or one category by key.",
		&getCategoriesArgs{}, r.getCategories)
	r.register(NameGetPriceRanges,
		"Compute budget, mid-range and premium price tiers for a service category.",
		&getPriceRangesArgs{}, r.getPriceRanges)
	r.register(NameExplainFeature,
		"Explain how a marketplace feature works, e.g. posting a job or getting quotes.",
		&explainFeatureArgs{}, r.explainFeature)

	return r
}

func (r *Registry) register(name, description string, args interface{}, run handlerFunc) {
	r.entries[name] = entry{
		definition: llm.ToolDefinition{
			Type: "function",
			Function: llm.ToolFunctionSchema{
				Name:        name,
				Description: description,
				Parameters:  parameterSchema(args),
			},
		},
		run: run,
	}
	r.order = append(r.order, name)
}

// Definitions returns the tool definitions advertised to the model.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].definition)
	}
	return defs
}

// Dispatch routes one model-requested tool call to its handler.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	e, ok := r.entries[name]
	if !ok {
		return chat.ToolOutcome{}, fmt.Errorf("unknown tool %q", name)
	}

	start := time.Now()
	outcome, err := e.run(ctx, args, locale)
	if err != nil {
		return chat.ToolOutcome{}, err
	}

	r.log.Debug().Str("tool", name).Dur("elapsed", time.Since(start)).Msg("tool call completed")
	return outcome, nil
}
