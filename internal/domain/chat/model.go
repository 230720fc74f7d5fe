package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"renohub/services/assistant-api/internal/domain/marketplace"
)

// Locale enumerates the locales the assistant speaks.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleKA Locale = "ka"
	LocaleRU Locale = "ru"

	DefaultLocale = LocaleEN
)

// NormalizeLocale coerces an arbitrary locale string to a supported Locale.
func NormalizeLocale(raw string) Locale {
	switch Locale(raw) {
	case LocaleEN, LocaleKA, LocaleRU:
		return Locale(raw)
	}
	return DefaultLocale
}

// RoleBucket selects which system prompt variant the visitor gets.
type RoleBucket string

const (
	RoleBucketClient RoleBucket = "client"
	RoleBucketPro    RoleBucket = "pro"
	RoleBucketGuest  RoleBucket = "guest"
)

// NormalizeRole coerces an arbitrary role string to a RoleBucket.
func NormalizeRole(raw string) RoleBucket {
	switch RoleBucket(raw) {
	case RoleBucketClient, RoleBucketPro:
		return RoleBucket(raw)
	}
	return RoleBucketGuest
}

// Identity is who is calling: an authenticated user XOR an anonymous visitor
// carrying an opaque token. Ownership of a session is checked against the
// user ID when present, the visitor token otherwise.
type Identity struct {
	UserID    string
	VisitorID string
}

// Authenticated reports whether the identity carries a user reference.
func (i Identity) Authenticated() bool { return i.UserID != "" }

// Empty reports whether the identity carries nothing at all.
func (i Identity) Empty() bool { return i.UserID == "" && i.VisitorID == "" }

// SessionStatus is the lifecycle state of a chat session.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

// SessionContext is the optional page/role/locale hints captured at creation.
type SessionContext struct {
	Page            string `json:"page,omitempty"`
	UserRole        string `json:"user_role,omitempty"`
	PreferredLocale string `json:"preferred_locale,omitempty"`
}

// Session is one conversation between a visitor and the assistant.
type Session struct {
	ID            uint           `json:"-"`
	PublicID      string         `json:"id"`
	UserID        *string        `json:"-"`
	VisitorID     *string        `json:"-"`
	Status        SessionStatus  `json:"status"`
	MessageCount  int            `json:"message_count"`
	LastMessageAt *time.Time     `json:"last_message_at,omitempty"`
	Context       SessionContext `json:"context"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// MessageRole is who authored a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageMetadata is the per-assistant-message accounting and UI payload.
// What is stored here is exactly what was returned to the caller for the turn.
type MessageMetadata struct {
	TokensUsed       int               `json:"tokens_used,omitempty"`
	ModelID          string            `json:"model_id,omitempty"`
	ProcessingTimeMs int64             `json:"processing_time_ms,omitempty"`
	RichContent      []RichContent     `json:"rich_content,omitempty"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}

// Message is one half of a turn. Immutable once written, append-only,
// ordered by creation time.
type Message struct {
	ID        uint             `json:"-"`
	SessionID uint             `json:"-"`
	PublicID  string           `json:"id"`
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// RichContentType tags the rich content union.
type RichContentType string

const (
	RichProfessionalCard   RichContentType = "PROFESSIONAL_CARD"
	RichProfessionalList   RichContentType = "PROFESSIONAL_LIST"
	RichCategoryList       RichContentType = "CATEGORY_LIST"
	RichReviewList         RichContentType = "REVIEW_LIST"
	RichPriceInfo          RichContentType = "PRICE_INFO"
	RichFeatureExplanation RichContentType = "FEATURE_EXPLANATION"
)

// RichContent is the typed UI block attached to an assistant message.
// Exactly one variant field is set, selected by Type. It is a transfer
// artifact only and is never persisted outside its owning message.
type RichContent struct {
	Type RichContentType

	ProfessionalCard   *ProfessionalCardData
	ProfessionalList   *ProfessionalListData
	CategoryList       *CategoryListData
	ReviewList         *ReviewListData
	PriceInfo          *PriceInfoData
	FeatureExplanation *FeatureExplanationData
}

// ProfessionalCardData shows a single professional.
type ProfessionalCardData struct {
	Professional marketplace.Professional `json:"professional"`
}

// ProfessionalListData shows a ranked list of professionals.
type ProfessionalListData struct {
	Professionals []marketplace.Professional `json:"professionals"`
	Total         int                        `json:"total"`
	Category      string                     `json:"category,omitempty"`
}

// CategoryListData shows category summaries.
type CategoryListData struct {
	Categories []marketplace.Category `json:"categories"`
}

// ReviewListData shows reviews of one professional.
type ReviewListData struct {
	ProfessionalID string               `json:"professional_id"`
	Reviews        []marketplace.Review `json:"reviews"`
}

// PriceInfoData shows the price tier report for a category. When no priced
// professionals exist the tiers are empty and Note explains why.
type PriceInfoData struct {
	Category    string                  `json:"category"`
	Currency    string                  `json:"currency,omitempty"`
	PriceRanges []marketplace.PriceTier `json:"price_ranges"`
	AverageMin  float64                 `json:"average_min,omitempty"`
	AverageMax  float64                 `json:"average_max,omitempty"`
	Note        string                  `json:"note,omitempty"`
}

// FeatureExplanationData is a walkthrough of one marketplace feature.
type FeatureExplanationData struct {
	Feature     string   `json:"feature"`
	Title       string   `json:"title"`
	Steps       []string `json:"steps"`
	ActionURL   string   `json:"action_url,omitempty"`
	ActionLabel string   `json:"action_label,omitempty"`
}

type richContentEnvelope struct {
	Type RichContentType `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON renders the union as {"type": ..., "data": ...}.
func (r RichContent) MarshalJSON() ([]byte, error) {
	var data interface{}
	switch r.Type {
	case RichProfessionalCard:
		data = r.ProfessionalCard
	case RichProfessionalList:
		data = r.ProfessionalList
	case RichCategoryList:
		data = r.CategoryList
	case RichReviewList:
		data = r.ReviewList
	case RichPriceInfo:
		data = r.PriceInfo
	case RichFeatureExplanation:
		data = r.FeatureExplanation
	default:
		return nil, fmt.Errorf("unknown rich content type %q", r.Type)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(richContentEnvelope{Type: r.Type, Data: raw})
}

// UnmarshalJSON reads the {"type","data"} envelope back into the union.
func (r *RichContent) UnmarshalJSON(data []byte) error {
	var envelope richContentEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	r.Type = envelope.Type
	switch envelope.Type {
	case RichProfessionalCard:
		r.ProfessionalCard = &ProfessionalCardData{}
		return json.Unmarshal(envelope.Data, r.ProfessionalCard)
	case RichProfessionalList:
		r.ProfessionalList = &ProfessionalListData{}
		return json.Unmarshal(envelope.Data, r.ProfessionalList)
	case RichCategoryList:
		r.CategoryList = &CategoryListData{}
		return json.Unmarshal(envelope.Data, r.CategoryList)
	case RichReviewList:
		r.ReviewList = &ReviewListData{}
		return json.Unmarshal(envelope.Data, r.ReviewList)
	case RichPriceInfo:
		r.PriceInfo = &PriceInfoData{}
		return json.Unmarshal(envelope.Data, r.PriceInfo)
	case RichFeatureExplanation:
		r.FeatureExplanation = &FeatureExplanationData{}
		return json.Unmarshal(envelope.Data, r.FeatureExplanation)
	}
	return fmt.Errorf("unknown rich content type %q", envelope.Type)
}

// SuggestedActionType distinguishes navigation links from UI actions.
type SuggestedActionType string

const (
	ActionTypeLink   SuggestedActionType = "link"
	ActionTypeAction SuggestedActionType = "action"
)

// SuggestedAction is a derived follow-up shown alongside a reply. At most
// three are attached per turn, in insertion order.
type SuggestedAction struct {
	Type     SuggestedActionType `json:"type"`
	Label    string              `json:"label"`
	Labels   map[Locale]string   `json:"labels,omitempty"`
	URL      string              `json:"url,omitempty"`
	ActionID string              `json:"action_id,omitempty"`
}
