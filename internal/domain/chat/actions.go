package chat

import "strings"

// MaxSuggestedActions caps the follow-ups attached to one reply.
const MaxSuggestedActions = 3

var (
	viewProfessionalsLabels = map[Locale]string{
		LocaleEN: "View All Professionals",
		LocaleKA: "ყველა ხელოსნის ნახვა",
		LocaleRU: "Все специалисты",
	}
	postJobLabels = map[Locale]string{
		LocaleEN: "Post a Job",
		LocaleKA: "განათავსე სამუშაო",
		LocaleRU: "Разместить заказ",
	}
	getQuotesLabels = map[Locale]string{
		LocaleEN: "Get Quotes",
		LocaleKA: "მიიღე შეთავაზებები",
		LocaleRU: "Получить предложения",
	}
	browseCategoriesLabels = map[Locale]string{
		LocaleEN: "Browse Categories",
		LocaleKA: "კატეგორიების დათვალიერება",
		LocaleRU: "Просмотр категорий",
	}
	registerLabels = map[Locale]string{
		LocaleEN: "Register",
		LocaleKA: "რეგისტრაცია",
		LocaleRU: "Регистрация",
	}
)

// Keyword sets for the text fallback, lowercase, per spec language coverage.
var (
	professionalKeywords = []string{"professional", "ხელოსან", "სპეციალისტ", "специалист", "мастер"}
	postJobKeywords      = []string{"post a job", "post job", "სამუშაოს განთავსება", "განაცხადი", "разместить заказ", "создать заказ"}
	registerKeywords     = []string{"register", "sign up", "რეგისტრაც", "регистрац"}
)

func linkAction(labels map[Locale]string, locale Locale, url string) SuggestedAction {
	return SuggestedAction{
		Type:   ActionTypeLink,
		Label:  localizedLabel(labels, locale),
		Labels: labels,
		URL:    url,
	}
}

func localizedLabel(labels map[Locale]string, locale Locale) string {
	if label, ok := labels[locale]; ok {
		return label
	}
	return labels[DefaultLocale]
}

// SynthesizeActions maps the turn's rich content (and, only when that yields
// nothing, the reply text) to at most three follow-up actions. The mapping is
// a pure function evaluated in fixed priority order; matches append, never
// replace.
func SynthesizeActions(richContent []RichContent, replyText string, locale Locale) []SuggestedAction {
	var actions []SuggestedAction

	hasProfessionals := false
	hasPriceInfo := false
	hasCategories := false
	var feature *FeatureExplanationData

	for _, rc := range richContent {
		switch rc.Type {
		case RichProfessionalCard, RichProfessionalList:
			hasProfessionals = true
		case RichPriceInfo:
			hasPriceInfo = true
		case RichCategoryList:
			hasCategories = true
		case RichFeatureExplanation:
			if feature == nil && rc.FeatureExplanation != nil && rc.FeatureExplanation.ActionURL != "" {
				feature = rc.FeatureExplanation
			}
		}
	}

	if hasProfessionals {
		actions = append(actions,
			linkAction(viewProfessionalsLabels, locale, "/professionals"),
			linkAction(postJobLabels, locale, "/post-job"),
		)
	}
	if hasPriceInfo {
		actions = append(actions, linkAction(getQuotesLabels, locale, "/post-job?intent=quotes"))
	}
	if feature != nil {
		label := feature.ActionLabel
		if label == "" {
			label = feature.Title
		}
		actions = append(actions, SuggestedAction{
			Type:  ActionTypeLink,
			Label: label,
			URL:   feature.ActionURL,
		})
	}
	if hasCategories {
		actions = append(actions, linkAction(browseCategoriesLabels, locale, "/categories"))
	}

	if len(actions) == 0 {
		text := strings.ToLower(replyText)
		if containsAny(text, professionalKeywords) {
			actions = append(actions, linkAction(viewProfessionalsLabels, locale, "/professionals"))
		}
		if containsAny(text, postJobKeywords) {
			actions = append(actions, linkAction(postJobLabels, locale, "/post-job"))
		}
		if containsAny(text, registerKeywords) {
			actions = append(actions, SuggestedAction{
				Type:     ActionTypeAction,
				Label:    localizedLabel(registerLabels, locale),
				Labels:   registerLabels,
				ActionID: "open-registration",
			})
		}
	}

	if len(actions) > MaxSuggestedActions {
		actions = actions[:MaxSuggestedActions]
	}
	return actions
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
