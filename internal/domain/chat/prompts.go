package chat

import "fmt"

// The system prompt table is a static lookup keyed by (locale, roleBucket),
// assembled once at package load. It enumerates the six tools and the
// behavioral constraints the assistant must follow.

const toolCatalog = `You can call these tools to answer with live marketplace data:
- search_professionals: find renovation professionals by category, rating and price
- get_professional_details: full profile of one professional
- get_professional_reviews: recent reviews of one professional
- get_categories: the service category tree
- get_price_ranges: typical budget/mid-range/premium price bands for a category
- explain_feature: step-by-step walkthrough of a marketplace feature`

const behaviorRules = `Rules:
- Keep answers short and concrete.
- Prefer tool data over anything you might invent; never fabricate professionals, prices or reviews.
- When a tool returns nothing, say so and suggest an alternative category or posting a job.
- Stay on the topic of home renovation and this marketplace.`

var localeDirectives = map[Locale]string{
	LocaleEN: "Answer in English.",
	LocaleKA: "უპასუხე ქართულად (answer in Georgian).",
	LocaleRU: "Отвечай по-русски (answer in Russian).",
}

var roleIntros = map[RoleBucket]string{
	RoleBucketClient: "You are the assistant of a home renovation marketplace, helping a homeowner find the right professional, understand prices and post a job.",
	RoleBucketPro:    "You are the assistant of a home renovation marketplace, helping a registered professional understand how proposals, reviews and their portfolio work.",
	RoleBucketGuest:  "You are the assistant of a home renovation marketplace, helping a visitor discover what the marketplace offers and how to get started.",
}

var systemPrompts = buildSystemPrompts()

func buildSystemPrompts() map[Locale]map[RoleBucket]string {
	prompts := make(map[Locale]map[RoleBucket]string, len(localeDirectives))
	for locale, directive := range localeDirectives {
		prompts[locale] = make(map[RoleBucket]string, len(roleIntros))
		for role, intro := range roleIntros {
			prompts[locale][role] = fmt.Sprintf("%s\n\n%s\n\n%s\n%s", intro, toolCatalog, behaviorRules, directive)
		}
	}
	return prompts
}

// SystemPrompt returns the prompt for the locale and role bucket.
func SystemPrompt(locale Locale, role RoleBucket) string {
	byRole, ok := systemPrompts[locale]
	if !ok {
		byRole = systemPrompts[DefaultLocale]
	}
	prompt, ok := byRole[role]
	if !ok {
		prompt = byRole[RoleBucketGuest]
	}
	return prompt
}

// Localized degraded-mode replies. The user turn is kept in the transcript
// but no assistant message is persisted alongside these.
var (
	unavailableReplies = map[Locale]string{
		LocaleEN: "Sorry, the assistant is temporarily unavailable. Please try again in a few minutes.",
		LocaleKA: "უკაცრავად, ასისტენტი დროებით მიუწვდომელია. გთხოვთ, სცადოთ რამდენიმე წუთში.",
		LocaleRU: "Извините, ассистент временно недоступен. Пожалуйста, попробуйте через несколько минут.",
	}

	failureReplies = map[Locale]string{
		LocaleEN: "Sorry, something went wrong while answering. Please send your message again.",
		LocaleKA: "უკაცრავად, პასუხის მომზადებისას მოხდა შეცდომა. გთხოვთ, გამოაგზავნოთ შეტყობინება თავიდან.",
		LocaleRU: "Извините, при подготовке ответа произошла ошибка. Пожалуйста, отправьте сообщение ещё раз.",
	}
)

// UnavailableReply is the localized reply when no provider is configured.
func UnavailableReply(locale Locale) string {
	if reply, ok := unavailableReplies[locale]; ok {
		return reply
	}
	return unavailableReplies[DefaultLocale]
}

// FailureReply is the localized reply when a provider call fails mid-turn.
func FailureReply(locale Locale) string {
	if reply, ok := failureReplies[locale]; ok {
		return reply
	}
	return failureReplies[DefaultLocale]
}
