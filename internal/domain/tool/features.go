package tool

import (
	"context"
	"encoding/json"
	"strings"

	"renohub/services/assistant-api/internal/domain/chat"
)

// Feature keys the assistant can explain.
const (
	featurePostJob    = "post-job"
	featureProposals  = "proposals"
	featureMessaging  = "messaging"
	featureReviews    = "reviews"
	featureHowItWorks = "how-it-works"
)

// featureOrder fixes the matching precedence: the first feature whose phrase
// appears in the request wins.
var featureOrder = []string{
	featurePostJob,
	featureProposals,
	featureMessaging,
	featureReviews,
	featureHowItWorks,
}

// featurePhrases maps each feature to the phrases users reach for, across all
// supported locales. Matching is case-insensitive substring containment.
var featurePhrases = map[string][]string{
	featurePostJob: {
		"post a job", "post job", "posting a job", "create a job", "job posting", "publish a job",
		"განცხადების განთავსება", "სამუშაოს განთავსება", "დავდო განცხადება",
		"разместить заказ", "разместить объявление", "опубликовать заказ", "создать заказ",
	},
	featureProposals: {
		"proposal", "quote", "quotes", "offer", "bid", "estimate",
		"შეთავაზება", "შეთავაზებები", "ფასის შეთავაზება",
		"предложение", "предложения", "смета", "оффер",
	},
	featureMessaging: {
		"message", "messaging", "chat with", "contact a professional", "contact the professional", "write to",
		"მიწერა", "მესიჯი", "შეტყობინება", "დაკავშირება",
		"написать", "сообщение", "связаться", "переписка",
	},
	featureReviews: {
		"review", "reviews", "leave a review", "rate", "rating works",
		"შეფასება", "შეფასებები", "მიმოხილვა",
		"отзыв", "отзывы", "оставить отзыв", "оценить",
	},
	featureHowItWorks: {
		"how it works", "how does it work", "how the platform works", "getting started", "what is this",
		"როგორ მუშაობს", "როგორ დავიწყო",
		"как это работает", "как работает", "с чего начать",
	},
}

// featureWalkthroughs holds the localized step-by-step explanations.
var featureWalkthroughs = map[string]map[chat.Locale]chat.FeatureExplanationData{
	featurePostJob: {
		chat.LocaleEN: {
			Feature: featurePostJob,
			Title:   "Posting a job",
			Steps: []string{
				"Describe the work you need done and pick the matching category.",
				"Add photos, your location and a rough budget if you have one.",
				"Publish the job and verified professionals will send you proposals.",
			},
			ActionURL:   "/post-job",
			ActionLabel: "Post a Job",
		},
		chat.LocaleKA: {
			Feature: featurePostJob,
			Title:   "სამუშაოს განთავსება",
			Steps: []string{
				"აღწერეთ სამუშაო და აირჩიეთ შესაბამისი კატეგორია.",
				"დაამატეთ ფოტოები, მდებარეობა და სავარაუდო ბიუჯეტი.",
				"გამოაქვეყნეთ განცხადება და ხელოსნები გამოგიგზავნიან შეთავაზებებს.",
			},
			ActionURL:   "/post-job",
			ActionLabel: "განათავსე სამუშაო",
		},
		chat.LocaleRU: {
			Feature: featurePostJob,
			Title:   "Размещение заказа",
			Steps: []string{
				"Опишите работу и выберите подходящую категорию.",
				"Добавьте фото, адрес и примерный бюджет, если он есть.",
				"Опубликуйте заказ — проверенные специалисты пришлют предложения.",
			},
			ActionURL:   "/post-job",
			ActionLabel: "Разместить заказ",
		},
	},
	featureProposals: {
		chat.LocaleEN: {
			Feature: featureProposals,
			Title:   "Receiving proposals",
			Steps: []string{
				"After you post a job, interested professionals send proposals with a price and timeline.",
				"Compare proposals, profiles and reviews side by side.",
				"Accept the proposal you like to start working together.",
			},
			ActionURL:   "/post-job",
			ActionLabel: "Get Quotes",
		},
		chat.LocaleKA: {
			Feature: featureProposals,
			Title:   "შეთავაზებების მიღება",
			Steps: []string{
				"განცხადების გამოქვეყნების შემდეგ ხელოსნები გამოგიგზავნიან შეთავაზებებს ფასითა და ვადით.",
				"შეადარეთ შეთავაზებები, პროფილები და შეფასებები.",
				"აირჩიეთ სასურველი შეთავაზება და დაიწყეთ თანამშრომლობა.",
			},
			ActionURL:   "/post-job",
			ActionLabel: "მიიღე შეთავაზებები",
		},
		chat.LocaleRU: {
			Feature: featureProposals,
			Title:   "Получение предложений",
			Steps: []string{
				"После публикации заказа специалисты пришлют предложения с ценой и сроками.",
				"Сравните предложения, профили и отзывы.",
				"Примите подходящее предложение и начните работу.",
			},
			ActionURL:   "/post-job",
			ActionLabel: "Получить предложения",
		},
	},
	featureMessaging: {
		chat.LocaleEN: {
			Feature: featureMessaging,
			Title:   "Messaging professionals",
			Steps: []string{
				"Open a professional's profile or one of their proposals.",
				"Use the built-in chat to discuss details, share photos and agree on scope.",
				"Keep the conversation on the platform so your history is preserved.",
			},
		},
		chat.LocaleKA: {
			Feature: featureMessaging,
			Title:   "ხელოსნებთან მიმოწერა",
			Steps: []string{
				"გახსენით ხელოსნის პროფილი ან მისი შეთავაზება.",
				"ჩატში განიხილეთ დეტალები, გააზიარეთ ფოტოები და შეათანხმეთ მოცულობა.",
				"მიმოწერა აწარმოეთ პლატფორმაზე, რომ ისტორია შენახული იყოს.",
			},
		},
		chat.LocaleRU: {
			Feature: featureMessaging,
			Title:   "Переписка со специалистами",
			Steps: []string{
				"Откройте профиль специалиста или его предложение.",
				"Во встроенном чате обсудите детали, поделитесь фото и согласуйте объём работ.",
				"Ведите переписку на платформе, чтобы история сохранилась.",
			},
		},
	},
	featureReviews: {
		chat.LocaleEN: {
			Feature: featureReviews,
			Title:   "Ratings and reviews",
			Steps: []string{
				"Only clients who completed a job through the platform can leave a review.",
				"Rate the professional from 1 to 5 stars and describe your experience.",
				"Reviews are public and shape each professional's rating.",
			},
		},
		chat.LocaleKA: {
			Feature: featureReviews,
			Title:   "შეფასებები და მიმოხილვები",
			Steps: []string{
				"შეფასების დატოვება შეუძლიათ მხოლოდ კლიენტებს, რომლებმაც სამუშაო პლატფორმით დაასრულეს.",
				"შეაფასეთ ხელოსანი 1-დან 5 ვარსკვლავამდე და აღწერეთ გამოცდილება.",
				"შეფასებები საჯაროა და განსაზღვრავს ხელოსნის რეიტინგს.",
			},
		},
		chat.LocaleRU: {
			Feature: featureReviews,
			Title:   "Оценки и отзывы",
			Steps: []string{
				"Отзыв может оставить только клиент, завершивший заказ через платформу.",
				"Поставьте специалисту от 1 до 5 звёзд и опишите свой опыт.",
				"Отзывы публичны и формируют рейтинг специалиста.",
			},
		},
	},
	featureHowItWorks: {
		chat.LocaleEN: {
			Feature: featureHowItWorks,
			Title:   "How the marketplace works",
			Steps: []string{
				"Browse categories or search for the service you need.",
				"Post a job or contact a professional directly.",
				"Compare proposals, hire, and leave a review when the work is done.",
			},
			ActionURL:   "/how-it-works",
			ActionLabel: "Learn More",
		},
		chat.LocaleKA: {
			Feature: featureHowItWorks,
			Title:   "როგორ მუშაობს პლატფორმა",
			Steps: []string{
				"დაათვალიერეთ კატეგორიები ან მოძებნეთ სასურველი სერვისი.",
				"განათავსეთ სამუშაო ან პირდაპირ დაუკავშირდით ხელოსანს.",
				"შეადარეთ შეთავაზებები, დაიქირავეთ და სამუშაოს დასრულების შემდეგ დატოვეთ შეფასება.",
			},
			ActionURL:   "/how-it-works",
			ActionLabel: "გაიგე მეტი",
		},
		chat.LocaleRU: {
			Feature: featureHowItWorks,
			Title:   "Как работает платформа",
			Steps: []string{
				"Просмотрите категории или найдите нужную услугу.",
				"Разместите заказ или свяжитесь со специалистом напрямую.",
				"Сравните предложения, наймите исполнителя и оставьте отзыв после завершения работ.",
			},
			ActionURL:   "/how-it-works",
			ActionLabel: "Узнать больше",
		},
	},
}

// matchFeature finds the feature whose phrase table contains the request.
// Exact key matches win, then substring containment in precedence order.
func matchFeature(request string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(request))
	if needle == "" {
		return "", false
	}
	for _, key := range featureOrder {
		if needle == key {
			return key, true
		}
	}
	for _, key := range featureOrder {
		for _, phrase := range featurePhrases[key] {
			if strings.Contains(needle, phrase) || strings.Contains(phrase, needle) {
				return key, true
			}
		}
	}
	return "", false
}

func (r *Registry) explainFeature(ctx context.Context, raw json.RawMessage, locale chat.Locale) (chat.ToolOutcome, error) {
	var args explainFeatureArgs
	if err := decodeArgs(raw, &args); err != nil {
		return chat.ToolOutcome{}, err
	}

	if args.Locale != "" {
		locale = chat.NormalizeLocale(args.Locale)
	}

	key, ok := matchFeature(args.Feature)
	if !ok {
		return chat.ToolOutcome{
			Summary: map[string]interface{}{"found": false, "feature": args.Feature},
		}, nil
	}

	walkthrough, ok := featureWalkthroughs[key][locale]
	if !ok {
		walkthrough = featureWalkthroughs[key][chat.LocaleEN]
	}

	return chat.ToolOutcome{
		Summary: map[string]interface{}{
			"found":   true,
			"feature": key,
			"title":   walkthrough.Title,
			"steps":   walkthrough.Steps,
		},
		RichContent: &chat.RichContent{
			Type:               chat.RichFeatureExplanation,
			FeatureExplanation: &walkthrough,
		},
	}, nil
}
