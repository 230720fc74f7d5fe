package chat

import "testing"

func TestSynthesizeActionsFromProfessionals(t *testing.T) {
	rich := []RichContent{
		{Type: RichProfessionalList, ProfessionalList: &ProfessionalListData{Total: 3}},
	}

	actions := SynthesizeActions(rich, "here are some plumbers", LocaleEN)

	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Label != "View All Professionals" || actions[0].URL != "/professionals" {
		t.Errorf("unexpected first action: %+v", actions[0])
	}
	if actions[1].Label != "Post a Job" || actions[1].URL != "/post-job" {
		t.Errorf("unexpected second action: %+v", actions[1])
	}
}

func TestSynthesizeActionsPriceInfoEvenWhenEmpty(t *testing.T) {
	rich := []RichContent{
		{Type: RichPriceInfo, PriceInfo: &PriceInfoData{Category: "plumbing"}},
	}

	actions := SynthesizeActions(rich, "no price data available", LocaleEN)

	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Label != "Get Quotes" || actions[0].URL != "/post-job?intent=quotes" {
		t.Errorf("unexpected action: %+v", actions[0])
	}
}

func TestSynthesizeActionsFeatureCarriesOwnLink(t *testing.T) {
	rich := []RichContent{
		{Type: RichFeatureExplanation, FeatureExplanation: &FeatureExplanationData{
			Feature:     "post-job",
			Title:       "Posting a job",
			ActionURL:   "/post-job",
			ActionLabel: "Post a Job",
		}},
	}

	actions := SynthesizeActions(rich, "", LocaleEN)

	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].URL != "/post-job" || actions[0].Label != "Post a Job" {
		t.Errorf("unexpected action: %+v", actions[0])
	}
}

func TestSynthesizeActionsCapsAtThree(t *testing.T) {
	rich := []RichContent{
		{Type: RichProfessionalList, ProfessionalList: &ProfessionalListData{}},
		{Type: RichPriceInfo, PriceInfo: &PriceInfoData{}},
		{Type: RichCategoryList, CategoryList: &CategoryListData{}},
		{Type: RichFeatureExplanation, FeatureExplanation: &FeatureExplanationData{ActionURL: "/how-it-works"}},
	}

	actions := SynthesizeActions(rich, "", LocaleEN)

	if len(actions) != MaxSuggestedActions {
		t.Fatalf("expected %d actions, got %d", MaxSuggestedActions, len(actions))
	}
	// Priority order: professionals first, then price info.
	if actions[0].URL != "/professionals" {
		t.Errorf("expected professionals action first, got %+v", actions[0])
	}
	if actions[2].URL != "/post-job?intent=quotes" {
		t.Errorf("expected quotes action third, got %+v", actions[2])
	}
}

func TestSynthesizeActionsTextFallbackOnlyWithoutRichContent(t *testing.T) {
	actions := SynthesizeActions(nil, "You should register and post a job to find a professional", LocaleEN)

	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}
	if actions[2].Type != ActionTypeAction || actions[2].ActionID != "open-registration" {
		t.Errorf("expected registration action, got %+v", actions[2])
	}

	// Rich content present: the text fallback must not fire.
	rich := []RichContent{{Type: RichCategoryList, CategoryList: &CategoryListData{}}}
	actions = SynthesizeActions(rich, "register to see professionals", LocaleEN)
	if len(actions) != 1 || actions[0].URL != "/categories" {
		t.Errorf("expected only the categories action, got %+v", actions)
	}
}

func TestSynthesizeActionsLocalizedLabels(t *testing.T) {
	rich := []RichContent{{Type: RichProfessionalList, ProfessionalList: &ProfessionalListData{}}}

	actions := SynthesizeActions(rich, "", LocaleKA)

	if actions[0].Label != "ყველა ხელოსნის ნახვა" {
		t.Errorf("expected Georgian label, got %q", actions[0].Label)
	}

	actions = SynthesizeActions(rich, "", LocaleRU)
	if actions[1].Label != "Разместить заказ" {
		t.Errorf("expected Russian label, got %q", actions[1].Label)
	}
}

func TestSynthesizeActionsNoMatches(t *testing.T) {
	actions := SynthesizeActions(nil, "the weather is nice today", LocaleEN)
	if len(actions) != 0 {
		t.Errorf("expected no actions, got %+v", actions)
	}
}
