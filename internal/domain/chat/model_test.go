package chat

import (
	"encoding/json"
	"testing"

	"renohub/services/assistant-api/internal/domain/marketplace"
)

func TestRichContentEnvelope(t *testing.T) {
	rc := RichContent{
		Type: RichPriceInfo,
		PriceInfo: &PriceInfoData{
			Category: "plumbing",
			Currency: "GEL",
			PriceRanges: []marketplace.PriceTier{
				{Label: marketplace.TierBudget, Min: 100, Max: 150},
			},
		},
	}

	raw, err := json.Marshal(rc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if _, ok := envelope["type"]; !ok {
		t.Fatal("envelope missing type")
	}
	if _, ok := envelope["data"]; !ok {
		t.Fatal("envelope missing data")
	}

	var decoded RichContent
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal rich content: %v", err)
	}
	if decoded.Type != RichPriceInfo || decoded.PriceInfo == nil {
		t.Fatalf("wrong variant decoded: %+v", decoded)
	}
	if decoded.PriceInfo.Category != "plumbing" || len(decoded.PriceInfo.PriceRanges) != 1 {
		t.Errorf("data not preserved: %+v", decoded.PriceInfo)
	}
}

func TestRichContentUnknownType(t *testing.T) {
	var decoded RichContent
	err := json.Unmarshal([]byte(`{"type":"HOLOGRAM","data":{}}`), &decoded)
	if err == nil {
		t.Fatal("expected error for unknown rich content type")
	}
}

func TestNormalizeLocaleAndRole(t *testing.T) {
	if NormalizeLocale("ka") != LocaleKA {
		t.Error("ka must be preserved")
	}
	if NormalizeLocale("fr") != LocaleEN {
		t.Error("unsupported locales fall back to English")
	}
	if NormalizeRole("pro") != RoleBucketPro {
		t.Error("pro must be preserved")
	}
	if NormalizeRole("admin") != RoleBucketGuest {
		t.Error("unknown roles bucket as guest")
	}
}
