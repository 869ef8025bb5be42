package localization

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"farmcare/models"
	"farmcare/normalizer"
)

func sampleReport() models.DiseaseReport {
	return normalizer.Normalize(normalizer.Flat{
		Class:      "Apple___Apple_scab",
		Confidence: 85,
		Symptoms:   []string{"Visible damage on plant", "Olive green spots"},
		Treatment:  []string{"Remove severely infected parts"},
		Prevention: []string{"Regular monitoring"},
		Organic:    []models.OrganicTreatment{{Title: "organic", Description: "Neem oil"}},
		Chemical:   []models.ChemicalTreatment{{ActiveIngredient: "Captan", Usage: "Weekly", Caution: "Wear gloves"}},
		Products:   []models.PesticideProduct{{ProductName: "Captan 50", Type: "Chemical"}},
	}, 70)
}

func TestParse(t *testing.T) {
	tests := map[string]Language{
		"":        English,
		"base":    English,
		"en":      English,
		"English": English,
		"hi":      Hindi,
		"Hindi":   Hindi,
		" HINDI ": Hindi,
		"fr":      English,
	}
	for tag, want := range tests {
		if got := Parse(tag); got != want {
			t.Errorf("Parse(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, tag := range []string{"en", "EN-us", "hi", "hi-IN", "base"} {
		_, ok := Lookup(tag)
		assert.True(t, ok, tag)
	}
	for _, tag := range []string{"", "fr", "  ", "hinglish"} {
		lang, ok := Lookup(tag)
		assert.False(t, ok, tag)
		assert.Equal(t, Base, lang, tag)
	}
}

func TestBaseLanguageIsNoOp(t *testing.T) {
	r := sampleReport()
	if got := Translate(r, Parse("base")); !reflect.DeepEqual(got, r) {
		t.Errorf("base translation changed the report:\n%+v\n%+v", got, r)
	}
}

func TestTranslateHindi(t *testing.T) {
	r := sampleReport()
	got := Translate(r, Hindi)

	if got.DiseaseClass != "Apple___Apple_scab" {
		t.Errorf("class must stay a vocabulary label, got %q", got.DiseaseClass)
	}
	if got.DisplayName != "सेब - सेब स्कैब" || got.PlantType != "सेब" {
		t.Errorf("display fields not translated: %q / %q", got.DisplayName, got.PlantType)
	}
	if got.Symptoms[0] != "पौधे पर दिखाई देने वाली क्षति" || got.Symptoms[1] != "Olive green spots" {
		t.Errorf("symptoms = %v", got.Symptoms)
	}
	if got.OrganicTreatments[0].Title != "जैविक" || got.PesticideProducts[0].Type != "रासायनिक उत्पाद" {
		t.Errorf("nested leaves not translated: %+v %+v", got.OrganicTreatments, got.PesticideProducts)
	}
	if r.Symptoms[0] != "Visible damage on plant" {
		t.Error("Translate must not modify its input")
	}
}

func TestTranslatePreservesShape(t *testing.T) {
	r := sampleReport()
	got := Translate(r, Hindi)
	if len(got.Symptoms) != len(r.Symptoms) || len(got.Treatments) != len(r.Treatments) ||
		len(got.Prevention) != len(r.Prevention) || len(got.OrganicTreatments) != len(r.OrganicTreatments) ||
		len(got.ChemicalTreatments) != len(r.ChemicalTreatments) || len(got.PesticideProducts) != len(r.PesticideProducts) ||
		len(got.LowConfidenceAlternatives) != len(r.LowConfidenceAlternatives) {
		t.Error("translation changed list lengths")
	}
	if got.Confidence != r.Confidence || got.IsConfident != r.IsConfident {
		t.Error("translation changed non-text fields")
	}
}

func TestTranslateIsIdempotent(t *testing.T) {
	reports := []models.DiseaseReport{
		sampleReport(),
		normalizer.Normalize(normalizer.NestedLow{Results: []normalizer.LowResult{
			{DiseaseName: "Tomato___Early_blight", PreventionTips: "Regular monitoring"},
		}}, 70),
		normalizer.Normalize(normalizer.Failure{Class: "API_ERROR", Message: "API did not return a valid response"}, 70),
	}
	for _, r := range reports {
		once := Translate(r, Hindi)
		twice := Translate(once, Hindi)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("translation is not idempotent:\n%+v\n%+v", once, twice)
		}
	}
}

func TestNoTranslationIsAlsoAKey(t *testing.T) {
	for _, table := range []map[string]string{hindi, hindiClasses, hindiPlants} {
		for k, v := range table {
			_, inHindi := hindi[v]
			_, inClasses := hindiClasses[v]
			_, inPlants := hindiPlants[v]
			if inHindi || inClasses || inPlants {
				t.Errorf("translation of %q (%q) is itself a key", k, v)
			}
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message("No image provided", Hindi); got != "कोई छवि प्रदान नहीं की गई" {
		t.Errorf("Message = %q", got)
	}
	if got := Message("No image provided", English); got != "No image provided" {
		t.Errorf("Message = %q", got)
	}
	if got := Message("untranslated", Hindi); got != "untranslated" {
		t.Errorf("Message = %q", got)
	}
}
