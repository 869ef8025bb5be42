package normalizer

import (
	"math"
	"net/url"
	"strings"

	"farmcare/arbiter"
	"farmcare/models"
	"farmcare/vocab"
)

const (
	// RecoveredConfidence is assigned to labels scraped from unparseable text.
	RecoveredConfidence = 75.0
	// LowResultConfidence is assigned to low-confidence replies without a
	// score. Such replies are never confident, whatever the threshold.
	LowResultConfidence = 50.0
)

var (
	recoveredSymptoms   = []string{"Analysis completed but detailed symptoms not available"}
	recoveredTreatments = []string{"Consult agricultural extension service for specific treatment"}
	recoveredPrevention = []string{"Follow general plant health practices"}

	lowSymptoms   = []string{"Multiple possibilities detected - manual inspection recommended"}
	lowTreatments = []string{"Consult agricultural extension service for specific treatment"}
	lowPrevention = []string{"Follow general plant health practices"}
)

// Scale converts a producer confidence to the 0-100 scale. Values above 1
// are taken as percentages, anything else as a 0-1 fraction.
func Scale(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	if c <= 1 {
		c *= 100
	}
	return clamp(c)
}

func clamp(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return math.Round(c*1e4) / 1e4
}

// Normalize maps any shape onto the canonical report. isConfident is
// computed against threshold, never taken from the producer.
func Normalize(s Shape, threshold float64) models.DiseaseReport {
	var r models.DiseaseReport
	failed := false
	// unscored low replies keep their alternatives even when the
	// placeholder reaches the threshold
	unscored := false

	switch v := s.(type) {
	case Flat:
		r = fromFlat(v)
	case NestedHigh:
		r = fromHigh(v.Result, v.Alternatives)
	case BuyingLinks:
		r = fromHigh(v.Result, v.Alternatives)
		r.PesticideProducts = append(r.PesticideProducts, linkProducts(v.Links)...)
	case NestedLow:
		r = fromLow(v)
		unscored = v.Score == nil
	case LocalPrediction:
		r = fromLocal(v)
	case Recovered:
		r = models.DiseaseReport{
			DiseaseClass: vocab.Coerce(v.Class),
			Confidence:   Scale(v.Confidence),
			Symptoms:     clone(recoveredSymptoms),
			Treatments:   clone(recoveredTreatments),
			Prevention:   clone(recoveredPrevention),
		}
	case Failure:
		r = fromFailure(v)
		failed = true
	default:
		r = fromFailure(Failure{Class: vocab.PredictionError, Message: "No prediction was produced"})
		failed = true
	}

	if r.PlantType == "" {
		r.PlantType = vocab.PlantType(r.DiseaseClass)
	}
	r.DisplayName = r.DiseaseClass
	r.IsConfident = !failed && !unscored && arbiter.IsConfident(r.Confidence, threshold)

	enforceSplit(&r)
	capLists(&r)
	fillEmpty(&r)
	return r
}

// IsFailure reports whether r is an error record.
func IsFailure(r models.DiseaseReport) bool {
	return vocab.IsErrorMarker(r.DiseaseClass)
}

func fromFlat(v Flat) models.DiseaseReport {
	products := append([]models.PesticideProduct{}, v.Products...)
	for _, p := range v.IndiaProducts {
		products = append(products, models.PesticideProduct{
			ProductName:      p.Name,
			Type:             p.Type,
			ActiveIngredient: p.ActiveIngredients,
			Price:            p.PriceRange,
			PurchaseURL:      p.BuyLink,
			Seller:           hostOf(p.BuyLink),
		})
	}
	return models.DiseaseReport{
		PlantType:          strings.TrimSpace(v.PlantType),
		DiseaseClass:       vocab.Coerce(v.Class),
		Confidence:         Scale(v.Confidence),
		Description:        v.Description,
		Cause:              v.Cause,
		Symptoms:           clone(v.Symptoms),
		Treatments:         clone(v.Treatment),
		OrganicTreatments:  append([]models.OrganicTreatment(nil), v.Organic...),
		ChemicalTreatments: append([]models.ChemicalTreatment(nil), v.Chemical...),
		Prevention:         clone(v.Prevention),
		PesticideProducts:  products,
	}
}

// fromHigh treats a missing score as 0, whatever the reply claims.
func fromHigh(h HighResult, alts []LowResult) models.DiseaseReport {
	confidence := 0.0
	if h.Score != nil {
		confidence = Scale(*h.Score)
	}
	return models.DiseaseReport{
		DiseaseClass:              vocab.Coerce(h.DiseaseName),
		Confidence:                confidence,
		Description:               h.Description,
		Cause:                     h.Cause,
		Symptoms:                  clone(h.Symptoms),
		OrganicTreatments:         append([]models.OrganicTreatment(nil), h.Organic...),
		ChemicalTreatments:        append([]models.ChemicalTreatment(nil), h.Chemical...),
		Prevention:                clone(h.Prevention),
		PesticideProducts:         append([]models.PesticideProduct{}, h.Products...),
		LowConfidenceAlternatives: alternatives(alts),
	}
}

// fromLow keeps the primary guess as the class and the whole list as
// alternatives. The generic detail block only survives when a scored reply
// reaches the threshold.
func fromLow(v NestedLow) models.DiseaseReport {
	confidence := LowResultConfidence
	if v.Score != nil {
		confidence = Scale(*v.Score)
	}

	class := vocab.Unknown
	if len(v.Results) > 0 {
		class = vocab.Coerce(v.Results[0].DiseaseName)
	}

	var tips []string
	for _, res := range v.Results {
		if t := strings.TrimSpace(res.PreventionTips); t != "" {
			tips = append(tips, t)
		}
	}
	if len(tips) == 0 {
		tips = clone(lowPrevention)
	}

	return models.DiseaseReport{
		DiseaseClass:              class,
		Confidence:                confidence,
		Symptoms:                  clone(lowSymptoms),
		Treatments:                clone(lowTreatments),
		Prevention:                tips,
		LowConfidenceAlternatives: alternatives(v.Results),
	}
}

func fromLocal(v LocalPrediction) models.DiseaseReport {
	class := vocab.Coerce(v.Class)
	info := vocab.InfoFor(class)
	return models.DiseaseReport{
		DiseaseClass: class,
		Confidence:   clamp(v.Confidence),
		Symptoms:     info.Symptoms,
		Treatments:   info.Treatment,
		Prevention:   info.Prevention,
	}
}

func fromFailure(v Failure) models.DiseaseReport {
	class := v.Class
	if !vocab.IsErrorMarker(class) {
		class = vocab.PredictionError
	}
	msg := strings.TrimSpace(v.Message)
	if msg == "" {
		msg = "Could not process the image"
	}
	return models.DiseaseReport{
		DiseaseClass: class,
		Confidence:   0,
		Treatments:   []string{msg},
		Message:      msg,
	}
}

func alternatives(results []LowResult) []models.Alternative {
	var out []models.Alternative
	for _, res := range results {
		class := vocab.Coerce(res.DiseaseName)
		out = append(out, models.Alternative{
			DiseaseClass:  class,
			DisplayName:   class,
			PreventionTip: strings.TrimSpace(res.PreventionTips),
		})
	}
	return out
}

func linkProducts(links []BuyingLink) []models.PesticideProduct {
	var out []models.PesticideProduct
	for _, l := range links {
		name := strings.TrimSpace(l.Description)
		if name == "" {
			name = strings.TrimSpace(l.Website)
		}
		out = append(out, models.PesticideProduct{
			ProductName: name,
			Type:        l.Category,
			PurchaseURL: l.URL,
			Seller:      l.Website,
		})
	}
	return out
}

// enforceSplit keeps exactly one of the detail block and the alternatives
// list as primary content.
func enforceSplit(r *models.DiseaseReport) {
	if r.IsConfident {
		r.LowConfidenceAlternatives = nil
		return
	}
	if len(r.LowConfidenceAlternatives) == 0 {
		return
	}
	r.Description = ""
	r.Cause = ""
	r.Symptoms = nil
	r.Treatments = nil
	r.OrganicTreatments = nil
	r.ChemicalTreatments = nil
	r.Prevention = nil
	r.PesticideProducts = nil
}

func capLists(r *models.DiseaseReport) {
	if len(r.OrganicTreatments) > models.MaxOrganicTreatments {
		r.OrganicTreatments = r.OrganicTreatments[:models.MaxOrganicTreatments]
	}
	if len(r.ChemicalTreatments) > models.MaxChemicalTreatments {
		r.ChemicalTreatments = r.ChemicalTreatments[:models.MaxChemicalTreatments]
	}
	if len(r.PesticideProducts) > models.MaxPesticideProducts {
		r.PesticideProducts = r.PesticideProducts[:models.MaxPesticideProducts]
	}
}

// fillEmpty replaces nil slices so the JSON always carries arrays.
func fillEmpty(r *models.DiseaseReport) {
	if r.Symptoms == nil {
		r.Symptoms = []string{}
	}
	if r.Treatments == nil {
		r.Treatments = []string{}
	}
	if r.OrganicTreatments == nil {
		r.OrganicTreatments = []models.OrganicTreatment{}
	}
	if r.ChemicalTreatments == nil {
		r.ChemicalTreatments = []models.ChemicalTreatment{}
	}
	if r.Prevention == nil {
		r.Prevention = []string{}
	}
	if r.PesticideProducts == nil {
		r.PesticideProducts = []models.PesticideProduct{}
	}
	if r.LowConfidenceAlternatives == nil {
		r.LowConfidenceAlternatives = []models.Alternative{}
	}
}

func hostOf(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
