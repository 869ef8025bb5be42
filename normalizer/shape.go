// Package normalizer turns every adapter output into one models.DiseaseReport.
//
// Historical remote response shapes and local predictions are modelled as a
// closed set of Shape variants; Normalize is the single entry point.
package normalizer

import (
	"farmcare/models"
)

// Shape is implemented only by the variants in this package.
type Shape interface {
	shape()
}

// Flat is the legacy single-level reply:
// {class, confidence, plant_type, description, symptoms, treatment, prevention}.
// Newer flat replies may also carry structured treatments and products.
type Flat struct {
	Class         string
	Confidence    float64
	PlantType     string
	Description   string
	Cause         string
	Symptoms      []string
	Treatment     []string
	Prevention    []string
	Organic       []models.OrganicTreatment
	Chemical      []models.ChemicalTreatment
	Products      []models.PesticideProduct
	IndiaProducts []IndiaProduct
}

// IndiaProduct is an entry of the legacy india_specific_products list.
type IndiaProduct struct {
	Name              string
	Type              string
	ActiveIngredients string
	Dosage            string
	ApplicationMethod string
	BuyLink           string
	PriceRange        string
}

// HighResult is the detail object of the nested schema.
type HighResult struct {
	DiseaseName string
	Description string
	Cause       string
	// Score is nil when the producer omitted confidenceScore.
	Score      *float64
	Symptoms   []string
	Organic    []models.OrganicTreatment
	Chemical   []models.ChemicalTreatment
	Prevention []string
	Products   []models.PesticideProduct
}

// LowResult is one entry of lowConfidenceResults.
type LowResult struct {
	DiseaseName    string
	PreventionTips string
}

// NestedHigh is {isConfident, highConfidenceResult:{...}}, possibly with
// lowConfidenceResults alongside.
type NestedHigh struct {
	Claimed      bool
	Result       HighResult
	Alternatives []LowResult
}

// NestedLow is {isConfident:false, lowConfidenceResults:[...]}.
type NestedLow struct {
	Results []LowResult
	Score   *float64
}

// BuyingLink is an entry of indianBuyingLinks.
type BuyingLink struct {
	Category    string
	Website     string
	URL         string
	Description string
}

// BuyingLinks is the nested-high variant carrying indianBuyingLinks instead
// of (or besides) pesticideProducts.
type BuyingLinks struct {
	Claimed      bool
	Result       HighResult
	Links        []BuyingLink
	Alternatives []LowResult
}

// LocalPrediction is the local classifier's output. Confidence is already a
// percentage.
type LocalPrediction struct {
	Class      string
	Confidence float64
}

// Recovered is a class label scraped out of an unparseable reply.
type Recovered struct {
	Class      string
	Confidence float64
}

// Failure is a report-shaped error.
type Failure struct {
	Class   string
	Message string
}

func (Flat) shape()            {}
func (NestedHigh) shape()      {}
func (NestedLow) shape()       {}
func (BuyingLinks) shape()     {}
func (LocalPrediction) shape() {}
func (Recovered) shape()       {}
func (Failure) shape()         {}

// Source reports which tier a shape came from.
func Source(s Shape) models.Source {
	switch s.(type) {
	case LocalPrediction:
		return models.SourceLocal
	case Recovered:
		return models.SourceRecovered
	case Failure, nil:
		return models.SourceError
	default:
		return models.SourceRemote
	}
}
