package handlers

import (
	"fmt"
	"time"

	"farmcare/detection"
	"farmcare/models"
)

// The payloads below carry the canonical report next to the flat and
// nested field sets older clients read. Nothing here feeds back into the
// canonical model.

// LegacyResult is the original {class, confidence, ...} object.
type LegacyResult struct {
	Class       string   `json:"class"`
	Confidence  float64  `json:"confidence"`
	PlantType   string   `json:"plant_type"`
	Description string   `json:"description"`
	Symptoms    []string `json:"symptoms"`
	Treatment   []string `json:"treatment"`
	Prevention  []string `json:"prevention"`
}

// Details is the snake_case detail block.
type Details struct {
	Description        string                     `json:"description"`
	Cause              string                     `json:"cause"`
	Symptoms           []string                   `json:"symptoms"`
	Treatment          []string                   `json:"treatment"`
	Prevention         []string                   `json:"prevention"`
	OrganicTreatments  []models.OrganicTreatment  `json:"organic_treatments"`
	ChemicalTreatments []models.ChemicalTreatment `json:"chemical_treatments"`
	PesticideProducts  []models.PesticideProduct  `json:"pesticide_products"`
}

// HighConfidenceResult mirrors the nested schema's detail object.
type HighConfidenceResult struct {
	DiseaseName        string                     `json:"diseaseName"`
	Description        string                     `json:"description"`
	Cause              string                     `json:"cause"`
	ConfidenceScore    float64                    `json:"confidenceScore"`
	Symptoms           []string                   `json:"symptoms"`
	OrganicTreatments  []models.OrganicTreatment  `json:"organicTreatments"`
	ChemicalTreatments []models.ChemicalTreatment `json:"chemicalTreatments"`
	Prevention         []string                   `json:"prevention"`
	PesticideProducts  []models.PesticideProduct  `json:"pesticideProducts"`
}

// LowConfidenceResult mirrors one lowConfidenceResults entry.
type LowConfidenceResult struct {
	DiseaseName    string `json:"diseaseName"`
	DisplayName    string `json:"displayName"`
	PreventionTips string `json:"preventionTips"`
}

// Diagnosis carries exactly one of the two result forms.
type Diagnosis struct {
	IsConfident          bool                  `json:"isConfident"`
	HighConfidenceResult *HighConfidenceResult `json:"highConfidenceResult,omitempty"`
	LowConfidenceResults []LowConfidenceResult `json:"lowConfidenceResults,omitempty"`
}

// DetectionPayload is the body of the detect endpoint.
type DetectionPayload struct {
	Report           models.DiseaseReport `json:"report"`
	Result           LegacyResult         `json:"result"`
	PredictedDisease string               `json:"predicted_disease"`
	DisplayName      string               `json:"display_name"`
	PlantType        string               `json:"plant_type"`
	Confidence       float64              `json:"confidence"`
	ConfidenceScore  float64              `json:"confidence_score"`
	IsConfident      bool                 `json:"is_confident"`
	Details          Details              `json:"details"`
	Diagnosis        Diagnosis            `json:"diagnosis"`
	Treatment        []string             `json:"treatment"`
	Source           models.Source        `json:"source"`
	Status           string               `json:"status"`
	ScanID           string               `json:"scan_id,omitempty"`
	Language         string               `json:"language"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
	Error            string               `json:"error,omitempty"`
}

// ScanPayload is one scan as returned by the scan history endpoints.
type ScanPayload struct {
	ID               string               `json:"id,omitempty"`
	DiseaseName      string               `json:"diseaseName"`
	DisplayName      string               `json:"displayName"`
	PlantType        string               `json:"plantType"`
	ConfidenceScore  float64              `json:"confidenceScore"`
	IsConfident      bool                 `json:"isConfident"`
	Status           string               `json:"status"`
	ErrorMessage     string               `json:"errorMessage,omitempty"`
	Source           models.Source        `json:"source"`
	Language         string               `json:"language"`
	Filename         string               `json:"filename,omitempty"`
	ProcessingTimeMs int64                `json:"processingTimeMs"`
	ModelVersion     string               `json:"modelVersion,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	ImageURL         string               `json:"imageUrl,omitempty"`
	Treatment        []string             `json:"treatment"`
	Report           models.DiseaseReport `json:"report"`
	Diagnosis        Diagnosis            `json:"diagnosis"`
}

func newDetectionPayload(out detection.Outcome, lang string) DetectionPayload {
	r := out.Report
	treatment := legacyTreatments(r)
	p := DetectionPayload{
		Report: r,
		Result: LegacyResult{
			Class:       r.DiseaseClass,
			Confidence:  r.Confidence,
			PlantType:   r.PlantType,
			Description: r.Description,
			Symptoms:    r.Symptoms,
			Treatment:   treatment,
			Prevention:  r.Prevention,
		},
		PredictedDisease: r.DiseaseClass,
		DisplayName:      r.DisplayName,
		PlantType:        r.PlantType,
		Confidence:       r.Confidence,
		ConfidenceScore:  r.Confidence01(),
		IsConfident:      r.IsConfident,
		Details: Details{
			Description:        r.Description,
			Cause:              r.Cause,
			Symptoms:           r.Symptoms,
			Treatment:          treatment,
			Prevention:         r.Prevention,
			OrganicTreatments:  r.OrganicTreatments,
			ChemicalTreatments: r.ChemicalTreatments,
			PesticideProducts:  r.PesticideProducts,
		},
		Diagnosis:        newDiagnosis(r),
		Treatment:        treatment,
		Source:           out.Source,
		Status:           out.Status,
		ScanID:           out.ScanID,
		Language:         lang,
		ProcessingTimeMs: out.ProcessingTime.Milliseconds(),
	}
	if out.Status == models.StatusFailed {
		p.Error = r.Message
	}
	return p
}

func newScanPayload(s models.Scan, r models.DiseaseReport) ScanPayload {
	p := ScanPayload{
		ID:               s.ID,
		DiseaseName:      r.DiseaseClass,
		DisplayName:      r.DisplayName,
		PlantType:        r.PlantType,
		ConfidenceScore:  r.Confidence,
		IsConfident:      r.IsConfident,
		Status:           s.Status,
		ErrorMessage:     s.ErrorMessage,
		Source:           s.Source,
		Language:         s.Language,
		Filename:         s.Filename,
		ProcessingTimeMs: s.ProcessingTimeMs,
		ModelVersion:     s.ModelVersion,
		CreatedAt:        s.CreatedAt,
		Treatment:        legacyTreatments(r),
		Report:           r,
		Diagnosis:        newDiagnosis(r),
	}
	if s.ID != "" {
		p.ImageURL = fmt.Sprintf("%s/scans/%s/image", scansPrefix, s.ID)
	}
	return p
}

// scanFromOutcome describes a scan that was just produced. The id is empty
// when it could not be stored.
func scanFromOutcome(out detection.Outcome, filename, lang string) models.Scan {
	s := models.Scan{
		ID:               out.ScanID,
		Filename:         filename,
		Report:           out.Report,
		Source:           out.Source,
		Language:         lang,
		ProcessingTimeMs: out.ProcessingTime.Milliseconds(),
		Status:           out.Status,
		ModelVersion:     out.ModelVersion,
		CreatedAt:        out.CreatedAt,
	}
	if out.Status == models.StatusFailed {
		s.ErrorMessage = out.Report.Message
	}
	return s
}

func newDiagnosis(r models.DiseaseReport) Diagnosis {
	d := Diagnosis{IsConfident: r.IsConfident}
	if !r.IsConfident && len(r.LowConfidenceAlternatives) > 0 {
		d.LowConfidenceResults = make([]LowConfidenceResult, len(r.LowConfidenceAlternatives))
		for i, a := range r.LowConfidenceAlternatives {
			d.LowConfidenceResults[i] = LowConfidenceResult{
				DiseaseName:    a.DiseaseClass,
				DisplayName:    a.DisplayName,
				PreventionTips: a.PreventionTip,
			}
		}
		return d
	}
	d.HighConfidenceResult = &HighConfidenceResult{
		DiseaseName:        r.DiseaseClass,
		Description:        r.Description,
		Cause:              r.Cause,
		ConfidenceScore:    r.Confidence,
		Symptoms:           r.Symptoms,
		OrganicTreatments:  r.OrganicTreatments,
		ChemicalTreatments: r.ChemicalTreatments,
		Prevention:         r.Prevention,
		PesticideProducts:  r.PesticideProducts,
	}
	return d
}

// legacyTreatments flattens every treatment into the strings the first
// frontend displayed.
func legacyTreatments(r models.DiseaseReport) []string {
	out := append([]string{}, r.Treatments...)
	for i, t := range r.OrganicTreatments {
		out = append(out, fmt.Sprintf("Organic %d: %s - %s", i+1, t.Title, t.Description))
	}
	for i, t := range r.ChemicalTreatments {
		s := fmt.Sprintf("Chemical %d: %s - %s", i+1, t.ActiveIngredient, t.Usage)
		if t.Caution != "" {
			s += fmt.Sprintf(" (Caution: %s)", t.Caution)
		}
		out = append(out, s)
	}
	return out
}
