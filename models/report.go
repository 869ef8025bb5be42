package models

import (
	"math"
	"time"
)

// Hard caps on list lengths, applied whatever the producer emitted.
const (
	MaxOrganicTreatments  = 2
	MaxChemicalTreatments = 2
	MaxPesticideProducts  = 3
)

// Source identifies which tier produced a report.
type Source string

const (
	SourceLocal     Source = "local"
	SourceRemote    Source = "remote"
	SourceRecovered Source = "recovered"
	SourceError     Source = "error"
)

// Scan status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// OrganicTreatment is a non-chemical remedy.
type OrganicTreatment struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChemicalTreatment is a chemical remedy with usage guidance.
type ChemicalTreatment struct {
	ActiveIngredient string `json:"activeIngredient"`
	Usage            string `json:"usage"`
	Caution          string `json:"caution"`
}

// PesticideProduct is a purchasable product recommendation.
type PesticideProduct struct {
	ProductName      string `json:"productName"`
	Type             string `json:"type"`
	ActiveIngredient string `json:"activeIngredient"`
	Price            string `json:"price"`
	PurchaseURL      string `json:"purchaseUrl"`
	Seller           string `json:"seller"`
}

// Alternative is one plausible class offered when the result is not confident.
type Alternative struct {
	DiseaseClass  string `json:"diseaseClass"`
	DisplayName   string `json:"displayName"`
	PreventionTip string `json:"preventionTip"`
}

// DiseaseReport is the canonical record every adapter output is normalized into.
// Either the detail block (description through pesticideProducts) or
// LowConfidenceAlternatives carries primary content, never both.
type DiseaseReport struct {
	PlantType                 string              `json:"plantType"`
	DiseaseClass              string              `json:"diseaseClass"`
	DisplayName               string              `json:"displayName"`
	Confidence                float64             `json:"confidence"`
	IsConfident               bool                `json:"isConfident"`
	Description               string              `json:"description"`
	Cause                     string              `json:"cause"`
	Symptoms                  []string            `json:"symptoms"`
	Treatments                []string            `json:"treatments"`
	OrganicTreatments         []OrganicTreatment  `json:"organicTreatments"`
	ChemicalTreatments        []ChemicalTreatment `json:"chemicalTreatments"`
	Prevention                []string            `json:"prevention"`
	PesticideProducts         []PesticideProduct  `json:"pesticideProducts"`
	LowConfidenceAlternatives []Alternative       `json:"lowConfidenceAlternatives"`
	Message                   string              `json:"message,omitempty"`
}

// Confidence01 returns the confidence on the 0-1 scale.
func (r DiseaseReport) Confidence01() float64 {
	return r.Confidence / 100
}

// HasDetail reports whether the high-confidence detail block carries content.
func (r DiseaseReport) HasDetail() bool {
	return r.Description != "" || r.Cause != "" || len(r.Symptoms) > 0 ||
		len(r.Treatments) > 0 || len(r.OrganicTreatments) > 0 ||
		len(r.ChemicalTreatments) > 0 || len(r.Prevention) > 0 ||
		len(r.PesticideProducts) > 0
}

// Scan is a persisted detection. Records are immutable once written.
type Scan struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId,omitempty"`
	Image            []byte        `json:"-"`
	Filename         string        `json:"filename"`
	MimeType         string        `json:"mimeType"`
	Report           DiseaseReport `json:"report"`
	Source           Source        `json:"source"`
	Language         string        `json:"language"`
	Threshold        float64       `json:"threshold"`
	ProcessingTimeMs int64         `json:"processingTimeMs"`
	Status           string        `json:"status"`
	ErrorMessage     string        `json:"errorMessage,omitempty"`
	ModelVersion     string        `json:"modelVersion"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// ScanSummary counts a user's stored scans.
type ScanSummary struct {
	TotalScans          int `json:"totalScans"`
	TodayScans          int `json:"todayScans"`
	HighConfidenceScans int `json:"highConfidenceScans"`
}

// AccuracyRate is the share of confident scans in percent, rounded to one
// decimal. It is 0 without scans.
func (s ScanSummary) AccuracyRate() float64 {
	if s.TotalScans == 0 {
		return 0
	}
	return math.Round(float64(s.HighConfidenceScans)*1000/float64(s.TotalScans)) / 10
}

// ClassCount is one row of per-class statistics.
type ClassCount struct {
	DiseaseClass string `json:"diseaseClass"`
	Count        int    `json:"count"`
}
