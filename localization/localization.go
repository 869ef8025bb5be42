// Package localization rewrites report text for a target language using
// static exact-match tables. Unmatched strings pass through unchanged.
package localization

import (
	"strings"

	"farmcare/models"
)

// Language is a supported response language.
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"

	// Base is the language reports are produced in.
	Base = English
)

// Parse maps a request tag to a Language. Unknown tags fall back to Base.
func Parse(tag string) Language {
	if lang, ok := Lookup(tag); ok {
		return lang
	}
	return Base
}

// Lookup maps a request tag to a Language and reports whether the tag is
// recognised.
func Lookup(tag string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "hi", "hindi", "hi-in":
		return Hindi, true
	case "en", "english", "en-us", "en-in", "base":
		return English, true
	default:
		return Base, false
	}
}

// IsBase reports whether l needs no translation.
func (l Language) IsBase() bool {
	return l == Base || l == ""
}

// Code is the short tag stored with scans.
func (l Language) Code() string {
	if l == Hindi {
		return "hi"
	}
	return "en"
}

// Text translates one string.
func Text(s string, lang Language) string {
	if lang != Hindi {
		return s
	}
	if t, ok := hindi[s]; ok {
		return t
	}
	return s
}

// Message translates a handler message.
func Message(s string, lang Language) string {
	return Text(s, lang)
}

// Translate returns a copy of r with every displayable leaf string
// translated. DiseaseClass is left as a vocabulary label and list lengths
// are preserved. The base language returns r unchanged.
func Translate(r models.DiseaseReport, lang Language) models.DiseaseReport {
	if lang != Hindi {
		return r
	}

	out := r
	out.PlantType = lookup(hindiPlants, r.PlantType)
	out.DisplayName = className(r.DisplayName)
	out.Description = Text(r.Description, lang)
	out.Cause = Text(r.Cause, lang)
	out.Message = Text(r.Message, lang)
	out.Symptoms = texts(r.Symptoms, lang)
	out.Treatments = texts(r.Treatments, lang)
	out.Prevention = texts(r.Prevention, lang)

	if r.OrganicTreatments != nil {
		out.OrganicTreatments = make([]models.OrganicTreatment, len(r.OrganicTreatments))
		for i, t := range r.OrganicTreatments {
			out.OrganicTreatments[i] = models.OrganicTreatment{
				Title:       Text(t.Title, lang),
				Description: Text(t.Description, lang),
			}
		}
	}
	if r.ChemicalTreatments != nil {
		out.ChemicalTreatments = make([]models.ChemicalTreatment, len(r.ChemicalTreatments))
		for i, t := range r.ChemicalTreatments {
			out.ChemicalTreatments[i] = models.ChemicalTreatment{
				ActiveIngredient: Text(t.ActiveIngredient, lang),
				Usage:            Text(t.Usage, lang),
				Caution:          Text(t.Caution, lang),
			}
		}
	}
	if r.PesticideProducts != nil {
		out.PesticideProducts = make([]models.PesticideProduct, len(r.PesticideProducts))
		for i, p := range r.PesticideProducts {
			p.Type = Text(p.Type, lang)
			out.PesticideProducts[i] = p
		}
	}
	if r.LowConfidenceAlternatives != nil {
		out.LowConfidenceAlternatives = make([]models.Alternative, len(r.LowConfidenceAlternatives))
		for i, a := range r.LowConfidenceAlternatives {
			out.LowConfidenceAlternatives[i] = models.Alternative{
				DiseaseClass:  a.DiseaseClass,
				DisplayName:   className(a.DisplayName),
				PreventionTip: Text(a.PreventionTip, lang),
			}
		}
	}
	return out
}

// PlantName translates a plant type.
func PlantName(s string, lang Language) string {
	if lang != Hindi {
		return s
	}
	return lookup(hindiPlants, s)
}

// Texts translates every string of in. The result has the same length.
func Texts(in []string, lang Language) []string {
	return texts(in, lang)
}

func className(s string) string {
	if t, ok := hindiClasses[s]; ok {
		return t
	}
	return s
}

func lookup(table map[string]string, s string) string {
	if t, ok := table[s]; ok {
		return t
	}
	return s
}

func texts(in []string, lang Language) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Text(s, lang)
	}
	return out
}
