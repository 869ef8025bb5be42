// Package parser turns raw vision-model text into a normalizer.Shape.
//
// Parsing is best effort: truncated replies are repaired by appending
// closing braces, markdown fences are stripped, and if the JSON still does
// not decode the text is scanned for a class label. Every input yields a
// shape; unusable text yields a normalizer.Failure.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/apex/log"

	"farmcare/normalizer"
	"farmcare/vocab"
)

// MaxRepairBraces bounds truncation repair. Replies missing more closing
// braces than this fall through to the text scan.
const MaxRepairBraces = 16

// Kind classifies how a reply was parsed.
type Kind string

const (
	Clean     Kind = "clean"
	Repaired  Kind = "repaired"
	Recovered Kind = "recovered"
	Failed    Kind = "failed"
)

// Outcome records how the reply was handled.
type Outcome struct {
	Kind        Kind
	AddedBraces int
}

// Result is the parsed shape and its outcome.
type Result struct {
	Shape   normalizer.Shape
	Outcome Outcome
}

var (
	jsonFence  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	plainFence = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	openFence  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	classField = regexp.MustCompile(`"(?:class|diseaseName|disease_name)"\s*:\s*"([^"]*)`)
)

// Parse never fails; the returned shape is always usable by the normalizer.
func Parse(raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return failure("Empty response from vision service")
	}

	repaired, added := RepairTruncated(text)
	if added > 0 {
		log.Warnf("Vision response looks truncated, appended %d closing brace(s)", added)
	}

	if shape, ok := decode(StripFences(repaired)); ok {
		kind := Clean
		if added > 0 {
			kind = Repaired
		}
		return Result{Shape: shape, Outcome: Outcome{Kind: kind, AddedBraces: added}}
	}

	if class, ok := scan(text); ok {
		log.Warnf("Vision response is not usable JSON, recovered class %s from text", class)
		return Result{
			Shape:   normalizer.Recovered{Class: class, Confidence: normalizer.RecoveredConfidence},
			Outcome: Outcome{Kind: Recovered},
		}
	}

	log.Errorf("Failed to parse vision response: %.200s", text)
	return failure("Could not process the image")
}

func failure(msg string) Result {
	return Result{
		Shape:   normalizer.Failure{Class: vocab.PredictionError, Message: msg},
		Outcome: Outcome{Kind: Failed},
	}
}

// RepairTruncated appends the missing closing braces to text that does not
// end with one. Braces inside JSON strings are ignored. It returns the text
// unchanged when nothing is missing or more than MaxRepairBraces would be
// needed.
func RepairTruncated(text string) (string, int) {
	if strings.HasSuffix(text, "}") {
		return text, 0
	}
	n := unmatchedBraces(text)
	if n < 1 || n > MaxRepairBraces {
		if n > MaxRepairBraces {
			log.Warnf("Vision response is missing %d closing braces, not repairing", n)
		}
		return text, 0
	}
	return text + strings.Repeat("}", n), n
}

func unmatchedBraces(text string) int {
	depth := 0
	inString, escaped := false, false
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}

// StripFences extracts the JSON from a markdown code block. A dangling
// opening fence is dropped and prose around a bare object is trimmed.
func StripFences(text string) string {
	if strings.Contains(text, "```json") {
		if m := jsonFence.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if strings.Contains(text, "```") {
		if m := plainFence.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	text = strings.TrimSpace(openFence.ReplaceAllString(text, ""))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

// scan looks for a class label in text that did not decode. Literal
// vocabulary members win over a coerced class field value.
func scan(text string) (string, bool) {
	if class, ok := vocab.FindIn(text); ok {
		return class, true
	}
	if m := classField.FindStringSubmatch(text); m != nil {
		if class := vocab.Coerce(m[1]); vocab.IsKnown(class) {
			return class, true
		}
	}
	return "", false
}

// decode classifies a JSON object into one of the historical shapes.
func decode(body string) (normalizer.Shape, bool) {
	var obj object
	if err := json.Unmarshal([]byte(body), &obj); err != nil || len(obj) == 0 {
		return nil, false
	}

	var claimed flag
	obj.get(&claimed, "isConfident", "is_confident")
	var alts LowList
	obj.get(&alts, "lowConfidenceResults", "low_confidence_results")

	var high object
	if obj.get(&high, "highConfidenceResult", "high_confidence_result") && len(high) > 0 {
		result := decodeHigh(high)
		var links LinkList
		if high.get(&links, "indianBuyingLinks") || obj.get(&links, "indianBuyingLinks") {
			return normalizer.BuyingLinks{
				Claimed:      bool(claimed),
				Result:       result,
				Links:        links,
				Alternatives: alts,
			}, true
		}
		return normalizer.NestedHigh{Claimed: bool(claimed), Result: result, Alternatives: alts}, true
	}

	if len(alts) > 0 {
		var score Score
		obj.get(&score, "confidenceScore", "confidence")
		return normalizer.NestedLow{Results: alts, Score: score.ptr()}, true
	}

	var class Text
	if obj.get(&class, "class", "diseaseName", "disease") && class != "" {
		return decodeFlat(obj, string(class)), true
	}
	return nil, false
}

func decodeHigh(o object) normalizer.HighResult {
	var (
		name, desc, cause    Text
		score                Score
		symptoms, prevention StringList
		organic              OrganicList
		chemical             ChemicalList
		products             ProductList
	)
	o.get(&name, "diseaseName", "disease_name", "class", "name")
	o.get(&desc, "description", "diseaseDescription")
	o.get(&cause, "cause", "occurrenceReason", "whyOccurs")
	o.get(&score, "confidenceScore", "confidence_score", "confidence")
	o.get(&symptoms, "symptoms")
	o.get(&organic, "organicTreatments", "organicTreatment")
	o.get(&chemical, "chemicalTreatments", "chemicalTreatment")
	o.get(&prevention, "prevention")
	o.get(&products, "pesticideProducts", "pesticide_products")

	return normalizer.HighResult{
		DiseaseName: string(name),
		Description: string(desc),
		Cause:       string(cause),
		Score:       score.ptr(),
		Symptoms:    symptoms,
		Organic:     organic,
		Chemical:    chemical,
		Prevention:  prevention,
		Products:    products,
	}
}

func decodeFlat(o object, class string) normalizer.Flat {
	var (
		plant, desc, cause              Text
		score                           Score
		symptoms, treatment, prevention StringList
		organic                         OrganicList
		chemical                        ChemicalList
		products                        ProductList
		india                           IndiaProductList
	)
	o.get(&score, "confidence", "confidenceScore")
	o.get(&plant, "plant_type", "plantType")
	o.get(&desc, "description")
	o.get(&cause, "cause")
	o.get(&symptoms, "symptoms")
	o.get(&treatment, "treatment", "treatments")
	o.get(&prevention, "prevention")
	o.get(&organic, "organic_treatments", "organicTreatments")
	o.get(&chemical, "chemical_treatments", "chemicalTreatments")
	o.get(&products, "pesticide_products", "pesticideProducts")
	o.get(&india, "india_specific_products")

	return normalizer.Flat{
		Class:         class,
		Confidence:    score.Value,
		PlantType:     string(plant),
		Description:   string(desc),
		Cause:         string(cause),
		Symptoms:      symptoms,
		Treatment:     treatment,
		Prevention:    prevention,
		Organic:       organic,
		Chemical:      chemical,
		Products:      products,
		IndiaProducts: india,
	}
}
