// Package vocab holds the closed vocabulary of plant disease class labels
// shared by the local classifier, the remote vision adapter and the normalizer.
package vocab

import (
	"strings"
)

const (
	// Unknown is returned when a label cannot be matched to the vocabulary.
	Unknown = "Unknown"

	// Error markers identify report-shaped failure records.
	PredictionError = "PREDICTION_ERROR"
	APIError        = "API_ERROR"
	ClientError     = "CLIENT_ERROR"

	classSeparator = "___"
)

// Classes is the fixed list of recognised labels, in model output order.
var Classes = []string{
	"Apple___Apple_scab", "Apple___Black_rot", "Apple___Cedar_apple_rust", "Apple___healthy",
	"Blueberry___healthy", "Cherry_(including_sour)___Powdery_mildew", "Cherry_(including_sour)___healthy",
	"Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot", "Corn_(maize)___Common_rust_",
	"Corn_(maize)___Northern_Leaf_Blight", "Corn_(maize)___healthy",
	"Grape___Black_rot", "Grape___Esca_(Black_Measles)", "Grape___Leaf_blight_(Isariopsis_Leaf_Spot)",
	"Grape___healthy", "Orange___Haunglongbing_(Citrus_greening)", "Peach___Bacterial_spot",
	"Peach___healthy", "Pepper,_bell___Bacterial_spot", "Pepper,_bell___healthy",
	"Potato___Early_blight", "Potato___Late_blight", "Potato___healthy",
	"Raspberry___healthy", "Soybean___healthy", "Squash___Powdery_mildew",
	"Strawberry___Leaf_scorch", "Strawberry___healthy", "Tomato___Bacterial_spot",
	"Tomato___Early_blight", "Tomato___Late_blight", "Tomato___Leaf_Mold",
	"Tomato___Septoria_leaf_spot", "Tomato___Spider_mites Two-spotted_spider_mite",
	"Tomato___Target_Spot", "Tomato___Tomato_Yellow_Leaf_Curl_Virus", "Tomato___Tomato_mosaic_virus",
	"Tomato___healthy",
}

var (
	known      = make(map[string]struct{}, len(Classes))
	normalized = make([]string, len(Classes))
)

func init() {
	for i, c := range Classes {
		known[c] = struct{}{}
		normalized[i] = fold(c)
	}
}

// IsKnown reports whether label is an exact vocabulary member.
func IsKnown(label string) bool {
	_, ok := known[label]
	return ok
}

// IsErrorMarker reports whether label marks a failure record.
func IsErrorMarker(label string) bool {
	switch label {
	case PredictionError, APIError, ClientError:
		return true
	}
	return false
}

// IsSentinel reports whether label is Unknown or an error marker.
func IsSentinel(label string) bool {
	return label == Unknown || IsErrorMarker(label)
}

// Coerce maps an arbitrary label onto the vocabulary. Exact members are
// returned as is, otherwise the first entry containing the folded label wins.
// Error markers pass through so failure records keep their meaning.
func Coerce(label string) string {
	label = strings.TrimSpace(label)
	if IsKnown(label) || IsErrorMarker(label) {
		return label
	}
	needle := fold(label)
	if needle == "" || needle == fold(Unknown) {
		return Unknown
	}
	for i, hay := range normalized {
		if strings.Contains(hay, needle) {
			return Classes[i]
		}
	}
	return Unknown
}

// PlantType derives the plant from a "<Plant>___<Disease>" label.
func PlantType(label string) string {
	if IsSentinel(label) {
		return ""
	}
	plant, _, found := strings.Cut(label, classSeparator)
	if !found {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(plant, "_", " "))
}

// IsHealthy reports whether label names a healthy plant class.
func IsHealthy(label string) bool {
	return strings.HasSuffix(label, classSeparator+"healthy")
}

// FindIn returns the first vocabulary member that appears literally in text.
func FindIn(text string) (string, bool) {
	for _, c := range Classes {
		if strings.Contains(text, c) {
			return c, true
		}
	}
	return "", false
}

// fold lowercases s, turns underscores into spaces and collapses whitespace.
func fold(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	return strings.Join(strings.Fields(s), " ")
}
