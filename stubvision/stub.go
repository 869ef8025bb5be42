package stubvision

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"

	"farmcare/gemini"
	"farmcare/vocab"
)

// Client is a deterministic, no-network vision stub intended for CI and local end-to-end tests.
// It returns a schema-valid nested reply so parsing, normalization and storage all run.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) Model() string { return "stub" }

func (c *Client) Generate(_ context.Context, r gemini.Request) (string, error) {
	// Deterministic per image so the pipeline is stable in CI.
	sum := sha256.Sum256(r.Image)
	n := binary.BigEndian.Uint64(sum[:8])
	class := vocab.Classes[n%uint64(len(vocab.Classes))]
	score := 70 + int(n%30)

	info := vocab.InfoFor(class)
	out := map[string]any{
		"isConfident": true,
		"highConfidenceResult": map[string]any{
			"diseaseName":     class,
			"description":     "Stubbed analysis for " + info.Name,
			"cause":           "Stubbed cause",
			"confidenceScore": score,
			"symptoms":        info.Symptoms,
			"organicTreatments": []map[string]string{
				{"title": "Neem oil", "description": "Spray every 7 days"},
				{"title": "Sanitation", "description": "Remove infected leaves"},
			},
			"chemicalTreatments": []map[string]string{
				{"activeIngredient": "Mancozeb", "usage": "2 g per litre every 10 days", "caution": "Wear gloves"},
				{"activeIngredient": "Copper oxychloride", "usage": "3 g per litre", "caution": "Avoid spraying before rain"},
			},
			"prevention":        info.Prevention,
			"pesticideProducts": []map[string]string{},
		},
		"lowConfidenceResults": []map[string]string{},
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
