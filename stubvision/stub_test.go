package stubvision

import (
	"context"
	"testing"

	"farmcare/gemini"
	"farmcare/normalizer"
	"farmcare/parser"
	"farmcare/vocab"
)

func TestGenerateIsDeterministicAndParsable(t *testing.T) {
	c := NewClient()
	req := gemini.Request{Image: []byte("leaf")}

	a, err := c.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Generate(context.Background(), req)
	if a != b {
		t.Error("stub output differs for the same image")
	}

	res := parser.Parse(a)
	h, ok := res.Shape.(normalizer.NestedHigh)
	if !ok || res.Outcome.Kind != parser.Clean {
		t.Fatalf("Parse = %T / %v", res.Shape, res.Outcome.Kind)
	}
	if !vocab.IsKnown(h.Result.DiseaseName) {
		t.Errorf("class %q is not in the vocabulary", h.Result.DiseaseName)
	}
	if s := *h.Result.Score; s < 70 || s >= 100 {
		t.Errorf("score = %v", s)
	}
}
