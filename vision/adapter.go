// Package vision asks a multimodal model to diagnose a plant image and turns
// the reply into a normalizer.Shape.
package vision

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/apex/log"

	"farmcare/gemini"
	"farmcare/image"
	"farmcare/localization"
	"farmcare/metrics"
	"farmcare/normalizer"
	"farmcare/parser"
	"farmcare/vocab"
)

const noValidResponse = "API did not return a valid response"

// Generator sends one multimodal request and returns the model's text.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, r gemini.Request) (string, error)
}

// Result is the parsed reply plus the raw text it came from.
type Result struct {
	Shape normalizer.Shape
	Parse parser.Outcome
	Raw   string
}

type Adapter struct {
	gen Generator
}

func New(gen Generator) *Adapter {
	return &Adapter{gen: gen}
}

// Analyze never returns an error. Transport failures and unusable replies
// come back as a normalizer.Failure shape.
func (a *Adapter) Analyze(ctx context.Context, data []byte, mimeType string, lang localization.Language) Result {
	if a == nil || a.gen == nil {
		return failed(vocab.ClientError, "Vision service is not configured")
	}

	payload, mime := prepare(data, mimeType)

	start := time.Now()
	text, err := a.gen.Generate(ctx, gemini.Request{
		Prompt:   Prompt(lang),
		Image:    payload,
		MimeType: mime,
		Schema:   responseSchema,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RemoteCallDurationSeconds.WithLabelValues("error").Observe(elapsed)
		metrics.ParseOutcomesTotal.WithLabelValues(string(parser.Failed)).Inc()
		log.Errorf("Vision call failed after %.2fs: %v", elapsed, err)
		return fromError(err)
	}
	metrics.RemoteCallDurationSeconds.WithLabelValues("ok").Observe(elapsed)

	res := parser.Parse(text)
	metrics.ParseOutcomesTotal.WithLabelValues(string(res.Outcome.Kind)).Inc()
	return Result{Shape: res.Shape, Parse: res.Outcome, Raw: text}
}

// prepare shrinks large uploads before they are sent. The original bytes are
// used when the image cannot be decoded.
func prepare(data []byte, mimeType string) ([]byte, string) {
	if mimeType == "" {
		mimeType = image.DetectMimeType(data)
	}
	out, err := image.CompressImage(data)
	if err != nil {
		log.Warnf("Sending image uncompressed: %v", err)
		return data, mimeType
	}
	if !bytes.Equal(out, data) {
		log.Debugf("Compressed image from %d to %d bytes", len(data), len(out))
		return out, "image/jpeg"
	}
	return data, mimeType
}

func fromError(err error) Result {
	switch {
	case errors.Is(err, gemini.ErrMissingAPIKey):
		return failed(vocab.ClientError, "Error: "+err.Error())
	case errors.Is(err, gemini.ErrNoCandidates), errors.Is(err, gemini.ErrNoText):
		return failed(vocab.APIError, noValidResponse)
	default:
		return failed(vocab.APIError, "Error: "+err.Error())
	}
}

func failed(class, msg string) Result {
	return Result{
		Shape: normalizer.Failure{Class: class, Message: msg},
		Parse: parser.Outcome{Kind: parser.Failed},
	}
}
