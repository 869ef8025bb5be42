// Package detection runs one image through the local classifier, the remote
// vision model when the local result is not good enough, and the normalizer.
package detection

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"farmcare/arbiter"
	"farmcare/image"
	"farmcare/localization"
	"farmcare/localmodel"
	"farmcare/metrics"
	"farmcare/models"
	"farmcare/normalizer"
	"farmcare/parser"
	"farmcare/vision"
	"farmcare/vocab"
)

// DefaultMaxScansPerUser is how many scans are kept per user.
const DefaultMaxScansPerUser = 10

// Classifier is the local tier.
type Classifier interface {
	Classify(ctx context.Context, data []byte) (localmodel.Prediction, error)
	State() localmodel.State
	Version() string
}

// Analyzer is the remote tier. It never fails; errors come back as a
// normalizer.Failure shape.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, mimeType string, lang localization.Language) vision.Result
}

// Store persists finished scans.
type Store interface {
	SaveScan(ctx context.Context, s *models.Scan) error
	PruneScans(ctx context.Context, userID string, keep int) error
}

// Publisher announces finished scans.
type Publisher interface {
	PublishScan(ctx context.Context, s *models.Scan) error
}

// Request is one uploaded image.
type Request struct {
	Image    []byte
	Filename string
	MimeType string
	Language localization.Language
	UserID   string
	// Threshold is the display threshold; zero means Thresholds.Report.
	Threshold float64
	// Save stores the scan and publishes its event.
	Save bool
}

// Outcome is the localized report and how it was produced.
type Outcome struct {
	Report         models.DiseaseReport
	Source         models.Source
	Parse          parser.Outcome
	ScanID         string
	Status         string
	ModelVersion   string
	CreatedAt      time.Time
	ProcessingTime time.Duration
}

// Pipeline wires the tiers together. Local, Store and Publisher are
// optional.
type Pipeline struct {
	Local       Classifier
	Remote      Analyzer
	Store       Store
	Publisher   Publisher
	Thresholds  arbiter.Thresholds
	RemoteModel string
	// MaxScansPerUser defaults to DefaultMaxScansPerUser.
	MaxScansPerUser int
}

// Detect never returns an error. Failures of either tier end up in the
// report; storage and publish failures are logged and counted.
func (p *Pipeline) Detect(ctx context.Context, req Request) Outcome {
	start := time.Now()
	if req.MimeType == "" {
		req.MimeType = image.DetectMimeType(req.Image)
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = p.Thresholds.Report
	}

	shape, parsed, version := p.classify(ctx, req)
	source := normalizer.Source(shape)

	report := normalizer.Normalize(shape, threshold)
	status := models.StatusCompleted
	if normalizer.IsFailure(report) {
		status = models.StatusFailed
	}
	elapsed := time.Since(start)

	scan := &models.Scan{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		Image:            req.Image,
		Filename:         req.Filename,
		MimeType:         req.MimeType,
		Report:           report,
		Source:           source,
		Language:         req.Language.Code(),
		Threshold:        threshold,
		ProcessingTimeMs: elapsed.Milliseconds(),
		Status:           status,
		ModelVersion:     version,
		CreatedAt:        time.Now().UTC(),
	}
	if status == models.StatusFailed {
		scan.ErrorMessage = report.Message
	}

	out := Outcome{
		Report:         localization.Translate(report, req.Language),
		Source:         source,
		Parse:          parsed,
		Status:         status,
		ModelVersion:   version,
		CreatedAt:      scan.CreatedAt,
		ProcessingTime: elapsed,
	}
	if req.Save && p.persist(ctx, scan) {
		out.ScanID = scan.ID
		p.publish(ctx, scan)
	}

	metrics.DetectionsTotal.WithLabelValues(string(source), status).Inc()
	metrics.DetectionDurationSeconds.WithLabelValues(string(source)).Observe(elapsed.Seconds())
	log.WithFields(log.Fields{
		"class":      report.DiseaseClass,
		"confidence": report.Confidence,
		"source":     source,
		"parse":      parsed.Kind,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("Detection finished")
	return out
}

// classify returns the local prediction when the arbiter accepts it and the
// remote result otherwise.
func (p *Pipeline) classify(ctx context.Context, req Request) (normalizer.Shape, parser.Outcome, string) {
	if p.Local != nil {
		pred, err := p.Local.Classify(ctx, req.Image)
		metrics.LocalModelState.Set(float64(p.Local.State()))
		switch {
		case err != nil:
			if errors.Is(err, localmodel.ErrUnavailable) {
				log.Debugf("Local model unavailable, escalating: %v", err)
			} else {
				log.Warnf("Local classification failed, escalating: %v", err)
			}
		case pred.Class == vocab.PredictionError:
			log.Warn("Local model returned a prediction error, escalating")
		case !arbiter.ShouldUseLocal(pred.Confidence, p.Thresholds.Local):
			log.Infof("Local confidence %.2f%% below %.0f%% for %s, escalating", pred.Confidence, p.Thresholds.Local, pred.Class)
		default:
			version := p.Local.Version()
			if version == "" {
				version = "local"
			}
			return normalizer.LocalPrediction{Class: pred.Class, Confidence: pred.Confidence}, parser.Outcome{Kind: parser.Clean}, version
		}
	}

	if p.Remote == nil {
		return normalizer.Failure{Class: vocab.ClientError, Message: "Vision service is not configured"},
			parser.Outcome{Kind: parser.Failed}, ""
	}
	res := p.Remote.Analyze(ctx, req.Image, req.MimeType, req.Language)
	if res.Parse.Kind == parser.Repaired || res.Parse.Kind == parser.Recovered {
		log.Warnf("Vision reply was %s", res.Parse.Kind)
	}
	return res.Shape, res.Parse, p.RemoteModel
}

// persist stores scans of signed-in users only. Anonymous rows could never
// be listed, deleted or pruned.
func (p *Pipeline) persist(ctx context.Context, scan *models.Scan) bool {
	if p.Store == nil || scan.UserID == "" {
		return false
	}
	if err := p.Store.SaveScan(ctx, scan); err != nil {
		metrics.PersistenceErrorsTotal.Inc()
		log.Errorf("Failed to save scan %s: %v", scan.ID, err)
		return false
	}
	keep := p.MaxScansPerUser
	if keep <= 0 {
		keep = DefaultMaxScansPerUser
	}
	if err := p.Store.PruneScans(ctx, scan.UserID, keep); err != nil {
		metrics.PersistenceErrorsTotal.Inc()
		log.Warnf("Failed to prune scans for user %s: %v", scan.UserID, err)
	}
	return true
}

func (p *Pipeline) publish(ctx context.Context, scan *models.Scan) {
	if p.Publisher == nil {
		return
	}
	if err := p.Publisher.PublishScan(ctx, scan); err != nil {
		metrics.PublishErrorsTotal.Inc()
		log.Warnf("Failed to publish scan %s: %v", scan.ID, err)
	}
}
