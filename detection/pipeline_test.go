package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmcare/arbiter"
	"farmcare/gemini"
	"farmcare/localization"
	"farmcare/localmodel"
	"farmcare/models"
	"farmcare/normalizer"
	"farmcare/parser"
	"farmcare/vision"
	"farmcare/vocab"
)

type fakeClassifier struct {
	pred  localmodel.Prediction
	err   error
	calls int
}

func (f *fakeClassifier) Classify(context.Context, []byte) (localmodel.Prediction, error) {
	f.calls++
	return f.pred, f.err
}

func (f *fakeClassifier) State() localmodel.State {
	if f.err != nil {
		return localmodel.Failed
	}
	return localmodel.Loaded
}

func (f *fakeClassifier) Version() string { return "plant/3" }

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(context.Context, gemini.Request) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeStore struct {
	saved   []*models.Scan
	pruned  map[string]int
	saveErr error
}

func (f *fakeStore) SaveScan(_ context.Context, s *models.Scan) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeStore) PruneScans(_ context.Context, userID string, keep int) error {
	if f.pruned == nil {
		f.pruned = map[string]int{}
	}
	f.pruned[userID] = keep
	return nil
}

type fakePublisher struct {
	events []*models.Scan
	err    error
}

func (f *fakePublisher) PublishScan(_ context.Context, s *models.Scan) error {
	f.events = append(f.events, s)
	return f.err
}

const truncatedScab = `{"isConfident": true, "highConfidenceResult": {"diseaseName": "Apple___Apple_scab", "description": "Fungal disease", "confidenceScore": 88, "symptoms": ["Olive spots"]`

func newPipeline(local Classifier, gen vision.Generator) *Pipeline {
	return &Pipeline{
		Local:       local,
		Remote:      vision.New(gen),
		Thresholds:  arbiter.Defaults(),
		RemoteModel: "gemini-2.5-pro",
	}
}

func TestLowLocalConfidenceEscalatesAndRepairs(t *testing.T) {
	local := &fakeClassifier{pred: localmodel.Prediction{Class: "Apple___Black_rot", Confidence: 12}}
	gen := &fakeGenerator{reply: truncatedScab}

	out := newPipeline(local, gen).Detect(context.Background(), Request{Image: []byte("leaf"), Language: localization.Parse("base")})

	assert.Equal(t, 1, gen.calls, "remote tier must be consulted")
	assert.Equal(t, models.SourceRemote, out.Source)
	assert.Equal(t, parser.Repaired, out.Parse.Kind)
	assert.Equal(t, 2, out.Parse.AddedBraces)
	assert.Equal(t, models.StatusCompleted, out.Status)

	r := out.Report
	assert.Equal(t, "Apple___Apple_scab", r.DiseaseClass)
	assert.Equal(t, "Apple", r.PlantType)
	assert.Equal(t, 88.0, r.Confidence)
	assert.True(t, r.IsConfident)
	assert.Empty(t, r.LowConfidenceAlternatives)
	assert.Equal(t, localization.Translate(r, localization.English), r, "base language leaves the report unchanged")
}

func TestConfidentLocalSkipsRemote(t *testing.T) {
	local := &fakeClassifier{pred: localmodel.Prediction{Class: "Tomato___Late_blight", Confidence: 15}}
	gen := &fakeGenerator{reply: truncatedScab}
	store := &fakeStore{}
	p := newPipeline(local, gen)
	p.Store = store

	out := p.Detect(context.Background(), Request{Image: []byte("leaf"), UserID: "u-1", Save: true})

	assert.Zero(t, gen.calls)
	assert.Equal(t, models.SourceLocal, out.Source)
	assert.Equal(t, "Tomato___Late_blight", out.Report.DiseaseClass)
	assert.Equal(t, 15.0, out.Report.Confidence)
	assert.False(t, out.Report.IsConfident, "15 is below the report threshold")
	assert.NotEmpty(t, out.Report.Symptoms, "knowledge base fills local reports")

	require.Len(t, store.saved, 1)
	assert.Equal(t, "plant/3", store.saved[0].ModelVersion)
	assert.Equal(t, out.ScanID, store.saved[0].ID)
	assert.Equal(t, DefaultMaxScansPerUser, store.pruned["u-1"])
}

func TestUnavailableLocalEscalates(t *testing.T) {
	local := &fakeClassifier{err: localmodel.ErrUnavailable}
	gen := &fakeGenerator{reply: `{"class": "Grape___Black_rot", "confidence": 0.9}`}

	out := newPipeline(local, gen).Detect(context.Background(), Request{Image: []byte("leaf")})
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "Grape___Black_rot", out.Report.DiseaseClass)
	assert.Equal(t, 90.0, out.Report.Confidence)
}

func TestNoCandidatesYieldsErrorReport(t *testing.T) {
	gen := &fakeGenerator{err: gemini.ErrNoCandidates}
	store := &fakeStore{}
	p := newPipeline(nil, gen)
	p.Store = store

	var out Outcome
	require.NotPanics(t, func() {
		out = p.Detect(context.Background(), Request{Image: []byte("leaf"), UserID: "u-2", Save: true})
	})

	assert.Equal(t, models.SourceError, out.Source)
	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Equal(t, vocab.APIError, out.Report.DiseaseClass)
	assert.Zero(t, out.Report.Confidence)
	assert.False(t, out.Report.IsConfident)
	assert.Equal(t, "API did not return a valid response", out.Report.Message)
	assert.True(t, normalizer.IsFailure(out.Report))

	require.Len(t, store.saved, 1)
	assert.Equal(t, models.StatusFailed, store.saved[0].Status)
	assert.Equal(t, "API did not return a valid response", store.saved[0].ErrorMessage)
	assert.Equal(t, DefaultMaxScansPerUser, store.pruned["u-2"])
}

func TestAnonymousScansAreNotStored(t *testing.T) {
	gen := &fakeGenerator{reply: truncatedScab}
	store := &fakeStore{}
	pub := &fakePublisher{}
	p := newPipeline(nil, gen)
	p.Store = store
	p.Publisher = pub

	out := p.Detect(context.Background(), Request{Image: []byte("leaf"), Save: true})

	assert.Equal(t, models.StatusCompleted, out.Status)
	assert.Equal(t, "Apple___Apple_scab", out.Report.DiseaseClass)
	assert.Empty(t, out.ScanID)
	assert.Empty(t, store.saved, "anonymous uploads must not reach the store")
	assert.Empty(t, store.pruned)
	assert.Empty(t, pub.events)
}

func TestRequestThresholdDecidesConfidence(t *testing.T) {
	gen := &fakeGenerator{reply: `{"class": "Potato___Early_blight", "confidence": 60}`}
	p := newPipeline(nil, gen)

	assert.False(t, p.Detect(context.Background(), Request{Image: []byte("x")}).Report.IsConfident)
	assert.True(t, p.Detect(context.Background(), Request{Image: []byte("x"), Threshold: arbiter.ScanThreshold}).Report.IsConfident)
}

func TestHindiReportIsTranslatedButStoredInBase(t *testing.T) {
	gen := &fakeGenerator{reply: truncatedScab}
	store := &fakeStore{}
	p := newPipeline(nil, gen)
	p.Store = store

	out := p.Detect(context.Background(), Request{Image: []byte("leaf"), UserID: "u-1", Language: localization.Hindi, Save: true})
	assert.Equal(t, "Apple___Apple_scab", out.Report.DiseaseClass)
	assert.Equal(t, "सेब", out.Report.PlantType)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "Apple", store.saved[0].Report.PlantType)
	assert.Equal(t, "hi", store.saved[0].Language)
}

func TestStoreAndPublishFailuresAreSwallowed(t *testing.T) {
	gen := &fakeGenerator{reply: truncatedScab}
	pub := &fakePublisher{}
	p := newPipeline(nil, gen)
	p.Store = &fakeStore{saveErr: errors.New("db down")}
	p.Publisher = pub

	out := p.Detect(context.Background(), Request{Image: []byte("leaf"), UserID: "u-1", Save: true})
	assert.Equal(t, models.StatusCompleted, out.Status)
	assert.Empty(t, out.ScanID)
	assert.Empty(t, pub.events, "unsaved scans are not announced")

	p.Store = &fakeStore{}
	pub.err = errors.New("broker down")
	out = p.Detect(context.Background(), Request{Image: []byte("leaf"), UserID: "u-1", Save: true})
	assert.NotEmpty(t, out.ScanID)
	assert.Len(t, pub.events, 1)
}

func TestMissingRemoteTier(t *testing.T) {
	p := &Pipeline{Thresholds: arbiter.Defaults()}
	out := p.Detect(context.Background(), Request{Image: []byte("leaf")})
	assert.Equal(t, vocab.ClientError, out.Report.DiseaseClass)
	assert.Equal(t, models.StatusFailed, out.Status)
}
