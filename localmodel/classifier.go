// Package localmodel wraps the in-process plant disease classifier. The
// underlying scorer is loaded on first use; a failed load is remembered and
// never retried, so callers fall through to the remote adapter cheaply.
package localmodel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/apex/log"

	"farmcare/image"
	"farmcare/vocab"
)

// LoadTimeout bounds a single load. The load is detached from the request
// that triggered it, so a caller going away does not disable the model.
const LoadTimeout = 30 * time.Second

// ErrUnavailable is returned whenever the classifier cannot produce a
// prediction. Callers escalate on it and never surface it.
var ErrUnavailable = errors.New("local model unavailable")

// Scorer produces a probability vector over vocab.Classes.
type Scorer interface {
	Predict(ctx context.Context, t image.Tensor) ([]float64, error)
}

// Loader constructs the scorer. It is called at most once per Classifier.
type Loader func(ctx context.Context) (Scorer, error)

// State is the lifecycle state of the underlying model.
type State int32

const (
	Unloaded State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unloaded"
	}
}

// Prediction is the argmax class and its probability as a percentage.
type Prediction struct {
	Class      string
	Confidence float64
}

// Classifier is safe for concurrent use.
type Classifier struct {
	load Loader
	size int

	mu      sync.Mutex
	state   State
	scorer  Scorer
	loadErr error
}

// New returns a classifier that loads its scorer lazily with load. A nil
// loader yields a classifier that is always unavailable.
func New(load Loader) *Classifier {
	return &Classifier{load: load, size: image.ModelInputSize}
}

// State reports the current model state.
func (c *Classifier) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Version returns the loaded model version when the scorer exposes one.
func (c *Classifier) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.scorer.(interface{ Version() string }); ok {
		return v.Version()
	}
	return ""
}

// ensureLoaded runs the loader once. The lock is held for the whole load so
// concurrent first callers wait instead of loading twice.
func (c *Classifier) ensureLoaded(ctx context.Context) (Scorer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Loaded:
		return c.scorer, nil
	case Failed:
		return nil, c.loadErr
	}

	if c.load == nil {
		c.state = Failed
		c.loadErr = errors.New("no loader configured")
		return nil, c.loadErr
	}
	// A caller that is already gone leaves the model unloaded.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
	defer cancel()
	scorer, err := safeLoad(loadCtx, c.load)
	if err == nil && scorer == nil {
		err = errors.New("loader returned no scorer")
	}
	if err != nil {
		c.state = Failed
		c.loadErr = err
		log.Warnf("Local model failed to load, disabling: %v", err)
		return nil, err
	}
	c.state = Loaded
	c.scorer = scorer
	log.Info("Local model loaded")
	return scorer, nil
}

// Classify predicts the class of an encoded image. Every failure, including
// a panic inside the scorer, is reported as ErrUnavailable.
func (c *Classifier) Classify(ctx context.Context, data []byte) (p Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = Prediction{}
			err = fmt.Errorf("%w: scorer panic: %v", ErrUnavailable, r)
		}
	}()

	scorer, err := c.ensureLoaded(ctx)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tensor, err := image.Preprocess(data, c.size)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: preprocess: %v", ErrUnavailable, err)
	}

	probs, err := scorer.Predict(ctx, tensor)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: predict: %v", ErrUnavailable, err)
	}

	idx, best, err := argmax(probs)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Prediction{Class: vocab.Classes[idx], Confidence: best * 100}, nil
}

func safeLoad(ctx context.Context, load Loader) (s Scorer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	return load(ctx)
}

func argmax(probs []float64) (int, float64, error) {
	if len(probs) != len(vocab.Classes) {
		return 0, 0, fmt.Errorf("probability vector has %d entries, want %d", len(probs), len(vocab.Classes))
	}
	idx := 0
	for i, v := range probs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("non-finite probability at index %d", i)
		}
		if v > probs[idx] {
			idx = i
		}
	}
	return idx, probs[idx], nil
}
