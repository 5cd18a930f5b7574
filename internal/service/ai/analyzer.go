package ai

import (
	"fmt"
	"strings"
	"sync"

	"agrorelay/internal/model"
)

// Analyzer names accepted by New.
const (
	AnalyzerStub      = "stub"
	AnalyzerHeuristic = "heuristic"
)

// Hints carry request context that some analyzers use, such as the crop the
// operator said is in frame.
type Hints struct {
	Crop string
}

// Analyzer maps image bytes to a small structured result. Implementations
// are not required to be safe for concurrent use; wrap them in Guarded.
type Analyzer interface {
	Analyze(image []byte, hints Hints) (model.Result, error)
}

// New returns the analyzer registered under name.
func New(name string) (Analyzer, error) {
	switch strings.ToLower(name) {
	case AnalyzerStub:
		return StubAnalyzer{}, nil
	case AnalyzerHeuristic, "":
		return NewHeuristicAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer %q", name)
	}
}

// StubAnalyzer answers with constants until a trained model is plugged in.
type StubAnalyzer struct{}

func (StubAnalyzer) Analyze(_ []byte, _ Hints) (model.Result, error) {
	return model.Result{
		model.ResultKeyCropType:   "unknown",
		model.ResultKeyStatus:     "not trained yet",
		model.ResultKeyConfidence: 0.0,
	}, nil
}

// Guarded serializes every call into the wrapped analyzer behind a single
// process-wide mutex and turns errors and panics into model.ErrorResult.
type Guarded struct {
	mu    sync.Mutex
	inner Analyzer
}

// NewGuarded wraps inner.
func NewGuarded(inner Analyzer) *Guarded {
	return &Guarded{inner: inner}
}

// Analyze never fails: a broken image produces a result with status "error".
func (g *Guarded) Analyze(image []byte, hints Hints) (result model.Result) {
	g.mu.Lock()
	defer g.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			result = model.ErrorResult(fmt.Errorf("analyzer panic: %v", r))
		}
	}()

	res, err := g.inner.Analyze(image, hints)
	if err != nil {
		return model.ErrorResult(err)
	}
	if res == nil {
		return model.ErrorResult(fmt.Errorf("analyzer returned no result"))
	}
	return res
}
