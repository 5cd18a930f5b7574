package ai

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"agrorelay/internal/model"
)

func solidJPEG(t *testing.T, c color.RGBA, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

var (
	brown = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	green = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	red   = color.RGBA{R: 200, G: 40, B: 30, A: 255}
)

func TestStubAnalyzer(t *testing.T) {
	result, err := StubAnalyzer{}.Analyze([]byte("anything"), Hints{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result[model.ResultKeyCropType] != "unknown" || result.Status() != "not trained yet" {
		t.Errorf("Unexpected stub result: %v", result)
	}
	if result[model.ResultKeyConfidence] != 0.0 {
		t.Errorf("Expected confidence 0.0, got %v", result[model.ResultKeyConfidence])
	}
}

func TestNew(t *testing.T) {
	if a, err := New("stub"); err != nil || a == nil {
		t.Errorf("Expected stub analyzer, got %v %v", a, err)
	}
	if a, err := New("HEURISTIC"); err != nil || a == nil {
		t.Errorf("Expected heuristic analyzer, got %v %v", a, err)
	}
	if _, err := New("yolo"); err == nil {
		t.Error("Expected error for unknown analyzer")
	}
}

func TestHeuristicAnalyzer_BrownCotton(t *testing.T) {
	a := NewHeuristicAnalyzer()

	result, err := a.Analyze(solidJPEG(t, brown, 10), Hints{Crop: "cotton"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	want := model.Result{
		"crop":       "Cotton",
		"status":     "Diseased",
		"confidence": "High",
		"suggestion": "Use Neem oil or Imidacloprid pesticide",
	}
	if len(result) != len(want) {
		t.Errorf("Expected %d keys, got %v", len(want), result)
	}
	for k, v := range want {
		if result[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, result[k])
		}
	}
}

func TestHeuristicAnalyzer_GreenIsHealthy(t *testing.T) {
	a := NewHeuristicAnalyzer()

	result, err := a.Analyze(solidJPEG(t, green, 16), Hints{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Status() != "Healthy" {
		t.Errorf("Expected Healthy, got %v", result)
	}
	if result[model.ResultKeyCrop] != "Unknown" {
		t.Errorf("Expected Unknown crop, got %v", result[model.ResultKeyCrop])
	}
	if result[model.ResultKeyConfidence] != "High" {
		t.Errorf("Expected High confidence, got %v", result[model.ResultKeyConfidence])
	}
}

func TestHeuristicAnalyzer_Ripeness(t *testing.T) {
	a := NewHeuristicAnalyzer()

	tests := []struct {
		name  string
		color color.RGBA
		want  string
	}{
		{"red tomato", red, "Ripe"},
		{"green tomato", green, "Unripe"},
		{"orange tomato", color.RGBA{R: 180, G: 140, B: 40, A: 255}, "Semi-ripe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.Analyze(solidJPEG(t, tt.color, 16), Hints{Crop: "Tomato"})
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if result[model.ResultKeyRipeness] != tt.want {
				t.Errorf("Expected %s, got %v", tt.want, result[model.ResultKeyRipeness])
			}
		})
	}
}

func TestHeuristicAnalyzer_UndecodableImage(t *testing.T) {
	a := NewHeuristicAnalyzer()

	if _, err := a.Analyze([]byte("definitely not a jpeg"), Hints{}); err == nil {
		t.Error("Expected decode error")
	}
}

type failingAnalyzer struct{ err error }

func (f failingAnalyzer) Analyze([]byte, Hints) (model.Result, error) { return nil, f.err }

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze([]byte, Hints) (model.Result, error) { panic("model exploded") }

func TestGuarded_ConvertsErrors(t *testing.T) {
	g := NewGuarded(failingAnalyzer{err: errors.New("bad pixels")})

	result := g.Analyze(nil, Hints{})
	if !result.IsError() {
		t.Fatalf("Expected error result, got %v", result)
	}
	if result[model.ResultKeyConfidence] != 0.0 {
		t.Errorf("Expected confidence 0.0, got %v", result[model.ResultKeyConfidence])
	}
	if result[model.ResultKeyError] != "bad pixels" {
		t.Errorf("Expected error message, got %v", result[model.ResultKeyError])
	}
}

func TestGuarded_RecoversPanics(t *testing.T) {
	g := NewGuarded(panickingAnalyzer{})

	result := g.Analyze([]byte{1}, Hints{})
	if !result.IsError() {
		t.Errorf("Expected error result after panic, got %v", result)
	}
}

type countingAnalyzer struct {
	active  int32
	maxSeen int32
}

func (c *countingAnalyzer) Analyze([]byte, Hints) (model.Result, error) {
	n := atomic.AddInt32(&c.active, 1)
	for {
		old := atomic.LoadInt32(&c.maxSeen)
		if n <= old || atomic.CompareAndSwapInt32(&c.maxSeen, old, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&c.active, -1)
	return model.Result{"status": "ok"}, nil
}

func TestGuarded_SerializesCalls(t *testing.T) {
	inner := &countingAnalyzer{}
	g := NewGuarded(inner)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Analyze(nil, Hints{})
		}()
	}
	wg.Wait()

	if inner.maxSeen != 1 {
		t.Errorf("Expected at most one concurrent analysis, saw %d", inner.maxSeen)
	}
}
