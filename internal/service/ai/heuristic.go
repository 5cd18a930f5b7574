package ai

import (
	"errors"
	"fmt"

	"agrorelay/internal/model"

	"gocv.io/x/gocv"
)

const (
	// DiseaseThreshold is the share of brown pixels above which a plant is reported as diseased.
	DiseaseThreshold = 0.10

	highConfidenceDiseased = 0.30
	highConfidenceHealthy  = 0.02

	ripeRedMin   = 150.0
	ripeGreenMax = 110.0
)

// Brown band on OpenCV's HSV scale (H 0..180, S and V 0..255).
var (
	brownLower = gocv.NewScalar(5, 80, 20, 0)
	brownUpper = gocv.NewScalar(25, 255, 220, 0)
)

// HeuristicAnalyzer classifies leaf health from the share of brown pixels
// and, for fruiting crops, ripeness from the mean color channels.
type HeuristicAnalyzer struct{}

// NewHeuristicAnalyzer creates the color-ratio analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

func (a *HeuristicAnalyzer) Analyze(image []byte, hints Hints) (model.Result, error) {
	mat, err := gocv.IMDecode(image, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("decoded image is empty")
	}

	ratio, err := brownRatio(mat)
	if err != nil {
		return nil, err
	}

	profile := lookupCrop(hints.Crop)
	result := model.Result{model.ResultKeyCrop: displayCrop(hints.Crop)}

	if ratio > DiseaseThreshold {
		result[model.ResultKeyStatus] = "Diseased"
		result[model.ResultKeyConfidence] = confidenceLabel(ratio >= highConfidenceDiseased)
		result[model.ResultKeySuggestion] = profile.diseased
	} else {
		result[model.ResultKeyStatus] = "Healthy"
		result[model.ResultKeyConfidence] = confidenceLabel(ratio <= highConfidenceHealthy)
		result[model.ResultKeySuggestion] = profile.healthy
	}

	if profile.fruiting {
		result[model.ResultKeyRipeness] = ripeness(mat.Mean())
	}

	return result, nil
}

// brownRatio returns the fraction of pixels inside the brown HSV band.
func brownRatio(bgr gocv.Mat) (float64, error) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV); err != nil {
		return 0, fmt.Errorf("failed to convert image to HSV: %v", err)
	}

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, brownLower, brownUpper, &mask)

	total := bgr.Rows() * bgr.Cols()
	if total == 0 {
		return 0, errors.New("image has no pixels")
	}
	return float64(gocv.CountNonZero(mask)) / float64(total), nil
}

// ripeness bands the mean channels; Mean on a BGR Mat yields B, G, R in Val1..Val3.
func ripeness(mean gocv.Scalar) string {
	green, red := mean.Val2, mean.Val3
	switch {
	case red >= ripeRedMin && green < ripeGreenMax:
		return "Ripe"
	case green > red:
		return "Unripe"
	default:
		return "Semi-ripe"
	}
}

func confidenceLabel(high bool) string {
	if high {
		return "High"
	}
	return "Medium"
}
