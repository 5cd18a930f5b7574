package ai

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultDiseasedSuggestion = "Inspect the affected plants and consult a local agronomist"
	defaultHealthySuggestion  = "No action needed, continue regular care"
)

type cropProfile struct {
	diseased string
	healthy  string
	fruiting bool // ocena dojrzałości owoców
}

var cropProfiles = map[string]cropProfile{
	"cotton": {diseased: "Use Neem oil or Imidacloprid pesticide"},
	"tomato": {diseased: "Remove infected leaves and spray Mancozeb fungicide", fruiting: true},
	"wheat":  {diseased: "Apply Propiconazole fungicide against rust"},
	"rice":   {diseased: "Spray Tricyclazole to control blast"},
	"maize":  {diseased: "Apply Mancozeb and rotate crops next season"},
	"potato": {diseased: "Spray Metalaxyl against late blight", healthy: "No action needed, keep soil well drained"},
	"mango":  {diseased: "Apply Carbendazim against anthracnose", fruiting: true},
	"banana": {diseased: "Remove affected leaves and apply Propiconazole", fruiting: true},
	"chili":  {diseased: "Spray Neem oil and remove curled leaves", fruiting: true},
}

func lookupCrop(crop string) cropProfile {
	p := cropProfiles[normalizeCrop(crop)]
	if p.diseased == "" {
		p.diseased = defaultDiseasedSuggestion
	}
	if p.healthy == "" {
		p.healthy = defaultHealthySuggestion
	}
	return p
}

func normalizeCrop(crop string) string {
	return strings.ToLower(strings.TrimSpace(crop))
}

// displayCrop title-cases the crop name for the UI, "Unknown" when empty.
func displayCrop(crop string) string {
	c := normalizeCrop(crop)
	if c == "" {
		c = "unknown"
	}
	return cases.Title(language.English).String(c)
}
