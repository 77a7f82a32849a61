package domain

// QualityReport is the structured result of a quality assessment.
// Warnings are advisory only: they never affect IsValid or Score.
type QualityReport struct {
	IsValid  bool           `json:"is_valid"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Score    float64        `json:"score"`
	Metrics  map[string]any `json:"metrics"`
}
