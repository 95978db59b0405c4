package entities

// LanguageDetection is the result of a language detection call
type LanguageDetection struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}
