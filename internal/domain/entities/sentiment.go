package entities

// Sentiment is the overall tone of a session
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentThreshold is the absolute average score a session must exceed to
// be classified as positive or negative.
const SentimentThreshold = 0.2

// IsValid checks if the sentiment is known
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// SentimentTally keeps the running sum and count of utterance scores.
// Individual samples are not retained.
type SentimentTally struct {
	Sum   float64
	Count int
}

// Add folds one score in [-1, 1] into the tally
func (t *SentimentTally) Add(score float64) {
	t.Sum += score
	t.Count++
}

// Average returns sum/count, 0 for an empty tally
func (t SentimentTally) Average() float64 {
	if t.Count == 0 {
		return 0
	}
	return t.Sum / float64(t.Count)
}

// Sentiment classifies the average. The boundary value itself is neutral.
func (t SentimentTally) Sentiment() Sentiment {
	if t.Count == 0 {
		return SentimentNeutral
	}
	avg := t.Average()
	switch {
	case avg > SentimentThreshold:
		return SentimentPositive
	case avg < -SentimentThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
