package domain

const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Emotions are the labels produced by the audio emotion classifier.
var Emotions = []string{"neutral", "calm", "happy", "sad", "angry", "fearful", "disgust", "surprised"}

// Contexts are the labels produced by the screen context detector.
var Contexts = []string{"programming", "reading", "writing", "learning", "browsing", "communication", "social media", "entertainment"}

var Sentiments = []string{SentimentPositive, SentimentNeutral, SentimentNegative}

// Vocabulary returns the label set for a kind.
func Vocabulary(kind Kind) []string {
	switch kind {
	case KindAudio:
		return Emotions
	case KindScreen:
		return Contexts
	default:
		return nil
	}
}
