package session

import (
	"context"

	"github.com/example/vocabmaster/pkg/models"
)

// Utterance is a pronunciation request
type Utterance struct {
	Text string
	Lang string
	Rate float64
}

// Synthesizer speaks utterances
type Synthesizer interface {
	Speak(ctx context.Context, u Utterance) error
}

// NewUtterance applies the voice and speed settings to text
func NewUtterance(text string, settings models.Settings) Utterance {
	lang := "en-GB"
	if settings.DefaultVoice == models.VoiceUS {
		lang = "en-US"
	}
	rate := settings.SpeechSpeed
	if rate <= 0 {
		rate = 1
	}
	return Utterance{Text: text, Lang: lang, Rate: rate}
}
