package models

// Theme is the UI color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Voice selects the pronunciation accent
type Voice string

const (
	VoiceUK Voice = "UK"
	VoiceUS Voice = "US"
)

// Speech speed bounds
const (
	MinSpeechSpeed = 0.5
	MaxSpeechSpeed = 2.0
)

// Settings holds the learner's local preferences
type Settings struct {
	Theme        Theme   `json:"theme"`
	DefaultVoice Voice   `json:"defaultVoice"`
	SpeechSpeed  float64 `json:"speechSpeed"`
}

// DefaultSettings returns the settings used before anything is saved
func DefaultSettings() Settings {
	return Settings{
		Theme:        ThemeDark,
		DefaultVoice: VoiceUK,
		SpeechSpeed:  1,
	}
}
