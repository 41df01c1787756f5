package session

// Config represents the bounds of study sessions
type Config struct {
	// Number of words drawn per learning batch
	BatchSize int
	// Number of words in a quick review or listening round
	QuickSize int
	// Number of answer options per quiz question, the correct one included
	QuizOptions int
	// Number of questions per quiz
	QuizSize int
}

// DefaultConfig returns the default session configuration
func DefaultConfig() *Config {
	return &Config{
		BatchSize:   10,
		QuickSize:   10,
		QuizOptions: 4,
		QuizSize:    10,
	}
}

func (c *Config) orDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	return c
}
