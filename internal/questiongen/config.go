package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects the whole set.
	Validators []Validator

	// MaxTokens is the token budget for the model's reply.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxQuestions caps Request.Count.
	MaxQuestions int

	// MaxExisting is how many existing prompts are listed in the prompt.
	MaxExisting int
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators:   []Validator{&StructuralValidator{}},
		MaxTokens:    4096,
		Temperature:  0.7,
		MaxQuestions: 10,
		MaxExisting:  25,
	}
}
