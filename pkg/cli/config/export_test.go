package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
		batchSize: 32,
	}
}

// NewAnthropicForTest creates an Anthropic config for testing purposes
func NewAnthropicForTest(apiKey, model string) *Anthropic {
	return &Anthropic{
		apiKey:     apiKey,
		model:      model,
		maxRetries: 2,
	}
}

// NewRepositoryForTest creates a repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string) *Repository {
	return &Repository{
		backend:    backend,
		sqlitePath: sqlitePath,
	}
}

// NewLoggerForTest creates a logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
