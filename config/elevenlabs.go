package config

import "os"

// ElevenLabsConfig holds ElevenLabs conversational-AI settings
type ElevenLabsConfig struct {
	APIKey    string `json:"-"` // Never serialize
	AgentID   string `json:"agentId"`
	BaseURL   string `json:"baseUrl"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultElevenLabsConfig returns the default ElevenLabs configuration
func DefaultElevenLabsConfig() *ElevenLabsConfig {
	return &ElevenLabsConfig{
		APIKey:    os.Getenv("ELEVENLABS_API_KEY"),
		AgentID:   os.Getenv("ELEVENLABS_AGENT_ID"),
		BaseURL:   getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),
		TimeoutMS: 30000, // 30 second default timeout
	}
}

// IsEnabled returns true if the API key is configured
func (c *ElevenLabsConfig) IsEnabled() bool {
	return c.APIKey != ""
}
