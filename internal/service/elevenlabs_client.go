package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/GauravB09/Diligence-Squared-Assignment/config"
)

// ElevenLabsClient wraps the ElevenLabs conversational AI API
type ElevenLabsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	log        *zap.Logger
}

// NewElevenLabsClient creates a new ElevenLabs API client
func NewElevenLabsClient(cfg *config.ElevenLabsConfig) *ElevenLabsClient {
	return &ElevenLabsClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		maxRetries: 3,
		log:        zap.L().With(zap.String("component", "elevenlabs")),
	}
}

// Conversation is the API response for a conversation fetch
type Conversation struct {
	ConversationID string            `json:"conversation_id"`
	AgentID        string            `json:"agent_id,omitempty"`
	Status         string            `json:"status,omitempty"`
	Transcript     []TranscriptEntry `json:"transcript"`
}

// TranscriptEntry is one turn of the conversation. The API has shipped
// both object entries and bare strings, so decoding accepts either.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
}

func (e *TranscriptEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		e.Role = "unknown"
		e.Message = s
		return nil
	}
	type entry TranscriptEntry
	var decoded entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*e = TranscriptEntry(decoded)
	return nil
}

// Content returns the spoken text of the entry
func (e TranscriptEntry) Content() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Text
}

// GetConversation fetches a conversation with its transcript
func (c *ElevenLabsClient) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/convai/conversations/"+conversationID)
	if err != nil {
		return nil, err
	}

	var conv Conversation
	if err := json.Unmarshal(body, &conv); err != nil {
		return nil, eris.Wrap(err, "elevenlabs: parse conversation")
	}
	return &conv, nil
}

// doRequest performs an API request with bounded retries on transient
// failures
func (c *ElevenLabsClient) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "elevenlabs: build request")
		}
		req.Header.Set("xi-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn("request failed", zap.Int("attempt", attempt+1), zap.Error(err))
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			c.log.Warn("retryable status",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1))
			lastErr = fmt.Errorf("elevenlabs API error %d", resp.StatusCode)
			continue
		}

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("elevenlabs API error %d: %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, eris.Wrapf(lastErr, "elevenlabs: max retries (%d) exceeded", c.maxRetries)
}

// IsConfigured returns true if an API key is set
func (c *ElevenLabsClient) IsConfigured() bool {
	return c.apiKey != ""
}
