package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/vocabmaster/internal/vocabulary"
	"github.com/example/vocabmaster/pkg/models"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
)

// ChatGPT represents a client for the OpenAI chat completions API
type ChatGPT struct {
	apiKey      string
	apiURL      string
	model       string
	language    string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewChatGPT creates a new ChatGPT client
func NewChatGPT(apiKey, language string) (*ChatGPT, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if language == "" {
		language = DefaultMeaningLanguage
	}

	return &ChatGPT{
		apiKey:      apiKey,
		apiURL:      defaultOpenAIURL,
		model:       defaultOpenAIModel,
		language:    language,
		maxTokens:   400,
		temperature: 0.3,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// FromWord generates a draft for a single word
func (c *ChatGPT) FromWord(ctx context.Context, word string) (models.NewVocabularyItem, error) {
	messages := []Message{
		{Role: "system", Content: "You are an assistant for learners of English. You write accurate, concise dictionary entries as JSON."},
		{Role: "user", Content: wordPrompt(word, c.language)},
	}

	content, err := c.complete(ctx, messages)
	if err != nil {
		return models.NewVocabularyItem{}, err
	}
	return parseDraft(content)
}

// FromImage is not supported by the chat completions client
func (c *ChatGPT) FromImage(context.Context, []byte, string) ([]models.NewVocabularyItem, error) {
	return nil, fmt.Errorf("image scan with %s: %w", c.model, errors.ErrUnsupported)
}

func (c *ChatGPT) complete(ctx context.Context, messages []Message) (string, error) {
	request := ChatRequest{
		Model:          c.model,
		Messages:       messages,
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: failed to send request: %v", vocabulary.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if response.Error != nil {
			msg = response.Error.Message
		}
		if resp.StatusCode == http.StatusBadRequest {
			return "", fmt.Errorf("API error: %s", msg)
		}
		return "", fmt.Errorf("%w: API error: %s", vocabulary.ErrUnavailable, msg)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
