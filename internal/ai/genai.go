package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/example/vocabmaster/internal/vocabulary"
	"github.com/example/vocabmaster/pkg/models"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates drafts with Google's Gemini API
type Gemini struct {
	client   *genai.Client
	model    string
	language string
}

// NewGemini creates a Gemini generator
func NewGemini(ctx context.Context, apiKey, model, language string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if language == "" {
		language = DefaultMeaningLanguage
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, model: model, language: language}, nil
}

func draftSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"word":            str("The English word."),
			"meaning":         str("The most common meaning of the word."),
			"type":            str("Word type, e.g. noun, verb."),
			"ipaUK":           str("UK IPA transcription."),
			"ipaUS":           str("US IPA transcription."),
			"example1":        str("A simple example sentence in English."),
			"example1Meaning": str("Translation of the example sentence."),
		},
		Required: []string{"word", "meaning", "type", "example1"},
	}
}

// FromWord generates a draft for a single word
func (g *Gemini) FromWord(ctx context.Context, word string) (models.NewVocabularyItem, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(wordPrompt(word, g.language), genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   draftSchema(),
	})
	if err != nil {
		return models.NewVocabularyItem{}, classify(err)
	}
	return parseDraft(resp.Text())
}

// FromImage extracts every word found in the image
func (g *Gemini) FromImage(ctx context.Context, data []byte, mimeType string) ([]models.NewVocabularyItem, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(imagePrompt(g.language)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   &genai.Schema{Type: genai.TypeArray, Items: draftSchema()},
	})
	if err != nil {
		return nil, classify(err)
	}
	return parseDrafts(resp.Text())
}

// classify marks errors that will fail every request as unavailable.
// A bad request only affects the word that caused it.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		return fmt.Errorf("GenAI generate failed: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", vocabulary.ErrUnavailable, err)
}
