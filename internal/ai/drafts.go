// Package ai implements vocabulary draft generators backed by large
// language model APIs.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/vocabmaster/pkg/models"
)

// DefaultMeaningLanguage is the language meanings and example translations are written in
const DefaultMeaningLanguage = "Vietnamese"

// draft is the JSON shape requested from the models
type draft struct {
	Word            string `json:"word"`
	Meaning         string `json:"meaning"`
	Type            string `json:"type"`
	IpaUK           string `json:"ipaUK"`
	IpaUS           string `json:"ipaUS"`
	Example1        string `json:"example1"`
	Example1Meaning string `json:"example1Meaning"`
}

func (d draft) toItem() models.NewVocabularyItem {
	return models.NewVocabularyItem{
		Word:            strings.TrimSpace(d.Word),
		Meaning:         strings.TrimSpace(d.Meaning),
		Type:            strings.TrimSpace(d.Type),
		IpaUK:           strings.TrimSpace(d.IpaUK),
		IpaUS:           strings.TrimSpace(d.IpaUS),
		Example1:        strings.TrimSpace(d.Example1),
		Example1Meaning: strings.TrimSpace(d.Example1Meaning),
	}
}

func wordPrompt(word, language string) string {
	return fmt.Sprintf(
		"For the English word %q, provide a detailed vocabulary entry. "+
			"The entry must include its most common meaning in %s, its primary word type (e.g., noun, verb), "+
			"UK and US IPA transcriptions, one simple example sentence, and the %s translation of that sentence. "+
			"Provide the output as a single JSON object with the keys word, meaning, type, ipaUK, ipaUS, example1, example1Meaning.",
		word, language, language,
	)
}

func imagePrompt(language string) string {
	return fmt.Sprintf(
		"From the attached image, identify and extract all English vocabulary words. "+
			"For each word, provide its most common meaning in %s, its word type (noun, verb, etc.), "+
			"its UK and US IPA phonetic transcriptions, one example sentence in English, and the meaning of that sentence in %s. "+
			"Present the output as a JSON array of objects with the keys word, meaning, type, ipaUK, ipaUS, example1, example1Meaning. "+
			"If no words are found, return an empty array.",
		language, language,
	)
}

// stripFences removes a markdown code fence around a JSON payload
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func parseDraft(text string) (models.NewVocabularyItem, error) {
	var d draft
	if err := json.Unmarshal([]byte(stripFences(text)), &d); err != nil {
		return models.NewVocabularyItem{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	if strings.TrimSpace(d.Word) == "" {
		return models.NewVocabularyItem{}, fmt.Errorf("draft has no word")
	}
	return d.toItem(), nil
}

func parseDrafts(text string) ([]models.NewVocabularyItem, error) {
	text = stripFences(text)
	if text == "" {
		return nil, nil
	}

	var list []draft
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, fmt.Errorf("failed to decode drafts: %w", err)
	}

	items := make([]models.NewVocabularyItem, 0, len(list))
	for _, d := range list {
		if strings.TrimSpace(d.Word) == "" {
			continue
		}
		items = append(items, d.toItem())
	}
	return items, nil
}
