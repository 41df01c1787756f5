package models

import "strings"

// VocabularyItem represents a vocabulary entry the learner studies
type VocabularyItem struct {
	ID              string `json:"id" db:"id"`
	Word            string `json:"word" db:"word"`
	Type            string `json:"type" db:"type"`       // part of speech
	Meaning         string `json:"meaning" db:"meaning"` // translation into the learner's language
	IpaUK           string `json:"ipaUK" db:"ipa_uk"`
	IpaUS           string `json:"ipaUS" db:"ipa_us"`
	Example1        string `json:"example1" db:"example1"`
	Example1Meaning string `json:"example1Meaning" db:"example1_meaning"`
	Example2        string `json:"example2,omitempty" db:"example2"`
	Example2Meaning string `json:"example2Meaning,omitempty" db:"example2_meaning"`
	Unit            int    `json:"unit,omitempty" db:"unit"` // Optional grouping number, 0 when unset
}

// NewVocabularyItem is a draft entry that has not been assigned an id yet
type NewVocabularyItem struct {
	Word            string `json:"word"`
	Type            string `json:"type"`
	Meaning         string `json:"meaning"`
	IpaUK           string `json:"ipaUK"`
	IpaUS           string `json:"ipaUS"`
	Example1        string `json:"example1"`
	Example1Meaning string `json:"example1Meaning"`
	Example2        string `json:"example2,omitempty"`
	Example2Meaning string `json:"example2Meaning,omitempty"`
	Unit            int    `json:"unit,omitempty"`
}

// WithID turns a draft into a stored item
func (n NewVocabularyItem) WithID(id string) VocabularyItem {
	return VocabularyItem{
		ID:              id,
		Word:            n.Word,
		Type:            n.Type,
		Meaning:         n.Meaning,
		IpaUK:           n.IpaUK,
		IpaUS:           n.IpaUS,
		Example1:        n.Example1,
		Example1Meaning: n.Example1Meaning,
		Example2:        n.Example2,
		Example2Meaning: n.Example2Meaning,
		Unit:            n.Unit,
	}
}

// MissingFields lists the mandatory fields that are blank
func (n NewVocabularyItem) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(n.Word) == "" {
		missing = append(missing, "word")
	}
	if strings.TrimSpace(n.Meaning) == "" {
		missing = append(missing, "meaning")
	}
	if strings.TrimSpace(n.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(n.Example1) == "" {
		missing = append(missing, "example1")
	}
	return missing
}

// ItemIDs returns the ids of the given items in order
func ItemIDs(items []VocabularyItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
