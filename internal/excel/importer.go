package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabmaster/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath              string // Path to the Excel or CSV file
	WordColumn            string // Column with the word
	TypeColumn            string // Column with the part of speech
	MeaningColumn         string // Column with the meaning
	IpaUKColumn           string // Column with the UK transcription
	IpaUSColumn           string // Column with the US transcription
	Example1Column        string
	Example1MeaningColumn string
	Example2Column        string
	Example2MeaningColumn string
	UnitColumn            string // Column with the unit number
	SheetName             string // Name of the sheet to import, first sheet when empty
	StartRow              int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:            "A",
		TypeColumn:            "B",
		MeaningColumn:         "C",
		IpaUKColumn:           "D",
		IpaUSColumn:           "E",
		Example1Column:        "F",
		Example1MeaningColumn: "G",
		Example2Column:        "H",
		Example2MeaningColumn: "I",
		UnitColumn:            "J",
		StartRow:              2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the drafts read from a file
type ImportResult struct {
	TotalProcessed int
	Drafts         []models.NewVocabularyItem
	Skipped        int
	Errors         []string
}

// ImportDrafts reads vocabulary drafts from an Excel or CSV file.
// Drafts are not validated here; saving does that.
func ImportDrafts(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var (
		rows [][]string
		err  error
	)
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	return importRows(rows, config)
}

// readExcel returns all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

type columns struct {
	word, typ, meaning, ipaUK, ipaUS, ex1, ex1Meaning, ex2, ex2Meaning, unit int
}

func resolveColumns(config ImportConfig) (columns, error) {
	var cols columns
	targets := []struct {
		name string
		dst  *int
	}{
		{config.WordColumn, &cols.word},
		{config.TypeColumn, &cols.typ},
		{config.MeaningColumn, &cols.meaning},
		{config.IpaUKColumn, &cols.ipaUK},
		{config.IpaUSColumn, &cols.ipaUS},
		{config.Example1Column, &cols.ex1},
		{config.Example1MeaningColumn, &cols.ex1Meaning},
		{config.Example2Column, &cols.ex2},
		{config.Example2MeaningColumn, &cols.ex2Meaning},
		{config.UnitColumn, &cols.unit},
	}
	for _, t := range targets {
		if t.name == "" {
			*t.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(t.name)
		if err != nil {
			return cols, fmt.Errorf("invalid column %q: %w", t.name, err)
		}
		*t.dst = n - 1
	}
	return cols, nil
}

func importRows(rows [][]string, config ImportConfig) (*ImportResult, error) {
	cols, err := resolveColumns(config)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		word := cleanWord(cell(cols.word))
		if word == "" {
			result.Skipped++
			continue
		}
		result.TotalProcessed++

		unit := 0
		if raw := cell(cols.unit); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: invalid unit %q", i+1, raw))
			} else {
				unit = n
			}
		}

		result.Drafts = append(result.Drafts, models.NewVocabularyItem{
			Word:            word,
			Type:            cell(cols.typ),
			Meaning:         cell(cols.meaning),
			IpaUK:           cell(cols.ipaUK),
			IpaUS:           cell(cols.ipaUS),
			Example1:        cell(cols.ex1),
			Example1Meaning: cell(cols.ex1Meaning),
			Example2:        cell(cols.ex2),
			Example2Meaning: cell(cols.ex2Meaning),
			Unit:            unit,
		})
	}

	return result, nil
}

// cleanWord strips extra forms in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}
