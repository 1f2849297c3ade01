package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yourusername/value-staker/internal/models"
)

// predictionFile is the document written per country by the prediction scraper
type predictionFile struct {
	Country     string             `json:"country"`
	LastUpdated string             `json:"last_updated"`
	Matches     []models.MatchOdds `json:"matches"`
}

// decodePredictions parses a prediction document. Matches without a country
// inherit the document's country.
func decodePredictions(data []byte) ([]models.MatchOdds, error) {
	var doc predictionFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if doc.Matches == nil {
		return nil, fmt.Errorf("%w: missing matches", ErrInvalidData)
	}

	for i := range doc.Matches {
		if doc.Matches[i].Country == "" {
			doc.Matches[i].Country = doc.Country
		}
	}
	return doc.Matches, nil
}

// decodeOdds parses bookmaker odds sent either as {"matches": [...]} or as a bare array
func decodeOdds(data []byte) ([]models.BookmakerOdds, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidData)
	}

	switch data[0] {
	case '[':
		var odds []models.BookmakerOdds
		if err := json.Unmarshal(data, &odds); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return odds, nil
	case '{':
		var doc struct {
			Matches *[]models.BookmakerOdds `json:"matches"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		if doc.Matches == nil {
			return nil, fmt.Errorf("%w: unknown odds format", ErrInvalidData)
		}
		return *doc.Matches, nil
	default:
		return nil, fmt.Errorf("%w: unknown odds format", ErrInvalidData)
	}
}
