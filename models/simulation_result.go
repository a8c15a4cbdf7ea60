package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Sentiment represents the classified tone of a persona reaction
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// String returns the string representation of the sentiment
func (s Sentiment) String() string {
	return string(s)
}

// Valid checks if the sentiment is one of the three supported values
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for Sentiment
func (s *Sentiment) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = Sentiment(v)
	case []byte:
		*s = Sentiment(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Sentiment", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for Sentiment
func (s Sentiment) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid Sentiment: %s", s)
	}
	return string(s), nil
}

// SimulationResult represents one persona reaction produced by a simulation
// run. Rows are written exactly once, in a single batch, by the orchestrator.
type SimulationResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SimulationID   uint      `gorm:"not null;index:idx_simulation_results_simulation_id" json:"simulation_id"`
	PersonaName    string    `gorm:"type:varchar(255);not null" json:"persona_name"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Sentiment      Sentiment `gorm:"type:varchar(10);not null" json:"sentiment"`
	RelevanceScore float64   `gorm:"not null" json:"relevance_score"`
	ToxicityScore  float64   `gorm:"not null" json:"toxicity_score"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for the SimulationResult model
func (SimulationResult) TableName() string {
	return "simulation_results"
}

// SimulationResultFilter represents filters for querying simulation results
type SimulationResultFilter struct {
	SimulationID *uint      `json:"simulation_id,omitempty"`
	Sentiment    *Sentiment `json:"sentiment,omitempty"`
}
