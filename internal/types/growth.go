// Package types provides type definitions for structured data used throughout the growth service.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Stats holds the five combat stats of a character.
type Stats struct {
	Attack       float64 `json:"attack"`
	Defense      float64 `json:"defense"`
	HP           float64 `json:"hp"`
	Speed        float64 `json:"speed"`
	CriticalRate float64 `json:"critical_rate"`
}

// CharacterGrowthState is an immutable snapshot of a character's growth
// standing, read once per evolution attempt. Accumulated increments are the
// sums over the character's growth history.
type CharacterGrowthState struct {
	UserID                string
	CharacterID           int64
	EvolutionStep         int
	TotalStageClears      int
	BaseStats             Stats
	AccumulatedIncrements Stats
	CurrentImageRef       string
}

// StatDelta is the per-evolution random boost applied to each stat.
type StatDelta struct {
	Attack       int `json:"attack"`
	Defense      int `json:"defense"`
	HP           int `json:"hp"`
	Speed        int `json:"speed"`
	CriticalRate int `json:"critical_rate"`
}

// GrowthRecord is the durable, append-only artifact written for each
// successful evolution.
type GrowthRecord struct {
	ID                    uuid.UUID
	CharacterID           int64
	UserID                string
	EvolutionStep         int
	IncrementAttack       int
	IncrementDefense      int
	IncrementHP           int
	IncrementSpeed        int
	IncrementCriticalRate int
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// GrowthPersist bundles everything the repository writes in a single
// transaction for one evolution: the growth record, and optionally the new
// image plus the character's step/image advance.
type GrowthPersist struct {
	Record *GrowthRecord

	// AdvanceStep updates the character's evolution step and image pointer
	// in the same transaction as the record insert.
	AdvanceStep bool
	NewStep     int
	ImagePNG    []byte
}

// EvolutionResult is the externally visible outcome of a successful
// evolution. Image marshals to base64 in JSON responses.
type EvolutionResult struct {
	UserID           string    `json:"user_id"`
	CharacterID      int64     `json:"character_id"`
	NewEvolutionStep int       `json:"new_evolution_step"`
	TotalStageClears int       `json:"total_stage_clear_count"`
	TotalStats       Stats     `json:"total_stats"`
	Delta            StatDelta `json:"increments"`
	Image            []byte    `json:"image_base64"`
	ImageFormat      string    `json:"image_format"`
	NewImageRef      string    `json:"new_image_url,omitempty"`
}
