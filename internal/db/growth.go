package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/psm0419/gmaking-growth/internal/types"
)

// assetURLPrefix is the URL path under which stored character images are
// served by the asset collaborator.
const assetURLPrefix = "/images/character"

// LoadGrowthState reads one character's growth snapshot: current step, clear
// count, base stats, the summed historical increments, and the current image
// ref. Returns nil when the character does not exist or does not belong to
// the user.
func (db *DB) LoadGrowthState(ctx context.Context, userID string, characterID int64) (*types.CharacterGrowthState, error) {
	state := &types.CharacterGrowthState{
		UserID:      userID,
		CharacterID: characterID,
	}

	err := db.pool.QueryRow(ctx,
		`SELECT c.evolution_step, c.total_stage_clears,
		        s.attack, s.defense, s.hp, s.speed, s.critical_rate,
		        COALESCE(SUM(g.increment_attack), 0),
		        COALESCE(SUM(g.increment_defense), 0),
		        COALESCE(SUM(g.increment_hp), 0),
		        COALESCE(SUM(g.increment_speed), 0),
		        COALESCE(SUM(g.increment_critical_rate), 0),
		        i.image_url
		 FROM characters c
		 JOIN character_stats s ON s.character_id = c.id
		 JOIN character_images i ON i.id = c.image_id
		 LEFT JOIN growth_records g ON g.character_id = c.id AND g.user_id = c.user_id
		 WHERE c.user_id = $1 AND c.id = $2
		 GROUP BY c.id, c.evolution_step, c.total_stage_clears,
		          s.attack, s.defense, s.hp, s.speed, s.critical_rate, i.image_url`,
		userID, characterID,
	).Scan(
		&state.EvolutionStep, &state.TotalStageClears,
		&state.BaseStats.Attack, &state.BaseStats.Defense, &state.BaseStats.HP,
		&state.BaseStats.Speed, &state.BaseStats.CriticalRate,
		&state.AccumulatedIncrements.Attack, &state.AccumulatedIncrements.Defense,
		&state.AccumulatedIncrements.HP, &state.AccumulatedIncrements.Speed,
		&state.AccumulatedIncrements.CriticalRate,
		&state.CurrentImageRef,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load growth state: %w", err)
	}

	return state, nil
}

// PersistGrowth writes everything for one evolution in a single transaction:
// the growth record, and when input.AdvanceStep also the generated image and
// the character's evolution step/image pointer. Returns the new image ref
// (empty when no advance was requested). Any failure rolls the whole
// transaction back.
func (db *DB) PersistGrowth(ctx context.Context, input *types.GrowthPersist) (string, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := input.Record
	_, err = tx.Exec(ctx,
		`INSERT INTO growth_records (
		     id, character_id, user_id, evolution_step,
		     increment_attack, increment_defense, increment_hp,
		     increment_speed, increment_critical_rate,
		     created_by, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
		rec.ID, rec.CharacterID, rec.UserID, rec.EvolutionStep,
		rec.IncrementAttack, rec.IncrementDefense, rec.IncrementHP,
		rec.IncrementSpeed, rec.IncrementCriticalRate,
		rec.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert growth record: %w", err)
	}

	var newImageURL string
	if input.AdvanceStep {
		imageURL := fmt.Sprintf("%s/%s/%d_step%d_%s.png",
			assetURLPrefix, rec.UserID, rec.CharacterID, input.NewStep, uuid.New())

		var imageID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO character_images (user_id, image_url, image_data, created_at)
			 VALUES ($1, $2, $3, NOW())
			 RETURNING id`,
			rec.UserID, imageURL, input.ImagePNG,
		).Scan(&imageID)
		if err != nil {
			return "", fmt.Errorf("failed to insert image record: %w", err)
		}

		result, err := tx.Exec(ctx,
			`UPDATE characters
			 SET evolution_step = $1, image_id = $2, updated_at = NOW()
			 WHERE user_id = $3 AND id = $4`,
			input.NewStep, imageID, rec.UserID, rec.CharacterID,
		)
		if err != nil {
			return "", fmt.Errorf("failed to advance evolution step: %w", err)
		}
		if result.RowsAffected() != 1 {
			return "", fmt.Errorf("failed to advance evolution step: updated %d rows", result.RowsAffected())
		}

		newImageURL = imageURL
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit growth transaction: %w", err)
	}

	return newImageURL, nil
}
