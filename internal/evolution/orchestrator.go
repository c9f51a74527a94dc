package evolution

import (
	"context"
	"encoding/base64"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/psm0419/gmaking-growth/internal/growth"
	"github.com/psm0419/gmaking-growth/internal/imaging"
	"github.com/psm0419/gmaking-growth/internal/types"
)

// Repository is the persistence boundary the orchestrator depends on.
// PersistGrowth performs all writes for one evolution in a single
// transaction and returns the new image ref when a step advance stored one.
type Repository interface {
	LoadGrowthState(ctx context.Context, userID string, characterID int64) (*types.CharacterGrowthState, error)
	PersistGrowth(ctx context.Context, input *types.GrowthPersist) (string, error)
}

// ImageGenerator drives an asynchronous image-transformation job on the
// external provider.
type ImageGenerator interface {
	Submit(ctx context.Context, prompt, negativePrompt, sourceImageBase64 string) (string, error)
	PollUntilDone(ctx context.Context, jobID string) ([]byte, error)
}

// Fetcher downloads a URL's raw body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Config holds orchestrator settings.
type Config struct {
	// AssetBaseURL resolves relative image refs to fetchable addresses.
	AssetBaseURL string
	// ManageEvolutionStepLocally stores the generated image and advances
	// the character's step/image pointer in the growth transaction. When
	// false those updates are left to an external system of record and
	// only the growth record is written.
	ManageEvolutionStepLocally bool
	// Actor is the attribution recorded on growth records.
	Actor string
}

// Orchestrator sequences policy evaluation, image acquisition, and
// persistence for character evolution.
type Orchestrator struct {
	repo      Repository
	policy    *growth.Policy
	generator ImageGenerator
	fetcher   Fetcher
	registry  Registry
	cfg       Config
}

// New creates an Orchestrator.
func New(repo Repository, policy *growth.Policy, generator ImageGenerator, fetcher Fetcher, registry Registry, cfg Config) *Orchestrator {
	if cfg.Actor == "" {
		cfg.Actor = "SYSTEM"
	}
	return &Orchestrator{
		repo:      repo,
		policy:    policy,
		generator: generator,
		fetcher:   fetcher,
		registry:  registry,
		cfg:       cfg,
	}
}

// EvolveCharacter runs one evolution attempt end to end. On success the
// growth record (and, when configured, the step advance) is committed in a
// single transaction opened only after the image is fully acquired and
// validated. Any failure before commit leaves no writes behind.
func (o *Orchestrator) EvolveCharacter(ctx context.Context, userID string, characterID int64, modificationKey string) (*types.EvolutionResult, error) {
	state, err := o.repo.LoadGrowthState(ctx, userID, characterID)
	if err != nil {
		return nil, &PersistenceError{Message: "failed to load growth state", Cause: err}
	}
	if state == nil {
		return nil, &ErrCharacterNotFound{UserID: userID, CharacterID: characterID}
	}

	decision, err := o.policy.Evaluate(state)
	if err != nil {
		return nil, err
	}

	sourceBase64, err := o.acquireSourceImage(ctx, state.CurrentImageRef)
	if err != nil {
		return nil, err
	}

	mod, ok := o.registry.Lookup(modificationKey)
	if !ok {
		return nil, &ErrUnknownModification{Key: modificationKey}
	}

	jobID, err := o.generator.Submit(ctx, mod.BasePrompt, mod.NegativePrompt, sourceBase64)
	if err != nil {
		return nil, err
	}
	log.Printf("[evolution] submitted generation job %s for character %d (step %d -> %d)",
		jobID, characterID, state.EvolutionStep, decision.NextStep)

	raw, err := o.generator.PollUntilDone(ctx, jobID)
	if err != nil {
		return nil, err
	}

	format, err := imaging.Classify(raw)
	if err != nil {
		return nil, err
	}
	normalized, err := imaging.Normalize(raw, format)
	if err != nil {
		return nil, err
	}

	delta := o.policy.ComputeStatDelta()
	record := &types.GrowthRecord{
		ID:                    uuid.New(),
		CharacterID:           characterID,
		UserID:                userID,
		EvolutionStep:         decision.NextStep,
		IncrementAttack:       delta.Attack,
		IncrementDefense:      delta.Defense,
		IncrementHP:           delta.HP,
		IncrementSpeed:        delta.Speed,
		IncrementCriticalRate: delta.CriticalRate,
		CreatedBy:             o.cfg.Actor,
	}

	newImageRef, err := o.repo.PersistGrowth(ctx, &types.GrowthPersist{
		Record:      record,
		AdvanceStep: o.cfg.ManageEvolutionStepLocally,
		NewStep:     decision.NextStep,
		ImagePNG:    normalized,
	})
	if err != nil {
		return nil, &PersistenceError{Message: "failed to record growth", Cause: err}
	}

	return &types.EvolutionResult{
		UserID:           userID,
		CharacterID:      characterID,
		NewEvolutionStep: decision.NextStep,
		TotalStageClears: state.TotalStageClears,
		TotalStats: types.Stats{
			Attack:       state.BaseStats.Attack + state.AccumulatedIncrements.Attack + float64(delta.Attack),
			Defense:      state.BaseStats.Defense + state.AccumulatedIncrements.Defense + float64(delta.Defense),
			HP:           state.BaseStats.HP + state.AccumulatedIncrements.HP + float64(delta.HP),
			Speed:        state.BaseStats.Speed + state.AccumulatedIncrements.Speed + float64(delta.Speed),
			CriticalRate: state.BaseStats.CriticalRate + state.AccumulatedIncrements.CriticalRate + float64(delta.CriticalRate),
		},
		Delta:       delta,
		Image:       normalized,
		ImageFormat: string(imaging.FormatPNG),
		NewImageRef: newImageRef,
	}, nil
}

// acquireSourceImage resolves the character's current image ref, downloads
// it, and encodes it as the provider's base64 input.
func (o *Orchestrator) acquireSourceImage(ctx context.Context, ref string) (string, error) {
	resolved, err := o.resolveImageRef(ref)
	if err != nil {
		return "", &SourceImageError{Ref: ref, Cause: err}
	}

	data, err := o.fetcher.Fetch(ctx, resolved)
	if err != nil {
		return "", &SourceImageError{Ref: resolved, Cause: err}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// resolveImageRef rewrites relative refs against the configured asset base.
func (o *Orchestrator) resolveImageRef(ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	return url.JoinPath(o.cfg.AssetBaseURL, ref)
}
