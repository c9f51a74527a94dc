package growth

import (
	"math"
	"math/rand"
	"time"

	"github.com/psm0419/gmaking-growth/internal/types"
)

// Config holds the tunables of the growth policy. Values are injected at
// construction rather than read from package globals so tests and deployments
// can vary them independently.
type Config struct {
	// MaxEvolutionStep is the highest reachable evolution step.
	MaxEvolutionStep int
	// RequiredClears maps the current evolution step to the stage-clear
	// count needed to advance. Steps without an entry are unreachable.
	RequiredClears map[int]int
	// IncrementMin and IncrementMax bound each random stat increment
	// (inclusive on both ends).
	IncrementMin int
	IncrementMax int
}

// DefaultConfig returns the production growth tunables.
func DefaultConfig() Config {
	return Config{
		MaxEvolutionStep: 5,
		RequiredClears: map[int]int{
			1: 10,
			2: 20,
			3: 30,
		},
		IncrementMin: 1,
		IncrementMax: 5,
	}
}

// Decision is the successful outcome of an eligibility evaluation.
type Decision struct {
	NextStep int
}

// Policy decides evolution eligibility and rolls stat increments.
// It performs no I/O.
type Policy struct {
	cfg Config
	rng *rand.Rand
}

// NewPolicy creates a Policy. A nil rng falls back to a time-seeded source.
func NewPolicy(cfg Config, rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{cfg: cfg, rng: rng}
}

// Evaluate checks whether the given character state is eligible to evolve.
func (p *Policy) Evaluate(state *types.CharacterGrowthState) (Decision, error) {
	if state.EvolutionStep >= p.cfg.MaxEvolutionStep {
		return Decision{}, &ErrAlreadyMaxStage{Step: state.EvolutionStep}
	}

	required, ok := p.cfg.RequiredClears[state.EvolutionStep]
	if !ok {
		// No configured threshold means the step is unreachable.
		required = math.MaxInt
	}
	if state.TotalStageClears < required {
		return Decision{}, &ErrInsufficientClears{
			Required: required,
			Current:  state.TotalStageClears,
			NextStep: state.EvolutionStep + 1,
		}
	}

	return Decision{NextStep: state.EvolutionStep + 1}, nil
}

// ComputeStatDelta draws five independent uniform increments within the
// configured inclusive range.
func (p *Policy) ComputeStatDelta() types.StatDelta {
	return types.StatDelta{
		Attack:       p.roll(),
		Defense:      p.roll(),
		HP:           p.roll(),
		Speed:        p.roll(),
		CriticalRate: p.roll(),
	}
}

func (p *Policy) roll() int {
	span := p.cfg.IncrementMax - p.cfg.IncrementMin + 1
	return p.cfg.IncrementMin + p.rng.Intn(span)
}
