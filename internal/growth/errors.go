// Package growth provides the eligibility and stat-increment policy for character evolution.
package growth

import "fmt"

// ErrAlreadyMaxStage indicates the character cannot evolve further.
type ErrAlreadyMaxStage struct {
	Step int
}

func (e *ErrAlreadyMaxStage) Error() string {
	return fmt.Sprintf("character is already at max evolution stage (step %d)", e.Step)
}

// ErrInsufficientClears indicates the character has not cleared enough stages
// to reach the next evolution step.
type ErrInsufficientClears struct {
	Required int
	Current  int
	NextStep int
}

func (e *ErrInsufficientClears) Error() string {
	return fmt.Sprintf("insufficient stage clears: requires %d clears to reach step %d, current is %d",
		e.Required, e.NextStep, e.Current)
}
