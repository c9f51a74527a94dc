package types

import "github.com/go-playground/validator/v10"

// DefaultModification is the modification key used when the request omits one.
const DefaultModification = "default_growth"

// EvolveRequest represents the request to evolve a character.
type EvolveRequest struct {
	UserID             string `json:"user_id" validate:"required,min=1"`
	CharacterID        int64  `json:"character_id" validate:"required,gt=0"`
	TargetModification string `json:"target_modification,omitempty"`
}

// Validate validates the EvolveRequest using the validator.
func (r *EvolveRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
