package evolution

import "fmt"

// ErrCharacterNotFound indicates no growth state exists for the character,
// or it does not belong to the user.
type ErrCharacterNotFound struct {
	UserID      string
	CharacterID int64
}

func (e *ErrCharacterNotFound) Error() string {
	return fmt.Sprintf("character %d not found for user %s", e.CharacterID, e.UserID)
}

// ErrUnknownModification indicates the requested modification key has no
// registry entry.
type ErrUnknownModification struct {
	Key string
}

func (e *ErrUnknownModification) Error() string {
	return fmt.Sprintf("unknown modification: %s", e.Key)
}

// SourceImageError indicates the character's current image could not be
// downloaded for use as the generation input.
type SourceImageError struct {
	Ref   string
	Cause error
}

func (e *SourceImageError) Error() string {
	return fmt.Sprintf("source image unavailable at %s: %v", e.Ref, e.Cause)
}

func (e *SourceImageError) Unwrap() error {
	return e.Cause
}

// PersistenceError indicates a write failure while recording the growth.
// The transaction is rolled back before this surfaces.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persistence failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persistence failed: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
