package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/psm0419/gmaking-growth/internal/types"
)

// handleGrowCharacter runs one evolution attempt for the requested character
// and returns the new stats and evolved image.
func (s *Server) handleGrowCharacter(w http.ResponseWriter, r *http.Request) {
	var req types.EvolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if req.TargetModification == "" {
		req.TargetModification = types.DefaultModification
	}

	if err := s.validator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", extractValidationErrors(err))
		return
	}

	// Collapse duplicate in-flight requests for the same character.
	flightKey := fmt.Sprintf("%s/%d", req.UserID, req.CharacterID)
	v, err, _ := s.flight.Do(flightKey, func() (any, error) {
		return s.evolver.EvolveCharacter(r.Context(), req.UserID, req.CharacterID, req.TargetModification)
	})
	if err != nil {
		status, code, message := classifyError(err)
		s.errorResponse(w, status, code, message)
		return
	}

	s.jsonResponse(w, http.StatusOK, v.(*types.EvolutionResult))
}

// extractValidationErrors formats validator errors into a readable message
func extractValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "validation failed"
	}

	msg := "validation failed:"
	for _, fieldErr := range validationErrors {
		msg += fmt.Sprintf(" %s (%s)", fieldErr.Field(), fieldErr.Tag())
	}
	return msg
}
