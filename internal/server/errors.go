package server

import (
	"errors"
	"net/http"

	"github.com/psm0419/gmaking-growth/internal/evolution"
	"github.com/psm0419/gmaking-growth/internal/growth"
	"github.com/psm0419/gmaking-growth/internal/imaging"
	"github.com/psm0419/gmaking-growth/internal/provider"
)

// classifyError maps an evolution failure to an HTTP status, a stable
// reportable code, and a user-visible message. Errors outside the taxonomy
// are reported generically without leaking internals.
func classifyError(err error) (status int, code, message string) {
	var (
		characterNotFound  *evolution.ErrCharacterNotFound
		unknownMod         *evolution.ErrUnknownModification
		sourceImage        *evolution.SourceImageError
		persistence        *evolution.PersistenceError
		alreadyMax         *growth.ErrAlreadyMaxStage
		insufficientClears *growth.ErrInsufficientClears
		rejected           *provider.RejectedError
		jobNotFound        *provider.JobNotFoundError
		generationFailed   *provider.GenerationFailedError
		download           *provider.DownloadError
		decode             *provider.DecodeError
		timeout            *provider.TimeoutError
		invalidFormat      *imaging.InvalidFormatError
		processing         *imaging.ProcessingError
	)

	switch {
	case errors.As(err, &characterNotFound):
		return http.StatusNotFound, "CHARACTER_NOT_FOUND", err.Error()
	case errors.As(err, &jobNotFound):
		return http.StatusNotFound, "JOB_NOT_FOUND", err.Error()
	case errors.As(err, &alreadyMax):
		return http.StatusForbidden, "ALREADY_MAX_STAGE", err.Error()
	case errors.As(err, &insufficientClears):
		return http.StatusForbidden, "INSUFFICIENT_CLEARS", err.Error()
	case errors.As(err, &unknownMod):
		return http.StatusBadRequest, "UNKNOWN_MODIFICATION", err.Error()
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, "GENERATION_TIMEOUT", err.Error()
	case errors.As(err, &rejected):
		return http.StatusBadGateway, "PROVIDER_REJECTED", err.Error()
	case errors.As(err, &generationFailed):
		return http.StatusBadGateway, "GENERATION_FAILED", err.Error()
	case errors.As(err, &download):
		return http.StatusBadGateway, "RESULT_DOWNLOAD_FAILED", err.Error()
	case errors.As(err, &decode):
		return http.StatusBadGateway, "RESULT_DECODE_FAILED", err.Error()
	case errors.As(err, &sourceImage):
		return http.StatusBadGateway, "SOURCE_IMAGE_UNAVAILABLE", err.Error()
	case errors.As(err, &invalidFormat):
		return http.StatusBadGateway, "INVALID_IMAGE_FORMAT", err.Error()
	case errors.As(err, &processing):
		return http.StatusBadGateway, "IMAGE_PROCESSING_FAILED", err.Error()
	case errors.As(err, &persistence):
		return http.StatusInternalServerError, "PERSISTENCE_FAILED", "failed to record character growth"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
