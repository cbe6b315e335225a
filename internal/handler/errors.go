package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/utils"
)

// respondError maps a service error onto the matching HTTP response
func respondError(c *gin.Context, err error) {
	var domainErr *apperrors.DomainError
	message := "Request failed"
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case apperrors.IsNotFound(err):
		utils.NotFoundResponse(c, message, nil)
	case apperrors.IsForbidden(err):
		utils.ForbiddenResponse(c, message, nil)
	case apperrors.IsValidation(err):
		utils.UnprocessableEntityResponse(c, message, err)
	case apperrors.IsConflict(err):
		utils.ConflictResponse(c, message, nil)
	case apperrors.IsExternal(err):
		utils.BadGatewayResponse(c, message, err)
	default:
		utils.InternalServerErrorResponse(c, "Internal server error", err)
	}
}
