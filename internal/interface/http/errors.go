package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eventnest/identity-service/internal/domain/identity"
	"github.com/eventnest/identity-service/pkg/response"
)

func statusFor(kind identity.Kind) int {
	switch kind {
	case identity.KindValidation:
		return http.StatusBadRequest
	case identity.KindAuth:
		return http.StatusUnauthorized
	case identity.KindNotFound:
		return http.StatusNotFound
	case identity.KindConflict:
		return http.StatusConflict
	case identity.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps a domain error onto the response envelope. Internal
// faults are logged with their cause and reported opaquely.
func writeDomainError(c *gin.Context, logger *logrus.Logger, err error) {
	var de *identity.Error
	if !errors.As(err, &de) {
		de = identity.Internal(err)
	}
	if de.Kind == identity.KindInternal && logger != nil {
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	response.Error[any](c, statusFor(de.Kind), de.Message, map[string]string{"code": de.Code})
}
