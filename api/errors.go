package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy onto response code classes:
// not-found, conflict, bad-request, internal.
func writeError(c *gin.Context, err error) {
	var (
		notFound   *domain.NotFoundError
		noUnit     *domain.NoAvailableUnitError
		duration   *domain.InvalidDurationError
		transition *domain.StateTransitionError
		integrity  *domain.DataIntegrityError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &noUnit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &duration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &integrity):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
