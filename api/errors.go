package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError renders a service error. Unexpected errors are attached to the
// context for the request logger and hidden from the client.
func writeError(c *gin.Context, err error) {
	var cerr *domain.CompositionError
	if errors.As(err, &cerr) {
		body := validationBody(cerr.Err)
		body["ticket"] = cerr.Index
		c.JSON(http.StatusBadRequest, body)
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, validationBody(verr))
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func validationBody(err error) gin.H {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return gin.H{"error": err.Error()}
	}
	return gin.H{"error": verr.Message(), "kind": verr.Kind, "fields": verr.FieldMap()}
}

func badRequest(c *gin.Context, field, message string) {
	writeError(c, domain.NewValidationError(domain.KindInvalidValue, field, message))
}

// bindJSON decodes the body and answers 400 when it does not fit req.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}
