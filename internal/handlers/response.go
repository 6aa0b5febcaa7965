package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/requestdata"
)

// writeError maps service errors to the {"error": {"message","code"}}
// envelope. Untyped errors come out as 500 internal_error.
func writeError(c *gin.Context, err error) {
	code := apierr.CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	c.JSON(apierr.StatusOf(err), gin.H{"error": gin.H{"message": err.Error(), "code": code}})
}

// currentUserID pulls the authenticated user out of the request context set
// by the auth middleware; writes a 401 and returns false when absent.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "authentication required", "code": apierr.CodeUnauthorized}})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid " + name, "code": apierr.CodeValidation}})
		return uuid.Nil, false
	}
	return id, true
}
