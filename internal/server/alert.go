package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
)

func (s *Server) ListAlerts(c *gin.Context) {
	resp, err := s.alertSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DismissAlert(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.alertSvc.Dismiss(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "alert.dismiss", "alert", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Alert dismissed"})
}

func isAlertValidationError(err error) bool {
	return errors.Is(err, alertdomain.ErrInvalidID)
}
