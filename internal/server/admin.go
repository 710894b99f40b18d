package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ResetDatabase(c *gin.Context) {
	resp, err := s.maintenance.ResetDatabase(c.Request.Context())
	if err != nil {
		AbortWithError(c, withMessage(err, "Error resetting database: "+err.Error()))
		return
	}

	s.audit(c, "admin.reset_database", "database", "", map[string]any{
		"collections_cleared": resp.CollectionsCleared,
	})

	c.JSON(http.StatusOK, resp)
}

// ClearTestData is only routed outside production.
func (s *Server) ClearTestData(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	resp, err := s.maintenance.ClearTestData(c.Request.Context())
	if err != nil {
		AbortWithError(c, withMessage(err, "Error clearing test data: "+err.Error()))
		return
	}

	s.audit(c, "admin.clear_test_data", "database", "", map[string]any{
		"deleted_counts": resp.DeletedCounts,
	})

	c.JSON(http.StatusOK, resp)
}
