package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
)

func (s *Server) CreateGare(c *gin.Context) {
	var req garedomain.CreateGareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.gareSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "gare.create", "gare", resp.ID.String(), map[string]any{
		"name":      resp.Name,
		"agency_id": resp.AgencyID.String(),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListGares(c *gin.Context) {
	var query struct {
		AgencyID string `form:"agency_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.gareSvc.List(c.Request.Context(), garedomain.ListGareRequest{
		AgencyID: strings.TrimSpace(query.AgencyID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGareByID(c *gin.Context) {
	resp, err := s.gareSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateGare(c *gin.Context) {
	var req garedomain.UpdateGareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.gareSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "gare.update", "gare", resp.ID.String(), map[string]any{
		"name":      resp.Name,
		"agency_id": resp.AgencyID.String(),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteGare(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.gareSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "gare.delete", "gare", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Gare deleted successfully"})
}

func isGareValidationError(err error) bool {
	switch {
	case errors.Is(err, garedomain.ErrInvalidName),
		errors.Is(err, garedomain.ErrInvalidAgencyID),
		errors.Is(err, garedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
