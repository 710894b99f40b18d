package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
)

func (s *Server) CreateAgency(c *gin.Context) {
	var req agencydomain.CreateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agencySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "agency.create", "agency", resp.ID.String(), map[string]any{
		"name":    resp.Name,
		"zone_id": resp.ZoneID.String(),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAgencies(c *gin.Context) {
	var query struct {
		ZoneID string `form:"zone_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agencySvc.List(c.Request.Context(), agencydomain.ListAgencyRequest{
		ZoneID: strings.TrimSpace(query.ZoneID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAgencyByID(c *gin.Context) {
	resp, err := s.agencySvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateAgency(c *gin.Context) {
	var req agencydomain.UpdateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.agencySvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "agency.update", "agency", resp.ID.String(), map[string]any{
		"name":    resp.Name,
		"zone_id": resp.ZoneID.String(),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAgency(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.agencySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "agency.delete", "agency", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Agency deleted successfully"})
}

func isAgencyValidationError(err error) bool {
	switch {
	case errors.Is(err, agencydomain.ErrInvalidName),
		errors.Is(err, agencydomain.ErrInvalidZoneID),
		errors.Is(err, agencydomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
