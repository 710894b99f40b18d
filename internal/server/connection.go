package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
)

func (s *Server) CreateConnection(c *gin.Context) {
	var req connectiondomain.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.connSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "connection.create", "connection", resp.ID.String(), connectionAuditMetadata(resp))

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConnections(c *gin.Context) {
	var query struct {
		GareID   string `form:"gare_id"`
		Operator string `form:"operator"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.connSvc.List(c.Request.Context(), connectiondomain.ListConnectionRequest{
		GareID:   strings.TrimSpace(query.GareID),
		Operator: strings.TrimSpace(query.Operator),
		Status:   strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetConnectionByID(c *gin.Context) {
	resp, err := s.connSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateConnection(c *gin.Context) {
	var req connectiondomain.UpdateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.connSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "connection.update", "connection", resp.ID.String(), connectionAuditMetadata(resp))

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteConnection(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.connSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "connection.delete", "connection", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Connection deleted successfully"})
}

func connectionAuditMetadata(conn connectiondomain.Connection) map[string]any {
	return map[string]any{
		"line_number": conn.LineNumber,
		"gare_id":     conn.GareID.String(),
		"operator":    string(conn.Operator),
		"status":      string(conn.Status),
	}
}

func isConnectionValidationError(err error) bool {
	switch {
	case errors.Is(err, connectiondomain.ErrInvalidLineNumber),
		errors.Is(err, connectiondomain.ErrInvalidGareID),
		errors.Is(err, connectiondomain.ErrInvalidOperator),
		errors.Is(err, connectiondomain.ErrInvalidOperatorType),
		errors.Is(err, connectiondomain.ErrInvalidConnectionType),
		errors.Is(err, connectiondomain.ErrInvalidStatus),
		errors.Is(err, connectiondomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
