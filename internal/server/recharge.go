package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
)

func (s *Server) CreateRecharge(c *gin.Context) {
	var req rechargedomain.CreateRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rechargeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "recharge.create", "recharge", resp.ID.String(), rechargeAuditMetadata(resp))

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRecharges(c *gin.Context) {
	var query struct {
		GareID       string `form:"gare_id"`
		ConnectionID string `form:"connection_id"`
		Operator     string `form:"operator"`
		Status       string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rechargeSvc.List(c.Request.Context(), rechargedomain.ListRechargeRequest{
		GareID:       strings.TrimSpace(query.GareID),
		ConnectionID: strings.TrimSpace(query.ConnectionID),
		Operator:     strings.TrimSpace(query.Operator),
		Status:       strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRechargeByID(c *gin.Context) {
	resp, err := s.rechargeSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRecharge(c *gin.Context) {
	var req rechargedomain.UpdateRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rechargeSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "recharge.update", "recharge", resp.ID.String(), rechargeAuditMetadata(resp))

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRecharge(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.rechargeSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "recharge.delete", "recharge", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recharge deleted successfully"})
}

func rechargeAuditMetadata(r rechargedomain.Recharge) map[string]any {
	return map[string]any{
		"connection_id": r.ConnectionID.String(),
		"line_number":   r.LineNumber,
		"payment_type":  string(r.PaymentType),
		"cost":          r.Cost,
		"end_date":      r.EndDate,
	}
}

func isRechargeValidationError(err error) bool {
	switch {
	case errors.Is(err, rechargedomain.ErrInvalidConnectionID),
		errors.Is(err, rechargedomain.ErrInvalidGareID),
		errors.Is(err, rechargedomain.ErrInvalidPaymentType),
		errors.Is(err, rechargedomain.ErrInvalidOperator),
		errors.Is(err, rechargedomain.ErrInvalidStartDate),
		errors.Is(err, rechargedomain.ErrInvalidEndDate),
		errors.Is(err, rechargedomain.ErrInvalidCost),
		errors.Is(err, rechargedomain.ErrInvalidStatus),
		errors.Is(err, rechargedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}
