package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/gareline/internal/report/domain"
)

func (s *Server) GetGareReport(c *gin.Context) {
	resp, err := s.reportSvc.GareReport(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetAgencyReport(c *gin.Context) {
	resp, err := s.reportSvc.AgencyReport(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetZoneReport(c *gin.Context) {
	resp, err := s.reportSvc.ZoneReport(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportReport renders the scoped report as a downloadable file.
func (s *Server) ExportReport(scope reportdomain.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(reportdomain.FormatPDF))))
		id := strings.TrimSpace(c.Param("id"))

		file, err := s.reportSvc.Export(c.Request.Context(), scope, id, reportdomain.Format(format))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		s.audit(c, "report.export", string(scope), id, map[string]any{
			"format":   format,
			"filename": file.Filename,
		})

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		c.Data(http.StatusOK, file.ContentType, file.Content)
	}
}

func (s *Server) ShareWhatsApp(c *gin.Context) {
	var req reportdomain.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PhoneNumber = strings.TrimSpace(c.Query("phone_number"))

	resp, err := s.reportSvc.ShareWhatsApp(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
