package server

import (
	"net/http"
	"strings"
	"time"

	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) IngestUsage(c *gin.Context) {
	var req usagedomain.CreateIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.usageSvc.Ingest(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordUsageIngest(c.Request.Context(), record.MeterCode)
	c.JSON(http.StatusCreated, record)
}

func (s *Server) ListUsage(c *gin.Context) {
	req := usagedomain.ListUsageRequest{
		ClientReference: strings.TrimSpace(c.Query("clientReference")),
		MeterCode:       strings.TrimSpace(c.Query("meterCode")),
	}

	var err error
	if req.From, err = parseOptionalTime(c.Query("from")); err != nil {
		AbortWithError(c, newValidationError("from", "invalid_time", "expected RFC3339 timestamp"))
		return
	}
	if req.To, err = parseOptionalTime(c.Query("to")); err != nil {
		AbortWithError(c, newValidationError("to", "invalid_time", "expected RFC3339 timestamp"))
		return
	}

	records, err := s.usageSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func parseOptionalTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
