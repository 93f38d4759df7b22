package server

import (
	"net/http"
	"strings"
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	invoicingdomain "github.com/billforge/billforge/internal/invoicing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req invoicingdomain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoicingSvc.GenerateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (s *Server) CreateFee(c *gin.Context) {
	var req feedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fee, err := s.feeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fee)
}

func (s *Server) ListFees(c *gin.Context) {
	clientReference := strings.TrimSpace(c.Query("clientReference"))

	date := feedomain.DateOf(time.Now().UTC())
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := feedomain.ParseDate(raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	fees, err := s.feeSvc.ListActive(c.Request.Context(), clientReference, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fees})
}

func (s *Server) SyncFees(c *gin.Context) {
	result, err := s.syncer.Sync(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
