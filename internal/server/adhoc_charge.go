package server

import (
	"net/http"
	"strings"

	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateAdhocCharge(c *gin.Context) {
	var req adhocdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	charge, err := s.adhocSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, charge)
}

func (s *Server) ListAdhocCharges(c *gin.Context) {
	charges, err := s.adhocSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("clientReference")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": charges})
}

func (s *Server) ApproveAdhocCharge(c *gin.Context) {
	charge, err := s.adhocSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, charge)
}

func (s *Server) DeleteAdhocCharge(c *gin.Context) {
	if err := s.adhocSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
