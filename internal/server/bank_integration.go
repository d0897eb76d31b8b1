package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bankdomain "github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"github.com/smallbiznis/loanhub/pkg/db/pagination"
)

// @Summary      Create Bank Integration
// @Description  Register a remote lender endpoint
// @Tags         bank-integrations
// @Accept       json
// @Produce      json
// @Param        request body bankdomain.CreateRequest true "Create Bank Integration Request"
// @Success      200  {object}  bankdomain.BankIntegration
// @Router       /bank-integrations [post]
func (s *Server) CreateBankIntegration(c *gin.Context) {
	var req bankdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bankSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(c.Request.Context(), auditEntry("bank_integration.created", resp.ID.String(), map[string]any{
			"name":     resp.Name,
			"base_url": resp.BaseURL,
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Bank Integrations
// @Description  List configured lender endpoints, oldest first
// @Tags         bank-integrations
// @Produce      json
// @Param        page_token  query  string  false  "Opaque page token"
// @Param        page_size   query  int     false  "Page size (max 100)"
// @Success      200  {object}  []bankdomain.BankIntegration
// @Router       /bank-integrations [get]
func (s *Server) ListBankIntegrations(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, nextToken, err := s.bankSvc.List(c.Request.Context(), bankdomain.ListRequest{
		PageToken: page.PageToken,
		PageSize:  page.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp, "next_page_token": nextToken})
}

// @Summary      Get Bank Integration
// @Description  Get one lender endpoint by ID
// @Tags         bank-integrations
// @Produce      json
// @Param        id   path      string  true  "Bank Integration ID"
// @Success      200  {object}  bankdomain.BankIntegration
// @Router       /bank-integrations/{id} [get]
func (s *Server) GetBankIntegration(c *gin.Context) {
	resp, err := s.bankSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Bank Integration
// @Description  Update or deactivate a lender endpoint
// @Tags         bank-integrations
// @Accept       json
// @Produce      json
// @Param        id      path  string                 true  "Bank Integration ID"
// @Param        request body  bankdomain.UpdateRequest true "Update Request"
// @Success      200  {object}  bankdomain.BankIntegration
// @Router       /bank-integrations/{id} [patch]
func (s *Server) UpdateBankIntegration(c *gin.Context) {
	var req bankdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.bankSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(c.Request.Context(), auditEntry("bank_integration.updated", resp.ID.String(), map[string]any{
			"name":      resp.Name,
			"is_active": resp.IsActive,
		}))
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
