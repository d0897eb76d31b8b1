package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
	seldomain "github.com/smallbiznis/loanhub/internal/selection/domain"
)

type createSelectionRequest struct {
	InquiryID   string                    `json:"inquiry_id"`
	Offer       offerdomain.OfferSnapshot `json:"offer"`
	Income      *decimal.Decimal          `json:"income"`
	LivingCosts *decimal.Decimal          `json:"living_costs"`
	Dependents  *int                      `json:"dependents"`
}

// @Summary      Create Selection
// @Description  Store a chosen offer snapshot for later application
// @Tags         selections
// @Accept       json
// @Produce      json
// @Param        request body createSelectionRequest true "Create Selection Request"
// @Success      200  {object}  seldomain.OfferSelection
// @Router       /selections [post]
func (s *Server) CreateSelection(c *gin.Context) {
	var req createSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.selectionSvc.Create(c.Request.Context(), seldomain.CreateRequest{
		InquiryID:   strings.TrimSpace(req.InquiryID),
		Offer:       req.Offer,
		Income:      req.Income,
		LivingCosts: req.LivingCosts,
		Dependents:  req.Dependents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Selection
// @Description  Get selection by ID
// @Tags         selections
// @Produce      json
// @Param        id   path      string  true  "Selection ID"
// @Success      200  {object}  seldomain.OfferSelection
// @Router       /selections/{id} [get]
func (s *Server) GetSelection(c *gin.Context) {
	id, err := seldomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.selectionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type recalculateSelectionRequest struct {
	Income      decimal.Decimal `json:"income"`
	LivingCosts decimal.Decimal `json:"living_costs"`
	Dependents  int             `json:"dependents"`
}

// @Summary      Recalculate Selection
// @Description  Re-price the selection with a refined financial profile
// @Tags         selections
// @Accept       json
// @Produce      json
// @Param        id      path  string                       true  "Selection ID"
// @Param        request body  recalculateSelectionRequest  true  "Recalculate Request"
// @Success      200  {object}  seldomain.OfferSelection
// @Router       /selections/{id}/recalculate [post]
func (s *Server) RecalculateSelection(c *gin.Context) {
	id, err := seldomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req recalculateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.selectionSvc.Recalculate(c.Request.Context(), id, seldomain.RecalculateRequest{
		Income:      req.Income,
		LivingCosts: req.LivingCosts,
		Dependents:  req.Dependents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type applySelectionRequest struct {
	ApplicantEmail string                    `json:"applicant_email"`
	Applicant      appdomain.ApplicantDetails `json:"applicant"`
}

// @Summary      Apply Selection
// @Description  Turn the selection into a loan application
// @Tags         selections
// @Accept       json
// @Produce      json
// @Param        id      path  string                 true  "Selection ID"
// @Param        request body  applySelectionRequest  true  "Apply Request"
// @Success      200  {object}  seldomain.OfferSelection
// @Router       /selections/{id}/apply [post]
func (s *Server) ApplySelection(c *gin.Context) {
	id, err := seldomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req applySelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.selectionSvc.Apply(c.Request.Context(), id, seldomain.ApplyRequest{
		ApplicantEmail: strings.TrimSpace(req.ApplicantEmail),
		Applicant:      req.Applicant,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
