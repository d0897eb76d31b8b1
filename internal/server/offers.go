package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
)

type searchOffersRequest struct {
	Amount           decimal.Decimal  `json:"amount"`
	DurationInMonths int              `json:"duration_in_months"`
	Income           *decimal.Decimal `json:"income"`
	LivingCosts      *decimal.Decimal `json:"living_costs"`
	Dependents       *int             `json:"dependents"`
}

// @Summary      Search Offers
// @Description  Query every active provider for loan offers
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        request body searchOffersRequest true "Search Offers Request"
// @Success      200  {object}  offerdomain.SearchResult
// @Router       /offers/search [post]
func (s *Server) SearchOffers(c *gin.Context) {
	var req searchOffersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.offerSvc.Search(c.Request.Context(), offerdomain.OfferQuery{
		Amount:         req.Amount,
		DurationMonths: req.DurationInMonths,
		Income:         req.Income,
		LivingCosts:    req.LivingCosts,
		Dependents:     req.Dependents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
