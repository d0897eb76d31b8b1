package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
)

// @Summary      Get Application
// @Description  Get loan application by ID
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  appdomain.LoanApplication
// @Router       /applications/{id} [get]
func (s *Server) GetApplication(c *gin.Context) {
	id, err := appdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.applicationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Cancel Application
// @Description  Cancel an application still in NEW or PRELIMINARILY_ACCEPTED
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  appdomain.LoanApplication
// @Router       /applications/{id}/cancel [post]
func (s *Server) CancelApplication(c *gin.Context) {
	id, err := appdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.applicationSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateApplicationStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}

// @Summary      Update Application Status
// @Description  Advance the application along its lifecycle
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path  string                          true  "Application ID"
// @Param        request body  updateApplicationStatusRequest  true  "Status Update Request"
// @Success      200  {object}  appdomain.LoanApplication
// @Router       /applications/{id}/status [post]
func (s *Server) UpdateApplicationStatus(c *gin.Context) {
	id, err := appdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := appdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	resp, err := s.applicationSvc.UpdateStatus(c.Request.Context(), id, status, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Recent Applications
// @Description  List one applicant's recent applications
// @Tags         applications
// @Produce      json
// @Param        email        query  string  true   "Applicant Email"
// @Param        status       query  string  false  "Status"
// @Param        within_days  query  int     false  "Day Window"
// @Success      200  {object}  []appdomain.LoanApplication
// @Router       /applications [get]
func (s *Server) ListRecentApplications(c *gin.Context) {
	var query struct {
		Email      string `form:"email"`
		Status     string `form:"status"`
		WithinDays int    `form:"within_days"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter := appdomain.ListRecentFilter{
		ApplicantEmail: strings.TrimSpace(query.Email),
		WithinDays:     query.WithinDays,
	}
	if raw := strings.TrimSpace(query.Status); raw != "" {
		status := appdomain.Status(strings.ToUpper(raw))
		filter.Status = &status
	}

	resp, err := s.applicationSvc.ListRecent(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
