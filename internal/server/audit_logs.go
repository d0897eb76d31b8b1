package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/loanhub/internal/audit/domain"
)

func auditEntry(action, targetID string, metadata map[string]any) auditdomain.Entry {
	return auditdomain.Entry{
		Action:     action,
		TargetType: "bank_integration",
		TargetID:   targetID,
		Metadata:   metadata,
	}
}

// @Summary      List Audit Logs
// @Description  List recorded lifecycle and configuration actions
// @Tags         audit-logs
// @Produce      json
// @Param        action       query  string  false  "Action"
// @Param        target_type  query  string  false  "Target Type"
// @Param        target_id    query  string  false  "Target ID"
// @Param        start_at     query  string  false  "Start At (RFC3339)"
// @Param        end_at       query  string  false  "End At (RFC3339)"
// @Param        limit        query  int     false  "Limit"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	var query struct {
		Action     string `form:"action"`
		TargetType string `form:"target_type"`
		TargetID   string `form:"target_id"`
		StartAt    string `form:"start_at"`
		EndAt      string `form:"end_at"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startAt, err := parseOptionalTime(query.StartAt)
	if err != nil {
		AbortWithError(c, newValidationError("start_at", "invalid_start_at", "invalid start_at"))
		return
	}
	endAt, err := parseOptionalTime(query.EndAt)
	if err != nil {
		AbortWithError(c, newValidationError("end_at", "invalid_end_at", "invalid end_at"))
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListFilter{
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		TargetID:   strings.TrimSpace(query.TargetID),
		StartAt:    startAt,
		EndAt:      endAt,
		Limit:      query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
