// Package pagination carries the shared query-string paging contract.
package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination binds the common paging query parameters.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Limit clamps the requested page size into the allowed range.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

// Offset decodes the opaque page token into a row offset.
func (p Pagination) Offset() int {
	token := strings.TrimSpace(p.PageToken)
	if token == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// NextToken encodes the offset for the following page, or "" when the
// current page was not full.
func (p Pagination) NextToken(returned int) string {
	if returned < p.Limit() {
		return ""
	}
	next := p.Offset() + returned
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(next)))
}
