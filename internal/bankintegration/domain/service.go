package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Name         string  `json:"name"`
	BaseURL      string  `json:"base_url"`
	APIKey       *string `json:"api_key"`
	ContactEmail *string `json:"contact_email"`
}

type UpdateRequest struct {
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	BaseURL      *string `json:"base_url"`
	APIKey       *string `json:"api_key"`
	ContactEmail *string `json:"contact_email"`
	IsActive     *bool   `json:"is_active"`
}

type ListRequest struct {
	PageToken string
	PageSize  int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*BankIntegration, error)
	List(ctx context.Context, req ListRequest) ([]BankIntegration, string, error)
	GetByID(ctx context.Context, id string) (*BankIntegration, error)
	Update(ctx context.Context, req UpdateRequest) (*BankIntegration, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidBaseURL = errors.New("invalid_base_url")
	ErrNotFound       = errors.New("not_found")
)
