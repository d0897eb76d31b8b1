package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidAction = errors.New("invalid_action")
	ErrInvalidTarget = errors.New("invalid_target")
)

// Entry is a single action to record. Actor details are taken from
// the request context at record time.
type Entry struct {
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
