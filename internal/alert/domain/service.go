package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(context.Context) ([]Alert, error)
	Dismiss(context.Context, string) error
	// ListDue returns pending alerts whose alert_date has passed.
	ListDue(ctx context.Context, limit int) ([]Alert, error)
	MarkSent(context.Context, Alert) error
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("alert_not_found")
)
