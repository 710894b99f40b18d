package domain

import (
	"context"
	"errors"
)

type Service interface {
	GareReport(ctx context.Context, id string) (GareReport, error)
	AgencyReport(ctx context.Context, id string) (AgencyReport, error)
	ZoneReport(ctx context.Context, id string) (ZoneReport, error)
	ShareWhatsApp(ctx context.Context, req ShareRequest) (ShareResult, error)
	Export(ctx context.Context, scope Scope, id string, format Format) (ExportFile, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidScope       = errors.New("invalid_scope")
	ErrInvalidFormat      = errors.New("invalid_format")
	ErrInvalidPhoneNumber = errors.New("invalid_phone_number")
)
