package authorization

import (
	"context"
	"errors"
)

const (
	ObjectZone       = "zone"
	ObjectAgency     = "agency"
	ObjectGare       = "gare"
	ObjectConnection = "connection"
	ObjectRecharge   = "recharge"
	ObjectAlert      = "alert"
	ObjectAdmin      = "admin"
	ObjectAuditLog   = "audit_log"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionDismiss = "dismiss"
	ActionReset   = "reset"
	ActionView    = "view"
)

// GroupAuthenticated is inherited by every known role.
const GroupAuthenticated = "group:authenticated"

type Service interface {
	// Authorize checks whether the role may perform action on object.
	Authorize(ctx context.Context, role string, object string, action string) error
}

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)
