package auth

import (
	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// Action names a ticket operation subject to authorization.
type Action string

const (
	ActionCreate       Action = "create"
	ActionListAll      Action = "list_all"
	ActionListMine     Action = "list_mine"
	ActionGet          Action = "get"
	ActionUpdateStatus Action = "update_status"
	ActionAssign       Action = "assign"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
)

// Authorize decides whether caller may perform action. ticket is required
// only for ActionGet, where customers are limited to their own tickets.
func Authorize(caller Identity, action Action, ticket *domain.Ticket) error {
	if !caller.Valid() {
		return apperrors.NewUnauthorized("authentication required")
	}

	switch action {
	case ActionCreate, ActionListMine:
		if caller.Role == domain.RoleCustomer {
			return nil
		}
	case ActionListAll, ActionUpdateStatus, ActionAssign, ActionUpdate, ActionDelete:
		if caller.Role == domain.RoleAdmin {
			return nil
		}
	case ActionGet:
		if caller.Role == domain.RoleAdmin {
			return nil
		}
		if ticket != nil && ticket.CustomerID == caller.ID {
			return nil
		}
		return apperrors.NewForbidden("access denied")
	}
	return apperrors.NewForbidden(deniedMessage(caller.Role, action))
}

func deniedMessage(role domain.Role, action Action) string {
	if role == domain.RoleAdmin {
		return "customer role required"
	}
	switch action {
	case ActionCreate, ActionListMine, ActionGet:
		return "access denied"
	}
	return "admin role required"
}
