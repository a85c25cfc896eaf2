// Package lifecycle owns the Ticket invariants: what a new ticket looks like,
// which status values exist, and which field mutations are acceptable.
// Every function is pure and reports failures as validation DomainErrors.
package lifecycle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// TicketPatchInput is a raw partial update; nil and blank fields count as absent.
type TicketPatchInput struct {
	Subject     *string
	Description *string
	Status      *string
}

// ValidateCreate builds a new Open ticket owned by customerID.
func ValidateCreate(subject, description string, customerID int64) (*domain.Ticket, error) {
	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)

	var missing []string
	if subject == "" {
		missing = append(missing, "subject")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("subject and description are required", map[string]any{
			"missing": missing,
		})
	}
	if customerID <= 0 {
		return nil, apperrors.NewValidationError("invalid customer id", nil)
	}

	return &domain.Ticket{
		Subject:     subject,
		Description: description,
		Status:      domain.TicketStatusOpen,
		CustomerID:  customerID,
	}, nil
}

// ValidateStatusTransition checks that requested names a known status.
// Every status may move to every other status, including itself.
func ValidateStatusTransition(current domain.TicketStatus, requested string) (domain.TicketStatus, error) {
	next, ok := domain.ParseTicketStatus(requested)
	if !ok {
		return "", apperrors.NewValidationError("invalid status", map[string]any{
			"status":  requested,
			"allowed": domain.TicketStatuses,
		})
	}
	return next, nil
}

// ValidatePartialUpdate normalizes a patch. At least one field must be non-blank.
func ValidatePartialUpdate(current domain.TicketStatus, in TicketPatchInput) (domain.TicketPatch, error) {
	var patch domain.TicketPatch

	if v, ok := present(in.Subject); ok {
		patch.Subject = &v
	}
	if v, ok := present(in.Description); ok {
		patch.Description = &v
	}
	if v, ok := present(in.Status); ok {
		status, err := ValidateStatusTransition(current, v)
		if err != nil {
			return domain.TicketPatch{}, err
		}
		patch.Status = &status
	}

	if patch.Empty() {
		return domain.TicketPatch{}, apperrors.NewValidationError("no fields to update", nil)
	}
	return patch, nil
}

// ValidateAssignment parses an admin reference. Whether the admin exists is
// left to the store.
func ValidateAssignment(adminID string) (int64, error) {
	id, err := parsePositive(adminID)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid admin id format", map[string]any{"adminId": adminID})
	}
	return id, nil
}

// ParseTicketID accepts a positive base-10 integer.
func ParseTicketID(raw string) (int64, error) {
	id, err := parsePositive(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid ticket id format", map[string]any{"id": raw})
	}
	return id, nil
}

// ValidatePage applies defaults to blank values and rejects anything that is
// not a positive integer. limit is capped at MaxLimit and page may not push the
// offset past the int range.
func ValidatePage(page, limit string, defaultLimit int) (domain.Page, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if defaultLimit > MaxLimit {
		defaultLimit = MaxLimit
	}
	p := domain.Page{Number: DefaultPage, Limit: defaultLimit}

	if strings.TrimSpace(page) != "" {
		n, err := parsePositive(page)
		if err != nil || n > int64(maxInt) {
			return domain.Page{}, apperrors.NewValidationError("page must be a positive integer", map[string]any{"page": page})
		}
		p.Number = int(n)
	}
	if strings.TrimSpace(limit) != "" {
		n, err := parsePositive(limit)
		if err != nil || n > MaxLimit {
			return domain.Page{}, apperrors.NewValidationError(
				fmt.Sprintf("limit must be an integer between 1 and %d", MaxLimit),
				map[string]any{"limit": limit},
			)
		}
		p.Limit = int(n)
	}
	if p.Number-1 > maxInt/p.Limit {
		return domain.Page{}, apperrors.NewValidationError("page is out of range", map[string]any{"page": page})
	}
	return p, nil
}

// ValidateStatusFilter parses an optional status query value.
func ValidateStatusFilter(raw string) (*domain.TicketStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	status, ok := domain.ParseTicketStatus(raw)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status filter", map[string]any{
			"status":  raw,
			"allowed": domain.TicketStatuses,
		})
	}
	return &status, nil
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

const maxInt = int(^uint(0) >> 1)

func parsePositive(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func present(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}
