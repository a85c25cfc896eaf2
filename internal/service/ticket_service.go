package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows. Each operation authorizes the
// caller, validates input and then issues a single store statement.
type TicketService struct {
	tickets      repository.TicketRepository
	logger       *zap.Logger
	defaultLimit int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	Logger       *zap.Logger
	DefaultLimit int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
}

// TicketListQuery carries raw list parameters as received from the caller.
type TicketListQuery struct {
	Status string
	Page   string
	Limit  string
}

// TicketPage is one page of the admin listing.
type TicketPage struct {
	Tickets    []domain.Ticket
	TotalCount int64
	TotalPages int
	Page       int
	Limit      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := deps.DefaultLimit
	if limit <= 0 {
		limit = lifecycle.DefaultLimit
	}
	return &TicketService{
		tickets:      deps.TicketRepo,
		logger:       logger,
		defaultLimit: limit,
	}
}

// CreateTicket opens a ticket owned by the calling customer.
func (s *TicketService) CreateTicket(ctx context.Context, caller auth.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	if err := auth.Authorize(caller, auth.ActionCreate, nil); err != nil {
		return nil, err
	}
	ticket, err := lifecycle.ValidateCreate(input.Subject, input.Description, caller.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, s.storeError("create", "customer", err)
	}
	s.logMutation("ticket created", ticket.ID, caller)
	return ticket, nil
}

// ListAllTickets returns a page of every ticket, newest first.
func (s *TicketService) ListAllTickets(ctx context.Context, caller auth.Identity, query TicketListQuery) (*TicketPage, error) {
	if err := auth.Authorize(caller, auth.ActionListAll, nil); err != nil {
		return nil, err
	}
	status, err := lifecycle.ValidateStatusFilter(query.Status)
	if err != nil {
		return nil, err
	}
	page, err := lifecycle.ValidatePage(query.Page, query.Limit, s.defaultLimit)
	if err != nil {
		return nil, err
	}

	filter := domain.TicketFilter{Status: status}
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, s.storeError("count", "ticket", err)
	}

	filter.Limit = page.Limit
	filter.Offset = page.Offset()
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, s.storeError("list", "ticket", err)
	}

	return &TicketPage{
		Tickets:    tickets,
		TotalCount: total,
		TotalPages: lifecycle.TotalPages(total, page.Limit),
		Page:       page.Number,
		Limit:      page.Limit,
	}, nil
}

// ListMyTickets returns every ticket owned by the calling customer, newest first.
func (s *TicketService) ListMyTickets(ctx context.Context, caller auth.Identity) ([]domain.Ticket, error) {
	if err := auth.Authorize(caller, auth.ActionListMine, nil); err != nil {
		return nil, err
	}
	customerID := caller.ID
	tickets, err := s.tickets.List(ctx, domain.TicketFilter{CustomerID: &customerID})
	if err != nil {
		return nil, s.storeError("list", "ticket", err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its customer and admin. Ownership can only
// be checked once the ticket is loaded, so a missing id reports NotFound for
// every caller.
func (s *TicketService) GetTicket(ctx context.Context, caller auth.Identity, id string) (*domain.TicketDetail, error) {
	if !caller.Valid() {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := lifecycle.ParseTicketID(id)
	if err != nil {
		return nil, err
	}
	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return nil, s.storeError("get", "ticket", err)
	}
	if err := auth.Authorize(caller, auth.ActionGet, &detail.Ticket); err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateStatus moves a ticket to the requested status.
func (s *TicketService) UpdateStatus(ctx context.Context, caller auth.Identity, id, status string) (*domain.Ticket, error) {
	if err := auth.Authorize(caller, auth.ActionUpdateStatus, nil); err != nil {
		return nil, err
	}
	ticketID, err := lifecycle.ParseTicketID(id)
	if err != nil {
		return nil, err
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.storeError("get", "ticket", err)
	}
	next, err := lifecycle.ValidateStatusTransition(current.Status, status)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Update(ctx, ticketID, domain.TicketPatch{Status: &next})
	if err != nil {
		return nil, s.storeError("update status", "ticket", err)
	}
	s.logMutation("ticket status updated", ticket.ID, caller, zap.String("status", string(ticket.Status)))
	return ticket, nil
}

// AssignTicket assigns a ticket to an administrator.
func (s *TicketService) AssignTicket(ctx context.Context, caller auth.Identity, id, adminID string) (*domain.Ticket, error) {
	if err := auth.Authorize(caller, auth.ActionAssign, nil); err != nil {
		return nil, err
	}
	ticketID, err := lifecycle.ParseTicketID(id)
	if err != nil {
		return nil, err
	}
	assignee, err := lifecycle.ValidateAssignment(adminID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Update(ctx, ticketID, domain.TicketPatch{AdminID: &assignee})
	if err != nil {
		return nil, s.storeError("assign", "admin", err)
	}
	s.logMutation("ticket assigned", ticket.ID, caller, zap.Int64("admin_id", assignee))
	return ticket, nil
}

// UpdateTicket applies a partial update of subject, description and status.
func (s *TicketService) UpdateTicket(ctx context.Context, caller auth.Identity, id string, input lifecycle.TicketPatchInput) (*domain.Ticket, error) {
	if err := auth.Authorize(caller, auth.ActionUpdate, nil); err != nil {
		return nil, err
	}
	ticketID, err := lifecycle.ParseTicketID(id)
	if err != nil {
		return nil, err
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.storeError("get", "ticket", err)
	}
	patch, err := lifecycle.ValidatePartialUpdate(current.Status, input)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Update(ctx, ticketID, patch)
	if err != nil {
		return nil, s.storeError("update", "ticket", err)
	}
	s.logMutation("ticket updated", ticket.ID, caller)
	return ticket, nil
}

// DeleteTicket removes a ticket and returns it as it was before deletion.
func (s *TicketService) DeleteTicket(ctx context.Context, caller auth.Identity, id string) (*domain.Ticket, error) {
	if err := auth.Authorize(caller, auth.ActionDelete, nil); err != nil {
		return nil, err
	}
	ticketID, err := lifecycle.ParseTicketID(id)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Delete(ctx, ticketID)
	if err != nil {
		return nil, s.storeError("delete", "ticket", err)
	}
	s.logMutation("ticket deleted", ticket.ID, caller)
	return ticket, nil
}

// storeError maps repository failures onto the error taxonomy. ref names the
// record a foreign-key failure points at.
func (s *TicketService) storeError(op, ref string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound("ticket", nil)
	case errors.Is(err, domain.ErrInvalidReference):
		return apperrors.NewReference(ref+" does not exist", map[string]any{"reference": ref})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewCancelled(err)
	}
	s.logger.Error("ticket store failure", zap.String("op", op), zap.Error(err))
	return apperrors.NewPersistence(err)
}

func (s *TicketService) logMutation(msg string, ticketID int64, caller auth.Identity, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.Int64("ticket_id", ticketID),
		zap.Int64("actor_id", caller.ID),
		zap.String("actor_role", string(caller.Role)),
	}, fields...)
	s.logger.Info(msg, fields...)
}
