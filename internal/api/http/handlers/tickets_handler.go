package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/service"
)

// TicketsHandler exposes the ticket endpoints for customers and admins.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets/create.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), callerIdentity(c), service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TicketMutationResponse{
		Message: "Ticket created successfully!",
		Ticket:  dto.NewTicketResponse(ticket),
	})
}

// ListTickets GET /api/tickets?status=&page=&limit=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page, err := h.service.ListAllTickets(c.UserContext(), callerIdentity(c), service.TicketListQuery{
		Status: c.Query("status"),
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketListResponse{
		Tickets:    dto.NewTicketResponses(page.Tickets),
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	})
}

// ListCustomerTickets GET /api/tickets/customer.
func (h *TicketsHandler) ListCustomerTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListMyTickets(c.UserContext(), callerIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.CustomerTicketsResponse{Tickets: dto.NewTicketResponses(tickets)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.service.GetTicket(c.UserContext(), callerIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketDetailResponse(detail))
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), callerIdentity(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketMutationResponse{
		Message: "Status updated successfully",
		Ticket:  dto.NewTicketResponse(ticket),
	})
}

// AssignTicket PATCH /api/tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.AssignTicket(c.UserContext(), callerIdentity(c), c.Params("id"), string(req.AdminID))
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketMutationResponse{
		Message: "Ticket assigned to admin successfully",
		Ticket:  dto.NewTicketResponse(ticket),
	})
}

// UpdateTicket PUT /api/tickets/updateTicket/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), callerIdentity(c), c.Params("id"), lifecycle.TicketPatchInput{
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketMutationResponse{
		Message: "Ticket updated successfully",
		Ticket:  dto.NewTicketResponse(ticket),
	})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	ticket, err := h.service.DeleteTicket(c.UserContext(), callerIdentity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketMutationResponse{
		Message: "Ticket deleted successfully",
		Ticket:  dto.NewTicketResponse(ticket),
	})
}
