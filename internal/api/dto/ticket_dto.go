package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload. Ownership comes from the token, never the body.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AdminID FlexibleID `json:"adminId"`
}

// UpdateTicketRequest payload; omitted fields are left untouched.
type UpdateTicketRequest struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// FlexibleID accepts an id sent either as a JSON number or a JSON string.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("id must be a number or a string")
	}
	*f = FlexibleID(n.String())
	return nil
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID          int64               `json:"id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CustomerID  int64               `json:"customerId"`
	AdminID     *int64              `json:"adminId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// PrincipalResponse is a customer or admin profile without credentials.
type PrincipalResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketDetailResponse is a ticket with its customer and admin.
type TicketDetailResponse struct {
	TicketResponse
	Customer *PrincipalResponse `json:"customer"`
	Admin    *PrincipalResponse `json:"admin"`
}

// TicketListResponse is one page of the admin listing.
type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalCount int64            `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
}

// CustomerTicketsResponse lists the caller's own tickets.
type CustomerTicketsResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

// TicketMutationResponse acknowledges a create, update or delete.
type TicketMutationResponse struct {
	Message string         `json:"message"`
	Ticket  TicketResponse `json:"ticket"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		CustomerID:  t.CustomerID,
		AdminID:     t.AdminID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTicketResponses converts a slice, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewTicketDetailResponse converts a joined ticket.
func NewTicketDetailResponse(d *domain.TicketDetail) TicketDetailResponse {
	resp := TicketDetailResponse{TicketResponse: NewTicketResponse(&d.Ticket)}
	if d.Customer != nil {
		resp.Customer = CustomerProfile(d.Customer)
	}
	if d.Admin != nil {
		resp.Admin = AdminProfile(d.Admin)
	}
	return resp
}

func CustomerProfile(c *domain.Customer) *PrincipalResponse {
	return &PrincipalResponse{ID: c.ID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}

func AdminProfile(a *domain.Admin) *PrincipalResponse {
	return &PrincipalResponse{ID: a.ID, Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt}
}
