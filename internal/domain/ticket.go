package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketStatuses lists every member of the status set in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a member of the status set.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// ParseTicketStatus matches raw against the status set ignoring case and
// the separators "_", "-" and " ", so "in_progress" yields InProgress.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	key := normalizeStatus(raw)
	if key == "" {
		return "", false
	}
	for _, candidate := range TicketStatuses {
		if normalizeStatus(string(candidate)) == key {
			return candidate, true
		}
	}
	return "", false
}

func normalizeStatus(raw string) string {
	replacer := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Subject     string
	Description string
	Status      TicketStatus
	CustomerID  int64
	AdminID     *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketDetail is a ticket joined with its owning customer and assigned admin.
type TicketDetail struct {
	Ticket
	Customer *Customer
	Admin    *Admin
}

// TicketPatch holds normalized partial-update fields; nil fields are left untouched.
type TicketPatch struct {
	Subject     *string
	Description *string
	Status      *TicketStatus
	AdminID     *int64
}

// Empty reports whether the patch carries no field at all.
func (p TicketPatch) Empty() bool {
	return p.Subject == nil && p.Description == nil && p.Status == nil && p.AdminID == nil
}

// Apply merges the patch into t.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AdminID != nil {
		id := *p.AdminID
		t.AdminID = &id
	}
}

// TicketFilter selects tickets for listing and counting.
type TicketFilter struct {
	CustomerID *int64
	Status     *TicketStatus
	Limit      int
	Offset     int
}

// Page is a validated pagination request.
type Page struct {
	Number int
	Limit  int
}

// Offset is the number of rows skipped before the page starts.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
