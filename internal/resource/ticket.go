package resource

import "time"

// Ticket statuses and priorities.
const (
	TicketStatusOpen     = "open"
	TicketStatusPending  = "pending"
	TicketStatusResolved = "resolved"
	TicketStatusClosed   = "closed"
)

// Ticket is a support request.
type Ticket struct {
	ID         string    `json:"id" validate:"required"`
	Subject    string    `json:"subject" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=open pending resolved closed"`
	Priority   string    `json:"priority" validate:"required,oneof=low normal high urgent"`
	Requester  string    `json:"requester"`
	AssignedTo string    `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t Ticket) EntityID() string { return t.ID }

// TicketPayload is the client-supplied body for creating or updating a
// ticket.
type TicketPayload struct {
	Subject    string `json:"subject" validate:"required"`
	Status     string `json:"status" validate:"omitempty,oneof=open pending resolved closed"`
	Priority   string `json:"priority" validate:"required,oneof=low normal high urgent"`
	Requester  string `json:"requester"`
	AssignedTo string `json:"assigned_to"`
}

// TicketStatsSummary is the derived headline view of the ticket queue,
// aggregated from fetched rows.
type TicketStatsSummary struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	Pending    int `json:"pending"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Urgent     int `json:"urgent"`
	Unassigned int `json:"unassigned"`
}

// AggregateTicketStats reduces ticket rows into the stats summary.
func AggregateTicketStats(tickets []Ticket) TicketStatsSummary {
	var stats TicketStatsSummary
	stats.Total = len(tickets)
	for _, t := range tickets {
		switch t.Status {
		case TicketStatusOpen:
			stats.Open++
		case TicketStatusPending:
			stats.Pending++
		case TicketStatusResolved:
			stats.Resolved++
		case TicketStatusClosed:
			stats.Closed++
		}
		if t.Priority == "urgent" {
			stats.Urgent++
		}
		if t.AssignedTo == "" && t.Status != TicketStatusClosed {
			stats.Unassigned++
		}
	}
	return stats
}
