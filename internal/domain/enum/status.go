package enum

// TicketStatus tracks a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketOpen:       {TicketInProgress, TicketResolved, TicketClosed},
	TicketInProgress: {TicketOpen, TicketResolved, TicketClosed},
	TicketResolved:   {TicketOpen, TicketClosed},
	TicketClosed:     {TicketOpen},
}

func (s TicketStatus) IsValid() bool {
	_, ok := ticketTransitions[s]
	return ok
}

// CanTransitionTo reports whether a ticket may move from s to next.
// Staying on the same status is always allowed.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	if s == next {
		return next.IsValid()
	}
	for _, t := range ticketTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsActive is true while the ticket still needs attention.
func (s TicketStatus) IsActive() bool {
	return s == TicketOpen || s == TicketInProgress
}

// WarningStatus tracks a warning issued to a shop. It only moves forward.
type WarningStatus string

const (
	WarningOpen         WarningStatus = "open"
	WarningSent         WarningStatus = "sent"
	WarningAcknowledged WarningStatus = "acknowledged"
	WarningResolved     WarningStatus = "resolved"
)

var warningRank = map[WarningStatus]int{
	WarningOpen:         0,
	WarningSent:         1,
	WarningAcknowledged: 2,
	WarningResolved:     3,
}

func (s WarningStatus) IsValid() bool {
	_, ok := warningRank[s]
	return ok
}

// CanTransitionTo allows any forward move except skipping straight from
// open to acknowledged, since a warning must be sent before it can be
// acknowledged.
func (s WarningStatus) CanTransitionTo(next WarningStatus) bool {
	from, ok1 := warningRank[s]
	to, ok2 := warningRank[next]
	if !ok1 || !ok2 {
		return false
	}
	if from == to {
		return true
	}
	if s == WarningOpen && next == WarningAcknowledged {
		return false
	}
	return to > from
}

// Severity grades a critical case.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Priority is used by tickets (all four levels) and notes (low to high).
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IsValidNotePriority excludes urgent, which notes do not use.
func (p Priority) IsValidNotePriority() bool {
	return p.IsValid() && p != PriorityUrgent
}
