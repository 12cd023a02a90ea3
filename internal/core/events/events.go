package events

import (
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a family of events on the bus.
type EventType string

// Domain events.
const (
	TransactionCreated     EventType = "TransactionCreated"
	TransactionUpdated     EventType = "TransactionUpdated"
	TransactionDeleted     EventType = "TransactionDeleted"
	BudgetCreated          EventType = "BudgetCreated"
	BudgetUpdated          EventType = "BudgetUpdated"
	BudgetDeleted          EventType = "BudgetDeleted"
	CategoryUpdated        EventType = "CategoryUpdated"
	BudgetThresholdReached EventType = "BudgetThresholdReached"
)

// Change notifications, published after every successful write of the entity.
// Listeners use them to re-read through the services.
const (
	TransactionChanged EventType = "transaction_updated"
	BudgetChanged      EventType = "budget_updated"
	CategoryChanged    EventType = "category_updated"
)

// Event is one published fact. Payload holds one of the payload types below.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// New stamps a payload with a fresh id and the current time.
func New(eventType EventType, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// TransactionPayload accompanies TransactionCreated and TransactionDeleted.
type TransactionPayload struct {
	Transaction domain.Transaction
}

// TransactionUpdatedPayload carries the new state plus the fields that drive recomputation.
type TransactionUpdatedPayload struct {
	Transaction   domain.Transaction
	OldAmount     decimal.Decimal
	OldType       domain.TransactionType
	OldCategoryID int64
	OldDate       time.Time
}

// BudgetPayload accompanies BudgetCreated, BudgetUpdated and BudgetDeleted.
type BudgetPayload struct {
	Budget domain.Budget
}

// CategoryPayload accompanies CategoryUpdated.
type CategoryPayload struct {
	Category domain.Category
}

// BudgetThresholdPayload is published when spending crosses the alert threshold.
type BudgetThresholdPayload struct {
	Status    domain.BudgetStatus
	Threshold decimal.Decimal
}

// ChangePayload identifies the entity behind a change notification.
type ChangePayload struct {
	EntityID int64
	Action   string // created, updated or deleted
}
