package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_manager/internal/core/domain"
	"github.com/SscSPs/finance_manager/internal/core/events"
	portssvc "github.com/SscSPs/finance_manager/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// BudgetEventHandler keeps budget exceeded flags current as transactions change
// and announces budgets that cross the alert threshold.
type BudgetEventHandler struct {
	BaseService
	budgets   portssvc.BudgetSvcFacade
	threshold decimal.Decimal
}

// NewBudgetEventHandler creates a handler that recomputes through budgets and
// publishes threshold events on publisher.
func NewBudgetEventHandler(budgets portssvc.BudgetSvcFacade, publisher events.Publisher, threshold decimal.Decimal) *BudgetEventHandler {
	h := &BudgetEventHandler{
		budgets:   budgets,
		threshold: threshold,
	}
	h.Events = publisher
	return h
}

// Register subscribes the handler to the transaction events. The returned function
// removes every subscription.
func (h *BudgetEventHandler) Register(bus *events.Bus) (unregister func()) {
	unsubs := []func(){
		bus.Subscribe(events.TransactionCreated, h.Handle),
		bus.Subscribe(events.TransactionUpdated, h.Handle),
		bus.Subscribe(events.TransactionDeleted, h.Handle),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

type spendingKey struct {
	categoryID int64
	day        time.Time
}

// Handle recomputes every active budget touched by the transaction event.
func (h *BudgetEventHandler) Handle(ctx context.Context, e events.Event) error {
	keys := affectedSpending(e)
	if len(keys) == 0 {
		return nil
	}

	seen := make(map[int64]bool)
	var errs []error
	for _, key := range keys {
		active, err := h.budgets.GetActiveBudgets(ctx, key.day)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, budget := range active {
			if budget.CategoryID != key.categoryID || seen[budget.ID] {
				continue
			}
			seen[budget.ID] = true
			if err := h.recalculate(ctx, budget.ID); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (h *BudgetEventHandler) recalculate(ctx context.Context, budgetID int64) error {
	status, err := h.budgets.RecalculateBudgetStatus(ctx, budgetID)
	if err != nil {
		return err
	}
	if status.Percentage.LessThan(h.threshold) {
		return nil
	}
	h.GetLogger(ctx).Warn("Budget alert",
		slog.Int64("budget_id", budgetID),
		slog.String("percentage", status.Percentage.String()))
	h.Publish(ctx, events.New(events.BudgetThresholdReached, events.BudgetThresholdPayload{
		Status:    *status,
		Threshold: h.threshold,
	}))
	return nil
}

// affectedSpending lists the (category, day) pairs whose expense total the event changed.
func affectedSpending(e events.Event) []spendingKey {
	var keys []spendingKey
	switch p := e.Payload.(type) {
	case events.TransactionPayload:
		if p.Transaction.Type == domain.Expense {
			keys = append(keys, spendingKey{p.Transaction.CategoryID, p.Transaction.Date})
		}
	case events.TransactionUpdatedPayload:
		if p.Transaction.Type == domain.Expense {
			keys = append(keys, spendingKey{p.Transaction.CategoryID, p.Transaction.Date})
		}
		if p.OldType == domain.Expense {
			old := spendingKey{p.OldCategoryID, p.OldDate}
			if len(keys) == 0 || keys[0] != old {
				keys = append(keys, old)
			}
		}
	}
	return keys
}
