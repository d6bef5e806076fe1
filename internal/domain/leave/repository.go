package leave

import (
	"context"
	"time"
)

// LedgerRepository - interface for leave_ledgers and leave_ledger_entries tables
type LedgerRepository interface {
	// Create returns ErrLedgerExists if (employee, year) already has a ledger.
	Create(ctx context.Context, ledger Ledger) (Ledger, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) (Ledger, error)

	// GetByEmployeeYearForUpdate locks the ledger row until the transaction ends.
	GetByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (Ledger, error)

	// AddUsage atomically increments the used counters.
	AddUsage(ctx context.Context, ledgerID string, c Consumption) error

	// CreateEntry returns ErrLeaveAlreadyConsumed if the request already has an entry.
	CreateEntry(ctx context.Context, entry LedgerEntry) error
	ListEntries(ctx context.Context, ledgerID string) ([]LedgerEntry, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// Update rewrites dates, derived day counts and decision fields.
	Update(ctx context.Context, request LeaveRequest) error
	ListByEmployee(ctx context.Context, employeeID string, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// ListApprovedOverlapping returns approved requests whose date range touches [start, end].
	ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
}
