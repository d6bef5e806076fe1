package leave

import "context"

// LedgerService owns every mutation of the leave balance ledger.
type LedgerService interface {
	// EnsureLedger returns the (employee, year) ledger, creating it with company defaults.
	EnsureLedger(ctx context.Context, employeeID string, year int) (Ledger, error)

	// ProvisionYear creates missing ledgers for every active employee.
	ProvisionYear(ctx context.Context, year int) (ProvisionResult, error)

	// Consume runs the waterfall for one approved request. A missing ledger is a no-op.
	Consume(ctx context.Context, req ConsumeRequest) (ConsumeResult, error)

	GetBalance(ctx context.Context, employeeID string, year, month int) (BalanceResponse, error)
	ListEntries(ctx context.Context, employeeID string, year int) ([]LedgerEntry, error)
}

// LeaveService handles the request lifecycle around the ledger.
type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Update(ctx context.Context, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, req ApproveLeaveRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	CountDays(ctx context.Context, req DayCountRequest) (DayCountResponse, error)
}
