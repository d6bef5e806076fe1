package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveRequestNotPending       = errors.New("only pending leave requests can be changed")
	ErrInvalidLeaveType             = errors.New("invalid leave type")
	ErrInvalidDateRange             = errors.New("to_date must not be before from_date")
	ErrHalfDaySpansMultipleDays     = errors.New("half day leave must cover a single day")
	ErrUnauthorized                 = errors.New("unauthorized to access this leave request")
	ErrOverlappingLeave             = errors.New("leave request overlaps an approved leave")

	ErrLedgerNotFound       = errors.New("leave balance ledger not found")
	ErrLedgerExists         = errors.New("leave balance ledger already exists")
	ErrLeaveAlreadyConsumed = errors.New("leave request already consumed from ledger")
)
