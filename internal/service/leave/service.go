package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Options tunes the leave service. Zero values fall back to UTC and the wall clock.
type Options struct {
	Location *time.Location
	Now      func() time.Time
	// AutoProvisionLedger creates a missing ledger on approval instead of
	// skipping the waterfall.
	AutoProvisionLedger bool
}

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	attendance.AttendanceRepository
	calendar.HolidayRepository
	employee.EmployeeRepository
	ledger    leave.LedgerService
	publisher notification.Publisher

	loc           *time.Location
	now           func() time.Time
	autoProvision bool
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	attendanceRepository attendance.AttendanceRepository,
	holidayRepository calendar.HolidayRepository,
	employeeRepository employee.EmployeeRepository,
	ledger leave.LedgerService,
	publisher notification.Publisher,
	opts Options,
) leave.LeaveService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		AttendanceRepository:   attendanceRepository,
		HolidayRepository:      holidayRepository,
		EmployeeRepository:     employeeRepository,
		ledger:                 ledger,
		publisher:              publisher,
		loc:                    opts.Location,
		now:                    opts.Now,
		autoProvision:          opts.AutoProvisionLedger,
	}
}

// countDays loads the holidays around [from, to] and runs the sandwich rule.
func (l *LeaveServiceImpl) countDays(ctx context.Context, from time.Time, to *time.Time) (leave.DayCount, error) {
	end := from
	if to != nil {
		end = *to
	}
	holidays, err := l.HolidayRepository.ListBetween(ctx,
		utils.AddDays(from, -maxAbsorbDays-1), utils.AddDays(end, maxAbsorbDays+1))
	if err != nil {
		return leave.DayCount{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	return CountChargeableDays(from, to, calendar.NewWorkWeek(holidays))
}

// applyDates derives TotalDays, Sandwich and the charge span from the request's dates and type.
func (l *LeaveServiceImpl) applyDates(ctx context.Context, r *leave.LeaveRequest) error {
	if r.ToDate != nil && r.ToDate.Before(r.FromDate) {
		return leave.ErrInvalidDateRange
	}
	if r.LeaveType == leave.LeaveTypeHalfDay && r.ToDate != nil && !r.ToDate.Equal(r.FromDate) {
		return leave.ErrHalfDaySpansMultipleDays
	}

	dc, err := l.countDays(ctx, r.FromDate, r.ToDate)
	if err != nil {
		return err
	}
	r.TotalDays = r.LeaveType.ChargeableCount(dc.Days)
	r.Sandwich = dc.Sandwich
	r.ChargeFrom = dc.Start
	r.ChargeTo = dc.End
	return nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *LeaveServiceImpl) checkOverlap(ctx context.Context, r leave.LeaveRequest) error {
	overlapping, err := l.LeaveRequestRepository.ListApprovedOverlapping(ctx, r.EmployeeID, r.FromDate, r.EndDate())
	if err != nil {
		return fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	for _, o := range overlapping {
		if o.ID != r.ID {
			return leave.ErrOverlappingLeave
		}
	}
	return nil
}

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	leaveType, err := leave.ParseLeaveType(req.LeaveType)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	fromDate, err := utils.ParseDate(req.FromDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse from date: %w", err)
	}
	toDate, err := parseOptionalDate(req.ToDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse to date: %w", err)
	}

	request := leave.LeaveRequest{
		EmployeeID: emp.ID,
		LeaveType:  leaveType,
		FromDate:   fromDate,
		ToDate:     toDate,
		Reason:     req.Reason,
		Status:     leave.LeaveRequestStatusPending,
	}
	if err := l.applyDates(ctx, &request); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := l.checkOverlap(ctx, request); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	l.publisher.Publish(ctx, notification.Notification{
		RecipientID: created.EmployeeID,
		Type:        notification.TypeLeaveRequest,
		Title:       "Leave request submitted",
		Message: fmt.Sprintf("%s leave from %s, %s day(s)",
			created.LeaveType, utils.FormatDate(created.FromDate), created.TotalDays.String()),
		Data: map[string]interface{}{
			"leave_request_id": created.ID,
			"leave_type":       string(created.LeaveType),
			"total_days":       created.TotalDays.String(),
			"sandwich":         created.Sandwich,
		},
	})

	return leave.NewLeaveRequestResponse(created), nil
}

// Update implements leave.LeaveService.
func (l *LeaveServiceImpl) Update(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var updated leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if request.EmployeeID != req.EmployeeID {
			return leave.ErrUnauthorized
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveRequestNotPending
		}

		if req.LeaveType != nil {
			if request.LeaveType, err = leave.ParseLeaveType(*req.LeaveType); err != nil {
				return err
			}
		}
		if req.FromDate != nil {
			if request.FromDate, err = utils.ParseDate(*req.FromDate); err != nil {
				return fmt.Errorf("failed to parse from date: %w", err)
			}
		}
		if req.ToDate != nil {
			if request.ToDate, err = parseOptionalDate(req.ToDate); err != nil {
				return fmt.Errorf("failed to parse to date: %w", err)
			}
		}
		if req.Reason != nil {
			request.Reason = req.Reason
		}

		if err := l.applyDates(txCtx, &request); err != nil {
			return err
		}
		if err := l.checkOverlap(txCtx, request); err != nil {
			return err
		}
		if err := l.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(updated), nil
}

// Approve implements leave.LeaveService.
// The status change, the ledger waterfall and the attendance backfill commit together.
func (l *LeaveServiceImpl) Approve(ctx context.Context, req leave.ApproveLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	now := l.now().In(l.loc)

	var request leave.LeaveRequest
	var result leave.ConsumeResult
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request, err = l.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		// Pending requests may overlap; only one of them can be approved.
		if err := l.checkOverlap(txCtx, request); err != nil {
			return err
		}

		decidedAt := now.UTC()
		request.Status = leave.LeaveRequestStatusApproved
		request.DecidedBy = &req.ApproverID
		request.DecidedAt = &decidedAt
		if err := l.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		if l.autoProvision {
			if _, err := l.ledger.EnsureLedger(txCtx, request.EmployeeID, now.Year()); err != nil {
				return err
			}
		}

		result, err = l.ledger.Consume(txCtx, leave.ConsumeRequest{
			EmployeeID:     request.EmployeeID,
			LeaveRequestID: request.ID,
			LeaveType:      request.LeaveType,
			Count:          request.TotalDays,
			At:             now,
		})
		if err != nil {
			return err
		}
		// Without a ledger nothing is paid, so every day is backfilled unpaid.
		return l.backfill(txCtx, request, result.Consumption)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	data := map[string]interface{}{
		"leave_request_id": request.ID,
		"approved_by":      req.ApproverID,
	}
	if result.Applied {
		data["pl"] = result.Consumption.PL.String()
		data["sl"] = result.Consumption.SL.String()
		data["lop"] = result.Consumption.LOP.String()
	}
	l.publisher.Publish(ctx, notification.Notification{
		RecipientID: request.EmployeeID,
		SenderID:    &req.ApproverID,
		Type:        notification.TypeLeaveApproved,
		Title:       "Leave request approved",
		Message:     fmt.Sprintf("Your %s leave from %s was approved", request.LeaveType, utils.FormatDate(request.FromDate)),
		Data:        data,
	})

	resp := leave.NewLeaveRequestResponse(request)
	if result.Applied {
		resp.Consumption = leave.NewConsumptionDTO(result.Consumption)
	}
	return resp, nil
}

// backfill writes a status for every day of the charge span. The first
// ceil(paid) days are paid leave and the rest unpaid; a half-day leave is
// recorded as half_day. Days that already have attendance are left alone.
func (l *LeaveServiceImpl) backfill(ctx context.Context, r leave.LeaveRequest, c leave.Consumption) error {
	paid := c.Paid()
	for i, day := 0, r.ChargeFrom; !day.After(r.ChargeTo); i, day = i+1, utils.AddDays(day, 1) {
		status := attendance.StatusUnpaidLeave
		switch {
		case r.LeaveType == leave.LeaveTypeHalfDay:
			status = attendance.StatusHalfDay
		case decimal.NewFromInt(int64(i)).LessThan(paid):
			status = attendance.StatusPaidLeave
		}

		if _, err := l.AttendanceRepository.CreateIfAbsent(ctx, attendance.AttendanceDay{
			EmployeeID:     r.EmployeeID,
			Day:            day,
			WorkHours:      decimal.Zero,
			BreakHours:     decimal.Zero,
			Status:         status,
			LeaveRequestID: &r.ID,
		}); err != nil {
			return fmt.Errorf("failed to backfill attendance for %s: %w", utils.FormatDate(day), err)
		}
	}
	return nil
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var request leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request, err = l.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		decidedAt := l.now().UTC()
		request.Status = leave.LeaveRequestStatusRejected
		request.DecidedBy = &req.ApproverID
		request.DecidedAt = &decidedAt
		request.RejectionReason = &req.Reason
		if err := l.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.publisher.Publish(ctx, notification.Notification{
		RecipientID: request.EmployeeID,
		SenderID:    &req.ApproverID,
		Type:        notification.TypeLeaveRejected,
		Title:       "Leave request rejected",
		Message:     req.Reason,
		Data: map[string]interface{}{
			"leave_request_id": request.ID,
			"rejected_by":      req.ApproverID,
		},
	})

	return leave.NewLeaveRequestResponse(request), nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListByEmployee implements leave.LeaveService.
func (l *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if filter.Status != nil && !validator.IsInSlice(*filter.Status, []string{
		string(leave.LeaveRequestStatusPending),
		string(leave.LeaveRequestStatusApproved),
		string(leave.LeaveRequestStatusRejected),
	}) {
		return nil, validator.ValidationErrors{{Field: "status", Message: "status must be pending, approved or rejected"}}
	}

	requests, err := l.LeaveRequestRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// CountDays implements leave.LeaveService.
func (l *LeaveServiceImpl) CountDays(ctx context.Context, req leave.DayCountRequest) (leave.DayCountResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.DayCountResponse{}, err
	}

	fromDate, err := utils.ParseDate(req.FromDate)
	if err != nil {
		return leave.DayCountResponse{}, fmt.Errorf("failed to parse from date: %w", err)
	}
	toDate, err := parseOptionalDate(req.ToDate)
	if err != nil {
		return leave.DayCountResponse{}, fmt.Errorf("failed to parse to date: %w", err)
	}

	dc, err := l.countDays(ctx, fromDate, toDate)
	if err != nil {
		if errors.Is(err, leave.ErrInvalidDateRange) {
			return leave.DayCountResponse{}, err
		}
		return leave.DayCountResponse{}, fmt.Errorf("failed to count leave days: %w", err)
	}

	leaveType := leave.LeaveTypePrivilege
	if req.LeaveType != "" {
		leaveType = leave.LeaveType(req.LeaveType)
	}
	return leave.DayCountResponse{
		Days:           dc.Days,
		ChargeableDays: leaveType.ChargeableCount(dc.Days).StringFixed(1),
		Sandwich:       dc.Sandwich,
		ChargeFrom:     utils.FormatDate(dc.Start),
		ChargeTo:       utils.FormatDate(dc.End),
	}, nil
}
