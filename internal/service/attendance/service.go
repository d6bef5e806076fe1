package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

// Options tunes the attendance service. Zero values fall back to UTC, the
// legacy work-hours policy and the wall clock.
type Options struct {
	Location *time.Location
	Policy   attendance.WorkHoursPolicy
	Now      func() time.Time
}

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	attendance.BreakRepository
	employee.EmployeeRepository
	publisher notification.Publisher

	loc    *time.Location
	policy attendance.WorkHoursPolicy
	now    func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	breakRepository attendance.BreakRepository,
	employeeRepository employee.EmployeeRepository,
	publisher notification.Publisher,
	opts Options,
) attendance.AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Policy == "" {
		opts.Policy = attendance.PolicyLegacy
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		BreakRepository:      breakRepository,
		EmployeeRepository:   employeeRepository,
		publisher:            publisher,
		loc:                  opts.Location,
		policy:               opts.Policy,
		now:                  opts.Now,
	}
}

// today is the current calendar day in the company timezone.
func (a *AttendanceServiceImpl) today() time.Time {
	return utils.DateOf(a.now().In(a.loc))
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := a.now().UTC()
	day := a.today()

	var result attendance.AttendanceDay
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := a.EmployeeRepository.GetByID(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if emp.EmploymentStatus != employee.EmploymentStatusActive {
			return employee.ErrEmployeeInactive
		}

		existing, err := a.AttendanceRepository.GetByEmployeeAndDay(txCtx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to check today's attendance: %w", err)
		}

		if existing != nil {
			if existing.CheckIn != nil {
				return attendance.ErrAlreadyCheckedIn
			}
			// A row written by leave backfill; the employee showed up anyway.
			existing.CheckIn = &nowUTC
			if err := a.AttendanceRepository.Update(txCtx, *existing); err != nil {
				return fmt.Errorf("failed to update attendance record: %w", err)
			}
			result = *existing
			return nil
		}

		result, err = a.AttendanceRepository.Create(txCtx, attendance.AttendanceDay{
			EmployeeID: req.EmployeeID,
			Day:        day,
			CheckIn:    &nowUTC,
			WorkHours:  decimal.Zero,
			BreakHours: decimal.Zero,
			Status:     attendance.StatusPending,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.ErrAlreadyCheckedIn
			}
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.publisher.Publish(ctx, notification.Notification{
		RecipientID: result.EmployeeID,
		Type:        notification.TypeAttendanceCheckIn,
		Title:       "Checked in",
		Message:     fmt.Sprintf("Checked in at %s", nowUTC.In(a.loc).Format("15:04")),
		Data: map[string]interface{}{
			"attendance_id": result.ID,
			"date":          utils.FormatDate(result.Day),
		},
	})

	return attendance.NewAttendanceResponse(result, nil), nil
}

// loadDay resolves the record an action targets: the given id, or today's
// record. It returns nil when today has no record yet.
func (a *AttendanceServiceImpl) loadDay(ctx context.Context, req attendance.AttendanceActionRequest) (*attendance.AttendanceDay, error) {
	if req.AttendanceID == "" {
		day, err := a.AttendanceRepository.GetByEmployeeAndDay(ctx, req.EmployeeID, a.today())
		if err != nil {
			return nil, fmt.Errorf("failed to get today's attendance: %w", err)
		}
		return day, nil
	}

	day, err := a.AttendanceRepository.GetByIDForUpdate(ctx, req.AttendanceID)
	if err != nil {
		return nil, err
	}
	if day.EmployeeID != req.EmployeeID {
		return nil, attendance.ErrUnauthorized
	}
	return &day, nil
}

// PauseBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PauseBreak(ctx context.Context, req attendance.AttendanceActionRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := a.now().UTC()

	var resp attendance.AttendanceResponse
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.loadDay(txCtx, req)
		if err != nil {
			return err
		}
		if day == nil || day.CheckIn == nil {
			return attendance.ErrNoActiveSession
		}
		if day.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		open, err := a.BreakRepository.GetOpen(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to get open break: %w", err)
		}
		if open != nil {
			return attendance.ErrBreakAlreadyOpen
		}

		if _, err := a.BreakRepository.Create(txCtx, attendance.BreakInterval{
			AttendanceID: day.ID,
			PauseTime:    nowUTC,
		}); err != nil {
			if errors.Is(err, attendance.ErrBreakAlreadyOpen) {
				return err
			}
			return fmt.Errorf("failed to start break: %w", err)
		}

		resp, err = a.buildResponse(txCtx, *day)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return resp, nil
}

// ResumeBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ResumeBreak(ctx context.Context, req attendance.AttendanceActionRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := a.now().UTC()

	var resp attendance.AttendanceResponse
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.loadDay(txCtx, req)
		if err != nil {
			return err
		}
		if day == nil || day.CheckIn == nil {
			return attendance.ErrNoActiveSession
		}
		if day.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		open, err := a.BreakRepository.GetOpen(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to get open break: %w", err)
		}
		if open == nil {
			return attendance.ErrNoActiveBreak
		}
		if err := a.BreakRepository.Close(txCtx, open.ID, nowUTC); err != nil {
			if errors.Is(err, attendance.ErrNoActiveBreak) {
				return err
			}
			return fmt.Errorf("failed to end break: %w", err)
		}

		resp, err = a.buildResponse(txCtx, *day)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.AttendanceActionRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := a.now().UTC()

	var result attendance.AttendanceDay
	var breaks []attendance.BreakInterval
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.loadDay(txCtx, req)
		if err != nil {
			return err
		}
		if day == nil || day.CheckIn == nil {
			return attendance.ErrCheckInMissing
		}
		if day.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		breaks, err = a.BreakRepository.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list breaks: %w", err)
		}

		a.close(day, nowUTC, breaks)
		if err := a.AttendanceRepository.Update(txCtx, *day); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		result = *day
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.publisher.Publish(ctx, notification.Notification{
		RecipientID: result.EmployeeID,
		Type:        notification.TypeAttendanceCheckOut,
		Title:       "Checked out",
		Message:     fmt.Sprintf("Worked %s hours, status %s", result.WorkHours.StringFixed(2), result.Status),
		Data: map[string]interface{}{
			"attendance_id": result.ID,
			"date":          utils.FormatDate(result.Day),
			"work_hours":    result.WorkHours.StringFixed(2),
			"status":        string(result.Status),
		},
	})

	return attendance.NewAttendanceResponse(result, breaks), nil
}

// close stamps check-out and derives hours and status.
func (a *AttendanceServiceImpl) close(day *attendance.AttendanceDay, at time.Time, breaks []attendance.BreakInterval) {
	day.CheckOut = &at
	day.WorkHours, day.BreakHours = ComputeHours(*day.CheckIn, at, breaks, a.policy)
	day.Status = ClassifySession(*day.CheckIn, at, breaks, a.policy)
}

func (a *AttendanceServiceImpl) buildResponse(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceResponse, error) {
	breaks, err := a.BreakRepository.ListByAttendance(ctx, day.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}
	return attendance.NewAttendanceResponse(day, breaks), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	today := a.today()
	day, err := a.AttendanceRepository.GetByEmployeeAndDay(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if day == nil {
		return attendance.NewAttendanceResponse(attendance.AttendanceDay{
			EmployeeID: employeeID,
			Day:        today,
			Status:     attendance.StatusPending,
		}, nil), nil
	}
	return a.buildResponse(ctx, *day)
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	day, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.buildResponse(ctx, day)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	days, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(days))
	for _, day := range days {
		resp, err := a.buildResponse(ctx, day)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if err := a.AttendanceRepository.SoftDelete(ctx, id, a.now()); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

// CloseStaleSessions implements attendance.AttendanceService.
// A forgotten session is closed at its last recorded instant (the latest
// break boundary, or check-in), so only proven time is credited.
func (a *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context) (int, error) {
	stale, err := a.AttendanceRepository.ListOpenBefore(ctx, a.today())
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	closed := 0
	for _, day := range stale {
		updated := false
		err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			current, err := a.AttendanceRepository.GetByIDForUpdate(txCtx, day.ID)
			if err != nil {
				return err
			}
			if current.CheckIn == nil || current.CheckOut != nil {
				return nil
			}

			breaks, err := a.BreakRepository.ListByAttendance(txCtx, current.ID)
			if err != nil {
				return fmt.Errorf("failed to list breaks: %w", err)
			}

			a.close(&current, lastActivity(*current.CheckIn, breaks), breaks)
			if err := a.AttendanceRepository.Update(txCtx, current); err != nil {
				return fmt.Errorf("failed to update attendance record: %w", err)
			}
			updated = true
			return nil
		})
		if err != nil {
			slog.Error("failed to close stale session", "attendance_id", day.ID, "employee_id", day.EmployeeID, "error", err)
			continue
		}
		if updated {
			closed++
		}
	}
	return closed, nil
}

func lastActivity(checkIn time.Time, breaks []attendance.BreakInterval) time.Time {
	last := checkIn
	for _, b := range breaks {
		if b.PauseTime.After(last) {
			last = b.PauseTime
		}
		if b.RestartTime != nil && b.RestartTime.After(last) {
			last = *b.RestartTime
		}
	}
	return last
}
