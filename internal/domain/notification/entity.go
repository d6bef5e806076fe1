package notification

import (
	"time"
)

// Type identifies the event a notification reports.
type Type string

const (
	TypeAttendanceCheckIn  Type = "attendance_check_in"
	TypeAttendanceCheckOut Type = "attendance_check_out"
	TypeLeaveRequest       Type = "leave_request"
	TypeLeaveApproved      Type = "leave_approved"
	TypeLeaveRejected      Type = "leave_rejected"
)

// Notification is an event addressed to one employee. SenderID is set when
// another employee (an approver) caused it.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        Type
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
