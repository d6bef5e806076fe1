package employee

import "context"

type EmployeeRepository interface {
	// Create returns ErrEmployeeCodeExists on a duplicate code.
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
