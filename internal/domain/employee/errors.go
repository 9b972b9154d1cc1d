package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeIDExists      = errors.New("employee ID already exists")
	ErrEmailExists           = errors.New("email already registered")
	ErrUnauthorized          = errors.New("unauthorized to access this employee")
	ErrCannotDeleteSelf      = errors.New("cannot delete your own employee record")
	ErrInvalidLeaveType      = errors.New("invalid leave type")
	ErrInvalidLeaveDays      = errors.New("leave days must be a positive number")
	ErrInvalidLeaveOperation = errors.New("operation must be add or subtract")
	ErrInvalidExportFormat   = errors.New("export format must be xlsx or pdf")
	ErrInvalidPhoto          = errors.New("photo must be a jpeg, png or webp image")
	ErrConcurrentUpdate      = errors.New("employee was modified concurrently, please retry")
)
