package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that's already in use
	ErrEmailTaken = errors.New("email already registered")

	// ErrCompanyCodeNotFound is returned when no admin owns the submitted company code
	ErrCompanyCodeNotFound = errors.New("company code not found")

	// ErrInvoiceExists is returned when a work order already has an invoice
	ErrInvoiceExists = errors.New("work order already has an invoice")

	// ErrInsufficientStock is returned when an assignment asks for more stock than available
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidStatus is returned when an unknown status value is provided
	ErrInvalidStatus = errors.New("invalid status")

	// ErrSnapshotCorrupt is returned when a recycle-bin snapshot cannot be decoded
	ErrSnapshotCorrupt = errors.New("snapshot cannot be decoded")
)
