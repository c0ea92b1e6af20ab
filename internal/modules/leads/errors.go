package leads

import "errors"

var (
	ErrPageOutOfRange      = errors.New("page out of range")
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrUnknownColumn       = errors.New("column is not sortable")
	ErrNotInBulkMode       = errors.New("bulk delete mode is off")
	ErrNothingToSelect     = errors.New("no leads to select")
	ErrRowNotRendered      = errors.New("lead is not on the current page")
	ErrNothingSelected     = errors.New("no leads selected")
	ErrNoPendingDelete     = errors.New("no delete awaiting confirmation")
	ErrConfirmationInvalid = errors.New("confirmation text does not match")
	ErrDeleteInProgress    = errors.New("delete already in progress")
	ErrDeleteFailed        = errors.New("failed to delete leads")
	ErrFetchFailed         = errors.New("failed to fetch leads")
	ErrInvalidLead         = errors.New("invalid lead")
	ErrLeadNotFound        = errors.New("lead not found")
)
