package types

import "errors"

// Storage errors. ErrStorageUnavailable is fatal to the whole
// application and surfaced once at startup; the others are recoverable
// at the call site.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrNotFound           = errors.New("not found")
	ErrStoreClosed        = errors.New("store is closed")
	ErrInvalidBackup      = errors.New("invalid backup document")
)

// Sample validation errors. A sample failing validation is rejected
// before it is ever persisted.
var (
	ErrInvalidHourMeter         = errors.New("end hour meter must be greater than start hour meter")
	ErrInvalidTripCount         = errors.New("trip count must be positive")
	ErrInvalidCapacity          = errors.New("bucket capacity must be positive")
	ErrInvalidHaulerCount       = errors.New("hauler count must be positive")
	ErrInvalidCycleTime         = errors.New("cycle times must be positive")
	ErrMissingDelayEntry        = errors.New("issue requires at least one delay entry with a category code")
	ErrMissingProductivityEntry = errors.New("issue requires at least one productivity entry with a category code")
)

// Config validation errors.
var (
	ErrDataDirEmpty     = errors.New("data directory must not be empty")
	ErrQuotaInvalid     = errors.New("quota must not be negative")
	ErrSoftLimitInvalid = errors.New("soft limit must not be negative or exceed the quota")
)
