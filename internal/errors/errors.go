package errors

import "fmt"

// ErrorCode represents a Quarry error code.
type ErrorCode string

const (
	ErrNoBoundaryFound  ErrorCode = "NO_BOUNDARY_FOUND"  // 404
	ErrNoEnglishName    ErrorCode = "NO_ENGLISH_NAME"    // 422
	ErrProviderTimeout  ErrorCode = "PROVIDER_TIMEOUT"   // 504
	ErrProviderOverflow ErrorCode = "PROVIDER_OVERFLOW"  // 413
	ErrGeometryFailed   ErrorCode = "GEOMETRY_FAILED"    // 500
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// QuarryError represents a structured error with code, status, and details.
type QuarryError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *QuarryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNoBoundaryFound creates a 404 error for when no administrative boundary
// encloses the given coordinate at the requested admin level.
func NewNoBoundaryFound(lat, lng float64, adminLevel int) *QuarryError {
	return &QuarryError{
		Code:    ErrNoBoundaryFound,
		Status:  404,
		Message: fmt.Sprintf("no administrative boundary at level %d encloses (%.5f, %.5f)", adminLevel, lat, lng),
		Details: map[string]any{"lat": lat, "lng": lng, "admin_level": adminLevel},
	}
}

// NewNoEnglishName creates a 422 error for when a letter-zone boundary has no
// name whose first character is an ASCII letter.
func NewNoEnglishName(name string) *QuarryError {
	return &QuarryError{
		Code:    ErrNoEnglishName,
		Status:  422,
		Message: fmt.Sprintf("boundary name %q has no usable English initial", name),
		Details: map[string]any{"name": name},
	}
}

// NewProviderTimeout creates a 504 error for a provider-side timeout or
// runtime error, as reported in the response remark.
func NewProviderTimeout(label, remark string) *QuarryError {
	return &QuarryError{
		Code:    ErrProviderTimeout,
		Status:  504,
		Message: fmt.Sprintf("place-data provider aborted %q: %s", label, remark),
		Details: map[string]any{"label": label, "remark": remark},
	}
}

// NewProviderOverflow creates a 413 error for a result set that hit the
// element hard cap.
func NewProviderOverflow(label string, count, cap int) *QuarryError {
	return &QuarryError{
		Code:    ErrProviderOverflow,
		Status:  413,
		Message: fmt.Sprintf("place-data provider returned %d elements for %q (cap %d)", count, label, cap),
		Details: map[string]any{"label": label, "count": count, "cap": cap},
	}
}

// NewGeometryFailed creates a 500 error for a geometry primitive that failed
// on degenerate input.
func NewGeometryFailed(op string, cause error) *QuarryError {
	msg := fmt.Sprintf("geometry operation %q failed", op)
	if cause != nil {
		msg = fmt.Sprintf("geometry operation %q failed: %v", op, cause)
	}
	return &QuarryError{
		Code:    ErrGeometryFailed,
		Status:  500,
		Message: msg,
		Details: map[string]any{"operation": op},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *QuarryError {
	return &QuarryError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *QuarryError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &QuarryError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a QuarryError with the given code.
func Is(err error, code ErrorCode) bool {
	if qErr, ok := err.(*QuarryError); ok {
		return qErr.Code == code
	}
	return false
}
