package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Reasons identify the precise rule an operation violated.
const (
	ReasonInvalidAPIName            = "INVALID_API_NAME"
	ReasonMissingRequiredConstraint = "MISSING_REQUIRED_CONSTRAINT"
	ReasonInvalidConstraint         = "INVALID_CONSTRAINT"
	ReasonDuplicateFieldAPIName     = "DUPLICATE_FIELD_API_NAME"
	ReasonDuplicateObjectAPIName    = "DUPLICATE_OBJECT_API_NAME"
	ReasonDuplicateName             = "DUPLICATE_NAME"
	ReasonDuplicateFieldPlacement   = "DUPLICATE_FIELD_PLACEMENT"
	ReasonDanglingFieldReference    = "DANGLING_FIELD_REFERENCE"
	ReasonColumnOutOfRange          = "COLUMN_OUT_OF_RANGE"
	ReasonUnknownOperator           = "UNKNOWN_OPERATOR"
	ReasonInvalidExpression         = "INVALID_EXPRESSION"
	ReasonSystemField               = "SYSTEM_FIELD"
	ReasonFieldInUse                = "FIELD_IN_USE"
	ReasonObjectInUse               = "OBJECT_IN_USE"
	ReasonLayoutInUse               = "LAYOUT_IN_USE"
	ReasonVersionNotFound           = "VERSION_NOT_FOUND"
	ReasonInvalidSchemaFormat       = "INVALID_SCHEMA_FORMAT"
	ReasonNotFound                  = "NOT_FOUND"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// Reasoned is implemented by errors that carry a machine-readable reason
type Reasoned interface {
	Reason() string
}

// NotFoundError represents a resource that was not found
type NotFoundError struct {
	Resource string
	ID       string
	reason   string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Code() string {
	return "NOT_FOUND"
}

func (e *NotFoundError) Reason() string {
	if e.reason == "" {
		return ReasonNotFound
	}
	return e.reason
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewVersionNotFoundError reports a rollback target missing from history
func NewVersionNotFoundError(version int) *NotFoundError {
	return &NotFoundError{Resource: "Schema version", ID: fmt.Sprint(version), reason: ReasonVersionNotFound}
}

// ValidationError represents invalid input. Path locates the offending
// element (for example "layout:L1/section:S1") when Field alone is ambiguous.
type ValidationError struct {
	Field   string
	Path    string
	Message string
	Value   interface{}
	reason  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation error")
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " on field '%s'", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Code() string {
	return "VALIDATION_ERROR"
}

func (e *ValidationError) Reason() string {
	if e.reason == "" {
		return ReasonInvalidConstraint
	}
	return e.reason
}

// WithPath returns the error annotated with an element locator
func (e *ValidationError) WithPath(path string) *ValidationError {
	e.Path = path
	return e
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewReasonedValidationError creates a ValidationError with an explicit reason
func NewReasonedValidationError(reason, field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, reason: reason}
}

// NewMissingConstraintError reports a type-specific setting that must be present
func NewMissingConstraintError(field, kind string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("missing required constraint '%s'", kind),
		Value:   kind,
		reason:  ReasonMissingRequiredConstraint,
	}
}

// NewInvalidSchemaFormatError reports a malformed import document
func NewInvalidSchemaFormatError(message string) *ValidationError {
	return &ValidationError{Field: "document", Message: message, reason: ReasonInvalidSchemaFormat}
}

// ConflictError represents a conflict with existing data
type ConflictError struct {
	Resource string
	Field    string
	Value    string
	reason   string
}

func (e *ConflictError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s already exists with %s='%s'", e.Resource, e.Field, e.Value)
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

func (e *ConflictError) HTTPStatus() int {
	return http.StatusConflict
}

func (e *ConflictError) Code() string {
	return "CONFLICT"
}

func (e *ConflictError) Reason() string {
	if e.reason == "" {
		return ReasonDuplicateName
	}
	return e.reason
}

// NewConflictError creates a new ConflictError
func NewConflictError(resource, field, value string) *ConflictError {
	return &ConflictError{Resource: resource, Field: field, Value: value}
}

// NewDuplicateFieldError reports a field apiName already present on an object
func NewDuplicateFieldError(objectAPIName, fieldAPIName string) *ConflictError {
	return &ConflictError{
		Resource: fmt.Sprintf("Field on object '%s'", objectAPIName),
		Field:    "apiName",
		Value:    fieldAPIName,
		reason:   ReasonDuplicateFieldAPIName,
	}
}

// NewDuplicateObjectError reports an object apiName already present in the schema
func NewDuplicateObjectError(objectAPIName string) *ConflictError {
	return &ConflictError{Resource: "Object", Field: "apiName", Value: objectAPIName, reason: ReasonDuplicateObjectAPIName}
}

// InUseError is returned when a deletion target is still referenced and
// cascade was not requested. References describes every blocking reference.
type InUseError struct {
	Resource   string
	ID         string
	References []string
	reason     string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s '%s' is in use: %s", e.Resource, e.ID, strings.Join(e.References, "; "))
}

func (e *InUseError) HTTPStatus() int {
	return http.StatusConflict
}

func (e *InUseError) Code() string {
	return "IN_USE"
}

func (e *InUseError) Reason() string {
	return e.reason
}

// NewFieldInUseError creates an InUseError for a field
func NewFieldInUseError(fieldAPIName string, references []string) *InUseError {
	return &InUseError{Resource: "Field", ID: fieldAPIName, References: references, reason: ReasonFieldInUse}
}

// NewObjectInUseError creates an InUseError for an object
func NewObjectInUseError(objectAPIName string, references []string) *InUseError {
	return &InUseError{Resource: "Object", ID: objectAPIName, References: references, reason: ReasonObjectInUse}
}

// NewLayoutInUseError creates an InUseError for a page layout
func NewLayoutInUseError(layoutID string, references []string) *InUseError {
	return &InUseError{Resource: "Page layout", ID: layoutID, References: references, reason: ReasonLayoutInUse}
}

// InternalError represents unexpected failures, usually from storage
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s (caused by: %v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

func (e *InternalError) Code() string {
	return "INTERNAL_ERROR"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

// Helper functions for error checking

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsInUse checks if an error is an InUseError
func IsInUse(err error) bool {
	var inUse *InUseError
	return errors.As(err, &inUse)
}

// HasReason reports whether err, or any error joined or wrapped in it, carries reason
func HasReason(err error, reason string) bool {
	for _, r := range Reasons(err) {
		if r == reason {
			return true
		}
	}
	return false
}

// Reasons collects the reasons of every error in the tree rooted at err
func Reasons(err error) []string {
	if err == nil {
		return nil
	}
	var out []string
	if r, ok := err.(Reasoned); ok {
		out = append(out, r.Reason())
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			out = append(out, Reasons(inner)...)
		}
	case interface{ Unwrap() error }:
		out = append(out, Reasons(x.Unwrap())...)
	}
	return out
}

// GetHTTPStatus returns the HTTP status code for an error
// Returns 500 if the error doesn't implement AppError
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
// Returns "UNKNOWN_ERROR" if the error doesn't implement AppError
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
	Details any      `json:"details,omitempty"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Code:    GetErrorCode(err),
		Message: err.Error(),
		Reasons: Reasons(err),
	}
	var inUse *InUseError
	if errors.As(err, &inUse) {
		resp.Details = inUse.References
	}
	return resp
}
