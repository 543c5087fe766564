// Package errors provides standardized error messaging for conceptcheck
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFixture ErrorCategory = "FIXTURE"
	CategoryQuery   ErrorCategory = "QUERY"
	CategoryConfig  ErrorCategory = "CONFIG"
	CategoryConcept ErrorCategory = "CONCEPT"
)

// Codes shared by the constructors below.
const (
	CodeUnknownType        = "UNKNOWN_TYPE"
	CodeUnknownOperation   = "UNKNOWN_OPERATION"
	CodeUnknownSlot        = "UNKNOWN_SLOT"
	CodeUnknownConcept     = "UNKNOWN_CONCEPT"
	CodeUnknownFact        = "UNKNOWN_FACT"
	CodeArity              = "ARITY"
	CodeSchemaVersion      = "SCHEMA_VERSION"
	CodeTypeSyntax         = "TYPE_SYNTAX"
	CodeInvalidDecl        = "INVALID_DECL"
	CodeInvalidConfig      = "INVALID_CONFIG"
	CodeStructuralMismatch = "STRUCTURAL_MISMATCH"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	Err      error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.Err }

// Is matches another StandardError with the same category and code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Category == e.Category && t.Code == e.Code
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Wrap attaches a cause.
func (e *StandardError) Wrap(err error) *StandardError {
	e.Err = err
	return e
}

// HasCode reports whether err is or wraps a StandardError with code.
func HasCode(err error, code string) bool {
	var se *StandardError
	return stderrors.As(err, &se) && se.Code == code
}

// Common error constructors
func UnknownType(name string) *StandardError {
	return NewStandardError(CategoryQuery, CodeUnknownType,
		fmt.Sprintf("unknown type %q", name),
		map[string]interface{}{"type": name})
}

func UnknownOperation(name string) *StandardError {
	return NewStandardError(CategoryQuery, CodeUnknownOperation,
		fmt.Sprintf("unknown operation %q", name),
		map[string]interface{}{"operation": name})
}

func UnknownSlot(name string) *StandardError {
	return NewStandardError(CategoryQuery, CodeUnknownSlot,
		fmt.Sprintf("unknown associated type %q", name),
		map[string]interface{}{"slot": name})
}

func UnknownConcept(name string) *StandardError {
	return NewStandardError(CategoryConcept, CodeUnknownConcept,
		fmt.Sprintf("unknown concept %q", name),
		map[string]interface{}{"concept": name})
}

func UnknownFact(name string) *StandardError {
	return NewStandardError(CategoryQuery, CodeUnknownFact,
		fmt.Sprintf("unknown fact %q", name),
		map[string]interface{}{"fact": name})
}

func Arity(name, want string, got int) *StandardError {
	return NewStandardError(CategoryQuery, CodeArity,
		fmt.Sprintf("%s takes %s arguments, got %d", name, want, got),
		map[string]interface{}{"name": name, "want": want, "got": got})
}

func SchemaVersion(version, constraint string) *StandardError {
	return NewStandardError(CategoryFixture, CodeSchemaVersion,
		fmt.Sprintf("schema version %q does not satisfy %s", version, constraint),
		map[string]interface{}{"version": version, "constraint": constraint})
}

func TypeSyntax(src string, err error) *StandardError {
	return NewStandardError(CategoryQuery, CodeTypeSyntax,
		fmt.Sprintf("cannot parse type %q", src),
		map[string]interface{}{"source": src}).Wrap(err)
}

func InvalidDecl(name, reason string) *StandardError {
	return NewStandardError(CategoryFixture, CodeInvalidDecl,
		fmt.Sprintf("declaration %s: %s", name, reason),
		map[string]interface{}{"decl": name})
}

func InvalidConfig(field, reason string) *StandardError {
	return NewStandardError(CategoryConfig, CodeInvalidConfig,
		fmt.Sprintf("%s: %s", field, reason),
		map[string]interface{}{"field": field})
}

// StructuralMismatch reports that args do not model concept.
func StructuralMismatch(concept string, args []string) *StandardError {
	return NewStandardError(CategoryConcept, CodeStructuralMismatch,
		fmt.Sprintf("%v does not satisfy %s", args, concept),
		map[string]interface{}{"concept": concept, "args": args})
}
