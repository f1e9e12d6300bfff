package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError values.
type ErrorBuilder struct {
	category ErrorCategory
	message  string
	cause    error
	context  ErrorContext
}

// NewError starts a builder for the given category.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{category: category, message: message, context: make(ErrorContext)}
}

// WrapError starts a builder around an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// SchemaError is an unresolvable or malformed schema. It aborts compilation.
func SchemaError(message string) *ErrorBuilder {
	return NewError(CategorySchema, message)
}

// NotFound is a missing or unreadable content record.
func NotFound(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message)
}

// Unauthenticated is a remote fetch attempted without a stored credential.
func Unauthenticated(message string) *ErrorBuilder {
	return NewError(CategoryAuth, message)
}

// TransportError is a failed remote call.
func TransportError(message string) *ErrorBuilder {
	return NewError(CategoryTransport, message)
}

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message)
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}
