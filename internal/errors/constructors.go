package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *LinkOnceError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *LinkOnceError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *LinkOnceError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Source and index errors

func SourceError(location string, cause error) *LinkOnceError {
	return Wrap(cause, CategorySource, SeverityFatal, "content source unavailable").
		WithContext("location", location)
}

func IndexError(operation string, cause error) *LinkOnceError {
	return Wrap(cause, CategoryIndex, SeverityFatal, "page index operation failed").
		WithContext("operation", operation)
}

// Render errors

func RenderError(page string, cause error) *LinkOnceError {
	return Wrap(cause, CategoryRender, SeverityError, "page render failed").
		WithContext("page", page)
}

func OutputError(operation string, cause error) *LinkOnceError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *LinkOnceError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
