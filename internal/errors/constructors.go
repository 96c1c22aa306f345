package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Passthrough errors

func PassthroughMissing(path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "passthrough source does not exist").
		WithContext("path", path)
}

func CopyFailed(src, dst string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "passthrough copy failed").
		WithContext("source", src).
		WithContext("destination", dst)
}

func OutputCleanFailed(dir string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to clean output directory").
		WithContext("path", dir)
}

// Plugin and render errors

func PluginFailed(name, operation string, cause error) *SiteError {
	return Wrap(cause, CategoryPlugin, SeverityFatal, "plugin failed").
		WithContext("plugin", name).
		WithContext("operation", operation)
}

func RenderFailed(cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "render phase failed")
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}

// Canceled wraps a context cancellation or deadline error.
func Canceled(cause error) *SiteError {
	return Wrap(cause, CategoryCanceled, SeverityFatal, "build canceled")
}
