package export

// ExportError describes a failure to produce one artifact.
type ExportError struct {
	Artifact string `json:"artifact"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Cause    error  `json:"-"`
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return e.Message + " (" + e.Path + "): " + e.Cause.Error()
	}
	return e.Message + " (" + e.Path + ")"
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new export error.
func NewExportError(artifact, path, message string, cause error) *ExportError {
	return &ExportError{
		Artifact: artifact,
		Path:     path,
		Message:  message,
		Cause:    cause,
	}
}
