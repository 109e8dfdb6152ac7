package errors

// Field-level error codes reported inside validation details.
const (
	FieldEmpty                = "EMPTY"
	FieldTooLong              = "TOO_LONG"
	FieldInvalidStatus        = "INVALID_STATUS"
	FieldInvalidIDFormat      = "INVALID_ID_FORMAT"
	FieldNotFound             = "NOT_FOUND"
	FieldEmptyFileName        = "EMPTY_FILE_NAME"
	FieldInvalidFileExtension = "INVALID_FILE_EXTENSION"
	FieldEmptyFileContent     = "EMPTY_FILE_CONTENT"
	FieldImageTooLarge        = "IMAGE_TOO_LARGE"
	FieldInvalid              = "INVALID"
)

// FieldError is a single problem with one field.
type FieldError struct {
	Code   string `json:"code"`
	Params []any  `json:"params"`
}

// FieldErrors maps a field name to every problem found on it.
// The zero value is ready to use.
type FieldErrors map[string][]FieldError

// Add records a problem for field. Params are reported verbatim to the client.
func (fe *FieldErrors) Add(field, code string, params ...any) {
	if *fe == nil {
		*fe = make(FieldErrors)
	}
	if params == nil {
		params = []any{}
	}
	(*fe)[field] = append((*fe)[field], FieldError{Code: code, Params: params})
}

// Merge copies all problems from other into fe.
func (fe *FieldErrors) Merge(other FieldErrors) {
	for field, errs := range other {
		for _, e := range errs {
			fe.Add(field, e.Code, e.Params...)
		}
	}
}

// Has reports whether field has a problem with the given code.
func (fe FieldErrors) Has(field, code string) bool {
	for _, e := range fe[field] {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err returns a validation error carrying fe as details, or nil when fe is empty.
func (fe FieldErrors) Err(msg string) error {
	if len(fe) == 0 {
		return nil
	}
	return ValidationWithDetails(msg, fe)
}
