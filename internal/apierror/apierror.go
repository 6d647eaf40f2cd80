// Package apierror holds the JSON envelope every 4xx/5xx response uses.
// Handlers never put raw storage or runtime errors in it.
package apierror

// Fixed client-facing messages.
const (
	MsgInternal   = "Erro interno do servidor"
	MsgValidation = "Erro de validação"
)

// APIError is the body of an error response. Fields is only present for
// validation failures and maps JSON field names to the rule that failed.
type APIError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func Internal() *APIError {
	return New(MsgInternal)
}

func NewValidation(fields map[string]string) *APIError {
	return &APIError{Detail: MsgValidation, Fields: fields}
}
