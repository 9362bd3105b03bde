package llm

import "fmt"

// Kind classifies a LanguageModelError.
type Kind string

const (
	// The request could not be built from the input.
	InvalidInput Kind = "invalid_input"
	// The provider could not be reached or its body could not be read.
	Transport Kind = "transport"
	// The provider answered with a non-2xx status.
	StatusCode Kind = "status_code"
	// The provider answered with something the client cannot use.
	Invariant Kind = "invariant"
	// The model declined to answer.
	Refusal Kind = "refusal"
)

type LanguageModelError struct {
	Kind     Kind
	Message  string
	Err      error
	Provider string
	// Status is set for StatusCode errors.
	Status int
}

func (e *LanguageModelError) Error() string {
	msg := e.Message
	switch e.Kind {
	case Transport:
		msg = fmt.Sprintf("request failed: %v", e.Err)
	case StatusCode:
		msg = fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	if e.Provider != "" {
		return fmt.Sprintf("llm %s (%s): %s", e.Kind, e.Provider, msg)
	}
	return fmt.Sprintf("llm %s: %s", e.Kind, msg)
}

func (e *LanguageModelError) Unwrap() error {
	return e.Err
}

func NewInvalidInputError(msg string) *LanguageModelError {
	return &LanguageModelError{Kind: InvalidInput, Message: msg}
}

func NewTransportError(err error) *LanguageModelError {
	return &LanguageModelError{Kind: Transport, Err: err}
}

func NewStatusCodeError(status int, body string) *LanguageModelError {
	return &LanguageModelError{Kind: StatusCode, Status: status, Message: body}
}

func NewInvariantError(provider, msg string) *LanguageModelError {
	return &LanguageModelError{Kind: Invariant, Provider: provider, Message: msg}
}

func NewRefusalError(msg string) *LanguageModelError {
	return &LanguageModelError{Kind: Refusal, Message: msg}
}
