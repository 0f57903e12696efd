package solix

import (
	"errors"
	"fmt"
)

// Response codes returned by the cloud.
const (
	CodeSuccess               = 0
	CodeUnauthorized          = 401
	CodeForbidden             = 403
	CodeConnectError          = 997
	CodeNetworkError          = 998
	CodeServerError           = 999
	CodeTokenKickedOut        = 26084
	CodeInvalidCredentials    = 26108
	CodeInvalidCredentialsAlt = 26156
	CodeRetryExceeded         = 100053
)

// AuthenticationError means the cloud rejected the credentials or token.
type AuthenticationError struct {
	Code    int
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("Authentication failed: (%d) %s", e.Code, e.Message)
}

// CommunicationError means the cloud could not be reached.
type CommunicationError struct {
	Message string
	Err     error
}

func (e *CommunicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Api Connection Error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("Api Connection Error: %s", e.Message)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// RetryExceededError means the cloud refuses further login attempts.
type RetryExceededError struct {
	Code    int
	Message string
}

func (e *RetryExceededError) Error() string {
	return fmt.Sprintf("Login Retries exceeded: (%d) %s", e.Code, e.Message)
}

// RequestError is any other failed request.
type RequestError struct {
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Api Request Error: (%d) %s", e.Code, e.Message)
}

func errorFromCode(code int, message string) error {
	switch code {
	case CodeUnauthorized, CodeForbidden, CodeTokenKickedOut, CodeInvalidCredentials, CodeInvalidCredentialsAlt:
		return &AuthenticationError{Code: code, Message: message}
	case CodeConnectError, CodeNetworkError:
		return &CommunicationError{Message: fmt.Sprintf("(%d) %s", code, message)}
	case CodeRetryExceeded:
		return &RetryExceededError{Code: code, Message: message}
	default:
		return &RequestError{Code: code, Message: message}
	}
}

func IsAuthenticationError(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsCommunicationError(err error) bool {
	var target *CommunicationError
	return errors.As(err, &target)
}

func IsRetryExceededError(err error) bool {
	var target *RetryExceededError
	return errors.As(err, &target)
}
