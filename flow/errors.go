package flow

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/HavvokLab/solix-setup/api/solix"
)

var (
	ErrAlreadyConfigured = errors.New("account is already configured")
	ErrUnexpectedStep    = errors.New("unexpected step")
)

// Form error codes.
const (
	ErrCodeAcceptTerms      = "accept_terms"
	ErrCodeDuplicateDevices = "duplicate_devices"
	ErrCodeFolderInvalid    = "folder_invalid"
	ErrCodeAuth             = "auth"
	ErrCodeConnection       = "connection"
	ErrCodeExceeded         = "exceeded"
	ErrCodeUnknown          = "unknown"
	ErrCodeRequired         = "required"
	ErrCodeInvalidEmail     = "invalid_email"
	ErrCodeInvalidCountry   = "invalid_country"
)

// ValidationError carries field errors of a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// DeviceConflictError means a device of the account is registered under
// another configured account.
type DeviceConflictError struct {
	Username      string
	SharedAccount string
}

func (e *DeviceConflictError) Error() string {
	return fmt.Sprintf("devices of %s are already configured by %s", e.Username, e.SharedAccount)
}

// authErrorCode maps an authentication failure to its form error and detail.
func authErrorCode(err error) (string, string) {
	switch {
	case solix.IsAuthenticationError(err):
		return ErrCodeAuth, err.Error()
	case solix.IsCommunicationError(err):
		return ErrCodeConnection, err.Error()
	case solix.IsRetryExceededError(err):
		return ErrCodeExceeded, err.Error()
	default:
		return ErrCodeUnknown, fmt.Sprintf("Exception %T: %v", err, err)
	}
}
