package flow

import (
	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/schema"
)

type State string

const (
	StateCollectCredentials State = "collect_credentials"
	StateAuthenticate       State = "authenticate"
	StateCheckUniqueness    State = "check_uniqueness"
	StateFetchDevices       State = "fetch_devices"
	StateReconcile          State = "reconcile"
	StateCollectOptions     State = "collect_options"
	StatePersist            State = "persist"
	StateShowError          State = "show_error"
	StateAborted            State = "aborted"
	StateFinished           State = "finished"
	StateEditOptions        State = "edit_options"
)

const (
	StepUser        = "user"
	StepUserOptions = "user_options"
	StepInit        = "init"
)

type ResultType string

const (
	ResultForm        ResultType = "form"
	ResultCreateEntry ResultType = "create_entry"
	ResultAbort       ResultType = "abort"
)

const ReasonAlreadyConfigured = "already_configured"

// Result is what a form host renders after each step.
type Result struct {
	Type         ResultType         `json:"type"`
	StepID       string             `json:"step_id,omitempty"`
	Fields       []schema.Field     `json:"fields,omitempty"`
	Errors       map[string]string  `json:"errors,omitempty"`
	Placeholders map[string]string  `json:"placeholders,omitempty"`
	Title        string             `json:"title,omitempty"`
	Entry        *model.ConfigEntry `json:"entry,omitempty"`
	Reason       string             `json:"reason,omitempty"`
}

func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func formResult(stepID string, fields []schema.Field, errs, placeholders map[string]string) *Result {
	if errs == nil {
		errs = map[string]string{}
	}
	if placeholders == nil {
		placeholders = map[string]string{}
	}

	return &Result{
		Type:         ResultForm,
		StepID:       stepID,
		Fields:       fields,
		Errors:       errs,
		Placeholders: placeholders,
	}
}
