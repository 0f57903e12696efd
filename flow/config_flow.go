package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/pkg/util"
	"github.com/HavvokLab/solix-setup/repo"
	"github.com/HavvokLab/solix-setup/schema"
	"github.com/HavvokLab/solix-setup/setting"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Settings struct {
	Domain         string
	DefaultCountry string
	TermsLink      string
	ExamplesFolder string
}

func SettingsFromConfig(conf *config.Config, examplesFolder string) Settings {
	return Settings{
		Domain:         conf.Setup.Domain,
		DefaultCountry: conf.Setup.DefaultCountry,
		TermsLink:      conf.Setup.TermsLink,
		ExamplesFolder: examplesFolder,
	}
}

// ConfigFlow is the initial setup wizard of one account.
type ConfigFlow struct {
	settings   Settings
	builder    *schema.Builder
	entryRepo  repo.ConfigEntryRepo
	reconciler DeviceReconciler
	auth       Authenticator
	auditRepo  repo.AuditRepo
	validate   *validator.Validate
	logger     zerolog.Logger

	state   State
	input   model.CredentialInput
	session Session
	options *model.Options
}

func NewConfigFlow(
	settings Settings,
	builder *schema.Builder,
	entryRepo repo.ConfigEntryRepo,
	reconciler DeviceReconciler,
	auth Authenticator,
	auditRepo repo.AuditRepo,
) *ConfigFlow {
	return &ConfigFlow{
		settings:   settings,
		builder:    builder,
		entryRepo:  entryRepo,
		reconciler: reconciler,
		auth:       auth,
		auditRepo:  auditRepo,
		validate:   newValidator(),
		logger:     logger.New("flow.log"),
		state:      StateCollectCredentials,
	}
}

func (f *ConfigFlow) SetLogger(l zerolog.Logger) {
	f.logger = l
}

func (f *ConfigFlow) State() State {
	return f.state
}

func (f *ConfigFlow) transition(to State) {
	f.logger.Debug().Str("from", string(f.state)).Str("to", string(to)).Msg("ConfigFlow::transition()")
	f.state = to
}

// Start renders the credential form. An aborted or finished flow cannot be
// restarted.
func (f *ConfigFlow) Start() (*Result, error) {
	if f.terminated() {
		return nil, fmt.Errorf("%w: start in state %s", ErrUnexpectedStep, f.state)
	}

	f.transition(StateCollectCredentials)
	return f.credentialForm(nil, nil), nil
}

func (f *ConfigFlow) terminated() bool {
	return f.state == StateAborted || f.state == StateFinished
}

func (f *ConfigFlow) credentialForm(errs, placeholders map[string]string) *Result {
	if placeholders == nil {
		placeholders = map[string]string{}
	}
	placeholders[setting.PlaceholderTermsLink] = f.settings.TermsLink

	fields := f.builder.CredentialFields(&f.input, f.settings.DefaultCountry)
	return formResult(StepUser, fields, errs, placeholders)
}

func (f *ConfigFlow) optionsForm(errs map[string]string) (*Result, error) {
	fields, err := f.builder.OptionsFields(f.options)
	if err != nil {
		return nil, fmt.Errorf("build options form: %w", err)
	}

	return formResult(StepUserOptions, fields, errs, nil), nil
}

// SubmitCredentials handles the account form. Authentication failures and
// device conflicts redisplay the form; an already configured account aborts.
func (f *ConfigFlow) SubmitCredentials(ctx context.Context, input model.CredentialInput) (*Result, error) {
	if f.state != StateCollectCredentials && f.state != StateShowError {
		return nil, fmt.Errorf("%w: credentials in state %s", ErrUnexpectedStep, f.state)
	}

	f.input = input
	creds := input.Credentials()

	if !input.AcceptTerms {
		f.transition(StateCollectCredentials)
		return f.credentialForm(map[string]string{setting.KeyAcceptTerms: ErrCodeAcceptTerms}, nil), nil
	}

	if err := validateCredentials(f.validate, input); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			f.transition(StateCollectCredentials)
			return f.credentialForm(verr.Fields, nil), nil
		}
		return nil, err
	}

	f.transition(StateCheckUniqueness)
	if err := f.checkUniqueness(creds); err != nil {
		if errors.Is(err, ErrAlreadyConfigured) {
			f.logger.Info().Str("username", creds.UniqueID()).Msg("ConfigFlow::SubmitCredentials() - account already configured")
			f.transition(StateAborted)
			return &Result{Type: ResultAbort, Reason: ReasonAlreadyConfigured}, nil
		}
		return f.showError(err), nil
	}

	f.transition(StateAuthenticate)
	session, err := f.auth.Authenticate(ctx, creds)
	if err != nil {
		return f.showError(err), nil
	}

	f.transition(StateFetchDevices)
	if err := session.UpdateSites(ctx); err != nil {
		return f.showError(err), nil
	}

	f.transition(StateReconcile)
	conflict, err := f.reconciler.CheckAndRemoveDevices(ctx, creds.Username, session.Data(), nil)
	if err != nil {
		return f.showError(err), nil
	}
	if conflict != nil {
		return f.showError(&DeviceConflictError{Username: creds.Username, SharedAccount: conflict.Title}), nil
	}

	f.session = session
	f.options = nil
	f.transition(StateCollectOptions)
	return f.optionsForm(nil)
}

func (f *ConfigFlow) checkUniqueness(creds model.Credentials) error {
	_, err := f.entryRepo.FindByUniqueID(f.settings.Domain, creds.UniqueID())
	if err == nil {
		return ErrAlreadyConfigured
	}
	if errors.Is(err, repo.ErrEntryNotFound) {
		return nil
	}
	return fmt.Errorf("check unique id: %w", err)
}

func (f *ConfigFlow) showError(err error) *Result {
	f.transition(StateShowError)

	var conflict *DeviceConflictError
	if errors.As(err, &conflict) {
		f.logger.Warn().
			Str("username", conflict.Username).
			Str("shared_account", conflict.SharedAccount).
			Msg("ConfigFlow::SubmitCredentials() - devices already configured by another account")
		return f.credentialForm(
			map[string]string{setting.KeyUsername: ErrCodeDuplicateDevices},
			map[string]string{
				setting.PlaceholderUsername:      conflict.Username,
				setting.PlaceholderSharedAccount: conflict.SharedAccount,
			},
		)
	}

	code, detail := authErrorCode(err)
	var event *zerolog.Event
	if code == ErrCodeAuth {
		event = f.logger.Warn()
	} else {
		event = f.logger.Error()
	}
	event.Err(err).
		Str("username", model.UniqueID(f.input.Username)).
		Str("error_code", code).
		Msg("ConfigFlow::SubmitCredentials() - failed to set up account")

	return f.credentialForm(
		map[string]string{setting.KeyBase: code},
		map[string]string{setting.PlaceholderErrorDetail: detail},
	)
}

// SubmitOptions handles the initial options form and creates the entry.
func (f *ConfigFlow) SubmitOptions(ctx context.Context, values map[string]any) (*Result, error) {
	if f.state != StateCollectOptions {
		return nil, fmt.Errorf("%w: options in state %s", ErrUnexpectedStep, f.state)
	}

	opts, decodeErrs := decodeOptions(model.DefaultOptions(), values)
	if !f.builder.AllowTestMode {
		opts.TestMode = false
		opts.TestFolder = ""
	}
	f.options = &opts

	fields, err := f.builder.OptionsFields(f.options)
	if err != nil {
		return nil, fmt.Errorf("build options form: %w", err)
	}

	errs, err := checkOptions(fields, opts)
	if err != nil {
		return nil, err
	}
	for k, code := range decodeErrs {
		errs[k] = code
	}
	if len(errs) > 0 {
		return formResult(StepUserOptions, fields, errs, nil), nil
	}

	f.transition(StatePersist)
	entry, err := f.persist(opts)
	if err != nil {
		f.transition(StateCollectOptions)
		return nil, err
	}

	f.transition(StateFinished)
	return &Result{Type: ResultCreateEntry, Title: entry.Title, Entry: entry}, nil
}

func (f *ConfigFlow) persist(opts model.Options) (*model.ConfigEntry, error) {
	creds := f.input.Credentials()

	title := ""
	if f.session != nil {
		title = f.session.Nickname()
	}
	if util.IsEmpty(title) {
		title = creds.Username
	}

	entry := &model.ConfigEntry{
		Domain:   f.settings.Domain,
		UniqueID: creds.UniqueID(),
		Title:    title,
		Data: model.EntryData{
			Username:       creds.Username,
			Password:       creds.Password,
			CountryCode:    creds.CountryCode,
			AcceptTerms:    f.input.AcceptTerms,
			ExamplesFolder: f.settings.ExamplesFolder,
		},
		Options: opts,
	}

	if err := f.entryRepo.Create(entry); err != nil {
		f.logger.Error().Err(err).Str("username", entry.UniqueID).Msg("ConfigFlow::persist() - failed to create config entry")
		return nil, fmt.Errorf("create config entry: %w", err)
	}

	f.logger.Info().
		Int64("entry_id", entry.ID).
		Str("username", entry.UniqueID).
		Str("title", entry.Title).
		Msg("ConfigFlow::persist() - config entry created")

	event := model.NewAuditEvent(f.settings.Domain, entry.UniqueID, model.AuditEntryCreated)
	event.EntryID = entry.ID
	event.Detail = entry.Title
	indexAudit(f.auditRepo, f.logger, event)

	return entry, nil
}

// Step dispatches a submission by step id. A nil bag renders the step.
func (f *ConfigFlow) Step(ctx context.Context, stepID string, values map[string]any) (*Result, error) {
	switch stepID {
	case StepUser:
		if values == nil {
			return f.Start()
		}
		if f.state != StateCollectCredentials && f.state != StateShowError {
			return nil, fmt.Errorf("%w: credentials in state %s", ErrUnexpectedStep, f.state)
		}

		var input model.CredentialInput
		if errs := decodeFields(values, &input); len(errs) > 0 {
			f.input = input
			f.transition(StateCollectCredentials)
			return f.credentialForm(errs, nil), nil
		}
		return f.SubmitCredentials(ctx, input)
	case StepUserOptions:
		if values == nil {
			if f.state != StateCollectOptions {
				return nil, fmt.Errorf("%w: options in state %s", ErrUnexpectedStep, f.state)
			}
			return f.optionsForm(nil)
		}
		return f.SubmitOptions(ctx, values)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStep, stepID)
	}
}

func indexAudit(auditRepo repo.AuditRepo, l zerolog.Logger, event model.AuditEvent) {
	if auditRepo == nil {
		return
	}

	if err := auditRepo.BulkIndex(repo.AuditIndexName(time.Now()), []interface{}{event}); err != nil {
		l.Error().Err(err).Str("action", string(event.Action)).Msg("indexAudit() - failed to index audit event")
	}
}
