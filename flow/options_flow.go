package flow

import (
	"context"
	"fmt"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/repo"
	"github.com/HavvokLab/solix-setup/schema"
	"github.com/rs/zerolog"
)

// OptionsFlow edits the options of an existing entry. Devices are not
// reconciled here, the reload service prunes them on its next run.
type OptionsFlow struct {
	entry     *model.ConfigEntry
	builder   *schema.Builder
	entryRepo repo.ConfigEntryRepo
	auditRepo repo.AuditRepo
	logger    zerolog.Logger
	state     State
	pending   *model.Options
}

func NewOptionsFlow(
	entry *model.ConfigEntry,
	builder *schema.Builder,
	entryRepo repo.ConfigEntryRepo,
	auditRepo repo.AuditRepo,
) *OptionsFlow {
	return &OptionsFlow{
		entry:     entry,
		builder:   builder,
		entryRepo: entryRepo,
		auditRepo: auditRepo,
		logger:    logger.New("flow.log"),
		state:     StateEditOptions,
	}
}

func (f *OptionsFlow) SetLogger(l zerolog.Logger) {
	f.logger = l
}

func (f *OptionsFlow) State() State {
	return f.state
}

func (f *OptionsFlow) Start() (*Result, error) {
	f.state = StateEditOptions
	f.pending = nil
	return f.form(nil)
}

func (f *OptionsFlow) form(errs map[string]string) (*Result, error) {
	current := f.pending
	if current == nil {
		current = &f.entry.Options
	}

	fields, err := f.builder.OptionsFields(current)
	if err != nil {
		return nil, fmt.Errorf("build options form: %w", err)
	}

	return formResult(StepInit, fields, errs, nil), nil
}

// Submit stores the submitted options on the entry.
func (f *OptionsFlow) Submit(ctx context.Context, values map[string]any) (*Result, error) {
	if f.state != StateEditOptions {
		return nil, fmt.Errorf("%w: options in state %s", ErrUnexpectedStep, f.state)
	}

	opts, decodeErrs := decodeOptions(f.entry.Options, values)
	if !f.builder.AllowTestMode {
		opts.TestMode = false
		opts.TestFolder = ""
	}
	f.pending = &opts

	fields, err := f.builder.OptionsFields(&opts)
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
		return formResult(StepInit, fields, errs, nil), nil
	}

	updated, err := f.entryRepo.UpdateOptions(f.entry.ID, opts)
	if err != nil {
		f.logger.Error().Err(err).Int64("entry_id", f.entry.ID).Msg("OptionsFlow::Submit() - failed to update options")
		return nil, fmt.Errorf("update options of entry %d: %w", f.entry.ID, err)
	}

	f.logger.Info().
		Int64("entry_id", updated.ID).
		Str("username", updated.UniqueID).
		Strs("excluded_categories", updated.Options.ExcludedCategories).
		Msg("OptionsFlow::Submit() - options updated")

	event := model.NewAuditEvent(updated.Domain, updated.UniqueID, model.AuditOptionsUpdated)
	event.EntryID = updated.ID
	indexAudit(f.auditRepo, f.logger, event)

	f.entry = updated
	f.state = StateFinished
	return &Result{Type: ResultCreateEntry, Title: updated.Title, Entry: updated}, nil
}

func (f *OptionsFlow) Step(ctx context.Context, stepID string, values map[string]any) (*Result, error) {
	if stepID != StepInit {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStep, stepID)
	}
	if values == nil {
		return f.Start()
	}
	return f.Submit(ctx, values)
}
