package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/repo"
	"github.com/rs/zerolog"
)

type Reconciler struct {
	domain     string
	entryRepo  repo.ConfigEntryRepo
	deviceRepo repo.DeviceRegistryRepo
	auditRepo  repo.AuditRepo
	logger     zerolog.Logger
}

func NewReconciler(
	domain string,
	entryRepo repo.ConfigEntryRepo,
	deviceRepo repo.DeviceRegistryRepo,
	auditRepo repo.AuditRepo,
) *Reconciler {
	return &Reconciler{
		domain:     domain,
		entryRepo:  entryRepo,
		deviceRepo: deviceRepo,
		auditRepo:  auditRepo,
		logger:     logger.New("reconcile.log"),
	}
}

func (r *Reconciler) SetLogger(l zerolog.Logger) {
	r.logger = l
}

type obsoleteDevice struct {
	entry  model.ConfigEntry
	device model.DeviceEntry
}

// CheckAndRemoveDevices returns the first entry of another account that has a
// registered device present in apiData. When there is none, the devices of
// the account itself that are gone from apiData or of an excluded type are
// removed from the registry in scan order.
func (r *Reconciler) CheckAndRemoveDevices(
	ctx context.Context,
	username string,
	apiData model.ApiData,
	excluded []string,
) (*model.ConfigEntry, error) {
	uniqueID := model.UniqueID(username)
	exclusions := ExpandExclusions(excluded)

	entries, err := r.entryRepo.FindAll(r.domain)
	if err != nil {
		return nil, fmt.Errorf("list config entries: %w", err)
	}

	var obsolete []obsoleteDevice
	for i := range entries {
		entry := entries[i]
		devices, err := r.deviceRepo.FindByConfigEntry(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("list devices of entry %d: %w", entry.ID, err)
		}

		for _, device := range devices {
			if uniqueID != "" && uniqueID != entry.UniqueID {
				if apiData.Has(device.SerialNumber) {
					r.logger.Warn().
						Str("username", uniqueID).
						Str("shared_account", entry.Title).
						Str("serial_number", device.SerialNumber).
						Msg("Reconciler::CheckAndRemoveDevices() - device registered for another account")
					r.audit(model.AuditEvent{
						Timestamp:    time.Now().UTC(),
						Domain:       r.domain,
						UniqueID:     uniqueID,
						Action:       model.AuditDeviceConflict,
						EntryID:      entry.ID,
						DeviceID:     device.ID,
						SerialNumber: device.SerialNumber,
						Detail:       entry.Title,
					})
					return &entry, nil
				}
				continue
			}

			record, ok := apiData[device.SerialNumber]
			if !ok || (record.Type != "" && exclusions.Contains(record.Type)) {
				obsolete = append(obsolete, obsoleteDevice{entry: entry, device: device})
			}
		}
	}

	var events []interface{}
	var errs []error
	for _, o := range obsolete {
		if err := r.deviceRepo.Remove(o.device.ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("device_id", o.device.ID).
				Str("serial_number", o.device.SerialNumber).
				Msg("Reconciler::CheckAndRemoveDevices() - failed to remove device")
			errs = append(errs, fmt.Errorf("remove device %d: %w", o.device.ID, err))
			continue
		}

		r.logger.Info().
			Int64("device_id", o.device.ID).
			Str("serial_number", o.device.SerialNumber).
			Msg("Reconciler::CheckAndRemoveDevices() - removed device entry due to excluded entities or unused device")

		event := model.NewAuditEvent(r.domain, o.entry.UniqueID, model.AuditDeviceRemoved)
		event.EntryID = o.entry.ID
		event.DeviceID = o.device.ID
		event.SerialNumber = o.device.SerialNumber
		events = append(events, event)
	}
	r.flush(events)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

func (r *Reconciler) audit(event model.AuditEvent) {
	r.flush([]interface{}{event})
}

func (r *Reconciler) flush(events []interface{}) {
	if r.auditRepo == nil || len(events) == 0 {
		return
	}

	if err := r.auditRepo.BulkIndex(repo.AuditIndexName(time.Now()), events); err != nil {
		r.logger.Error().Err(err).Int("count", len(events)).Msg("Reconciler::flush() - failed to index audit events")
	}
}
