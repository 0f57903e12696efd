package reload

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/pkg/logger"
	"github.com/HavvokLab/solix-setup/reconcile"
	"github.com/HavvokLab/solix-setup/repo"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
)

var ErrDeviceConflict = errors.New("devices are configured by another account")

type DeviceReconciler interface {
	CheckAndRemoveDevices(ctx context.Context, username string, apiData model.ApiData, excluded []string) (*model.ConfigEntry, error)
}

// Service refreshes the device registry of every configured entry.
type Service struct {
	domain     string
	entryRepo  repo.ConfigEntryRepo
	deviceRepo repo.DeviceRegistryRepo
	reconciler DeviceReconciler
	fetcher    Fetcher
	logger     zerolog.Logger

	// registry writes are serialized, fetching is not
	registryMu sync.Mutex
}

func NewService(
	domain string,
	entryRepo repo.ConfigEntryRepo,
	deviceRepo repo.DeviceRegistryRepo,
	reconciler DeviceReconciler,
	fetcher Fetcher,
) *Service {
	return &Service{
		domain:     domain,
		entryRepo:  entryRepo,
		deviceRepo: deviceRepo,
		reconciler: reconciler,
		fetcher:    fetcher,
		logger:     logger.New("reload.log"),
	}
}

func (s *Service) SetLogger(l zerolog.Logger) {
	s.logger = l
}

// ReloadAll reloads all entries of the domain concurrently.
func (s *Service) ReloadAll(ctx context.Context) error {
	entries, err := s.entryRepo.FindAll(s.domain)
	if err != nil {
		s.logger.Error().Err(err).Msg("Service::ReloadAll() - failed to find config entries")
		return err
	}

	if len(entries) == 0 {
		s.logger.Info().Msg("Service::ReloadAll() - no config entries found")
		return nil
	}

	var mu sync.Mutex
	var errs []error

	wg := conc.NewWaitGroup()
	for _, entry := range entries {
		entry := entry
		wg.Go(func() {
			if err := s.ReloadEntry(ctx, entry); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("entry %d: %w", entry.ID, err))
				mu.Unlock()
			}
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		err := fmt.Errorf("reload panic: %v", recovered.Value)
		s.logger.Error().Err(err).Msg("Service::ReloadAll() - recovered from panic")
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ReloadEntry fetches the data of one entry, prunes obsolete and excluded
// devices, then registers the remaining ones.
func (s *Service) ReloadEntry(ctx context.Context, entry model.ConfigEntry) error {
	log := s.logger.With().Int64("entry_id", entry.ID).Str("username", entry.UniqueID).Logger()

	data, err := s.fetcher.Fetch(ctx, entry)
	if err != nil {
		log.Error().Err(err).Msg("Service::ReloadEntry() - failed to fetch sites")
		return err
	}

	s.registryMu.Lock()
	defer s.registryMu.Unlock()

	excluded := entry.Options.ExcludedCategories
	conflict, err := s.reconciler.CheckAndRemoveDevices(ctx, entry.UniqueID, data, excluded)
	if err != nil {
		log.Error().Err(err).Msg("Service::ReloadEntry() - failed to reconcile devices")
		return err
	}
	if conflict != nil {
		log.Warn().Str("shared_account", conflict.Title).Msg("Service::ReloadEntry() - devices configured by another account")
		return fmt.Errorf("%w: %s", ErrDeviceConflict, conflict.Title)
	}

	exclusions := reconcile.ExpandExclusions(excluded)
	serials := make([]string, 0, len(data))
	for serial := range data {
		serials = append(serials, serial)
	}
	sort.Strings(serials)

	registered := 0
	for _, serial := range serials {
		record := data[serial]
		if record.Type != "" && exclusions.Contains(record.Type) {
			continue
		}

		device := &model.DeviceEntry{
			ConfigEntryID: entry.ID,
			SerialNumber:  serial,
			Name:          record.Name,
			Type:          record.Type,
			Model:         record.Model,
			SiteID:        record.SiteID,
		}
		if err := s.deviceRepo.Upsert(device); err != nil {
			log.Error().Err(err).Str("serial_number", serial).Msg("Service::ReloadEntry() - failed to register device")
			return err
		}
		registered++
	}

	log.Info().Int("device_count", registered).Msg("Service::ReloadEntry() - reload successfully")
	return nil
}
