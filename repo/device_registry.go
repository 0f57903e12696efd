package repo

import (
	"errors"

	"github.com/HavvokLab/solix-setup/model"
	"gorm.io/gorm"
)

var ErrDeviceNotFound = errors.New("device entry not found")

type DeviceRegistryRepo interface {
	FindAll() ([]model.DeviceEntry, error)
	FindByConfigEntry(configEntryID int64) ([]model.DeviceEntry, error)
	Upsert(device *model.DeviceEntry) error
	Remove(id int64) error
}

type deviceRegistryRepo struct {
	db *gorm.DB
}

func NewDeviceRegistryRepo(db *gorm.DB) DeviceRegistryRepo {
	return &deviceRegistryRepo{db: db}
}

func (r *deviceRegistryRepo) FindAll() ([]model.DeviceEntry, error) {
	var devices []model.DeviceEntry
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Order("config_entry_id").Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}

	return devices, nil
}

// FindByConfigEntry returns the devices of an entry in registration order.
func (r *deviceRegistryRepo) FindByConfigEntry(configEntryID int64) ([]model.DeviceEntry, error) {
	var devices []model.DeviceEntry
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Where("config_entry_id = ?", configEntryID).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}

	return devices, nil
}

// Upsert registers a device for its entry, keyed by serial number.
func (r *deviceRegistryRepo) Upsert(device *model.DeviceEntry) error {
	tx := r.db.Session(&gorm.Session{})

	var existing model.DeviceEntry
	err := tx.Where("config_entry_id = ? AND serial_number = ?", device.ConfigEntryID, device.SerialNumber).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(device).Error
	}
	if err != nil {
		return err
	}

	existing.Name = device.Name
	existing.Type = device.Type
	existing.Model = device.Model
	existing.SiteID = device.SiteID
	if err := tx.Save(&existing).Error; err != nil {
		return err
	}

	*device = existing
	return nil
}

func (r *deviceRegistryRepo) Remove(id int64) error {
	tx := r.db.Session(&gorm.Session{})
	result := tx.Where("id = ?", id).Delete(&model.DeviceEntry{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}
