package repo

import (
	"errors"

	"github.com/HavvokLab/solix-setup/model"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("config entry not found")

type ConfigEntryRepo interface {
	FindAll(domain string) ([]model.ConfigEntry, error)
	FindByUniqueID(domain, uniqueID string) (*model.ConfigEntry, error)
	Create(entry *model.ConfigEntry) error
	UpdateOptions(id int64, options model.Options) (*model.ConfigEntry, error)
}

type configEntryRepo struct {
	db *gorm.DB
}

func NewConfigEntryRepo(db *gorm.DB) ConfigEntryRepo {
	return &configEntryRepo{db: db}
}

// FindAll returns the entries of a domain in creation order.
func (r *configEntryRepo) FindAll(domain string) ([]model.ConfigEntry, error) {
	var entries []model.ConfigEntry
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Where("domain = ?", domain).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *configEntryRepo) FindByUniqueID(domain, uniqueID string) (*model.ConfigEntry, error) {
	var entry model.ConfigEntry
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Where("domain = ? AND unique_id = ?", domain, uniqueID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	return &entry, nil
}

func (r *configEntryRepo) Create(entry *model.ConfigEntry) error {
	tx := r.db.Session(&gorm.Session{})
	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	return nil
}

func (r *configEntryRepo) UpdateOptions(id int64, options model.Options) (*model.ConfigEntry, error) {
	var entry model.ConfigEntry
	tx := r.db.Session(&gorm.Session{})
	if err := tx.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	entry.Options = options
	if err := tx.Save(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}
