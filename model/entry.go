package model

import (
	"time"

	"github.com/HavvokLab/solix-setup/setting"
)

type Options struct {
	ScanInterval       float64  `json:"scan_interval" mapstructure:"scan_interval"`
	IntervalMultiplier int      `json:"interval_multiplier" mapstructure:"interval_multiplier"`
	RequestDelay       float64  `json:"request_delay" mapstructure:"request_delay"`
	ExcludedCategories []string `json:"excluded_categories" mapstructure:"excluded_categories"`
	TestMode           bool     `json:"test_mode" mapstructure:"test_mode"`
	TestFolder         string   `json:"test_folder,omitempty" mapstructure:"test_folder"`
}

func DefaultOptions() Options {
	return Options{
		ScanInterval:       setting.ScanIntervalDefault,
		IntervalMultiplier: setting.IntervalMultiplierDefault,
		RequestDelay:       setting.RequestDelayDefault,
		ExcludedCategories: append([]string(nil), DefaultExcludeCategories...),
	}
}

// EntryData is the immutable part of a configuration entry.
type EntryData struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	CountryCode    string `json:"country_code"`
	AcceptTerms    bool   `json:"accept_terms"`
	ExamplesFolder string `json:"examples_folder"`
}

func (d EntryData) Credentials() Credentials {
	return Credentials{Username: d.Username, Password: d.Password, CountryCode: d.CountryCode}
}

type ConfigEntry struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id"`
	Domain    string     `gorm:"column:domain;uniqueIndex:idx_domain_unique_id" json:"domain"`
	UniqueID  string     `gorm:"column:unique_id;uniqueIndex:idx_domain_unique_id" json:"unique_id"`
	Title     string     `gorm:"column:title" json:"title"`
	Data      EntryData  `gorm:"column:data;serializer:json" json:"data"`
	Options   Options    `gorm:"column:options;serializer:json" json:"options"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (*ConfigEntry) TableName() string {
	return "tbl_config_entries"
}

type DeviceEntry struct {
	ID            int64      `gorm:"column:id;primaryKey" json:"id" csv:"id"`
	ConfigEntryID int64      `gorm:"column:config_entry_id;index" json:"config_entry_id" csv:"config_entry_id"`
	SerialNumber  string     `gorm:"column:serial_number;index" json:"serial_number" csv:"serial_number"`
	Name          string     `gorm:"column:name" json:"name" csv:"name"`
	Type          string     `gorm:"column:type" json:"type" csv:"type"`
	Model         string     `gorm:"column:model" json:"model" csv:"model"`
	SiteID        string     `gorm:"column:site_id" json:"site_id" csv:"site_id"`
	CreatedAt     *time.Time `gorm:"column:created_at" json:"created_at" csv:"-"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at" csv:"updated_at"`
}

func (*DeviceEntry) TableName() string {
	return "tbl_device_entries"
}
