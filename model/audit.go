package model

import "time"

const AuditIndex = "solix-setup"

type AuditAction string

const (
	AuditEntryCreated   AuditAction = "entry_created"
	AuditOptionsUpdated AuditAction = "options_updated"
	AuditDeviceRemoved  AuditAction = "device_removed"
	AuditDeviceConflict AuditAction = "device_conflict"
)

type AuditEvent struct {
	Timestamp    time.Time   `json:"@timestamp"`
	Domain       string      `json:"domain"`
	UniqueID     string      `json:"unique_id"`
	Action       AuditAction `json:"action"`
	EntryID      int64       `json:"entry_id,omitempty"`
	DeviceID     int64       `json:"device_id,omitempty"`
	SerialNumber string      `json:"serial_number,omitempty"`
	Detail       string      `json:"detail,omitempty"`
}

func NewAuditEvent(domain, uniqueID string, action AuditAction) AuditEvent {
	return AuditEvent{
		Timestamp: time.Now().UTC(),
		Domain:    domain,
		UniqueID:  uniqueID,
		Action:    action,
	}
}
