package models

import "time"

const PhoneEventTable = "phonebook_events"

const (
	EventRecordAdded   = "RECORD_ADDED"
	EventRecordUpdated = "RECORD_UPDATED"
	EventRecordDeleted = "RECORD_DELETED"
)

type (
	// PhoneEvent is an audit entry written after every successful change to
	// the phonebook table.
	PhoneEvent struct {
		ID        string `gorm:"primaryKey;type:varchar(36)"`
		RecordID  int    `json:"record_id" gorm:"index"`
		Name      string `gorm:"type:varchar(100)"`
		Number    string `gorm:"type:varchar(100)"`
		EventType string `json:"event_type" gorm:"type:varchar(32)"`
		CreatedAt time.Time
	}
)

func (PhoneEvent) TableName() string { return PhoneEventTable }
