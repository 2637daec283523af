package persist

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ilivestrong/phonebook/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCreateEventFailed = errors.New("failed to create event")
	ErrListEventsFailed  = errors.New("failed to get event list")
)

type (
	EventRepo interface {
		Create(record *models.PhoneRecord, eventType string) (string, error)
		List(name string) ([]models.PhoneEvent, error)
	}
	eventRepository struct {
		db *gorm.DB
	}
)

func (er *eventRepository) Create(record *models.PhoneRecord, eventType string) (string, error) {
	newEvent := models.PhoneEvent{
		ID:        uuid.New().String(),
		RecordID:  record.ID,
		Name:      record.Name,
		Number:    record.Number,
		EventType: eventType,
	}
	result := er.db.Create(&newEvent)

	if result.Error != nil {
		return "", fmt.Errorf("%w: %v", ErrCreateEventFailed, result.Error)
	}
	if result.RowsAffected == 0 {
		return "", ErrCreateEventFailed
	}
	return newEvent.ID, nil
}

// List returns the events recorded for a normalized name, oldest first.
func (er *eventRepository) List(name string) ([]models.PhoneEvent, error) {
	var events []models.PhoneEvent
	result := er.db.Where("name = ?", name).Order("created_at, id").Find(&events)

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrListEventsFailed, result.Error)
	}
	return events, nil
}

func NewEventRepository(db *gorm.DB) EventRepo {
	return &eventRepository{db}
}
