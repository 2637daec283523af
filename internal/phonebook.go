package internal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/ilivestrong/phonebook/internal/models"
	"github.com/ilivestrong/phonebook/internal/persist"
	mq "github.com/ilivestrong/phonebook/internal/rabbitmq"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	NoResult = "No Result"

	publishTimeout = 5 * time.Second
)

type Status int

const (
	StatusAdded Status = iota + 1
	StatusAlreadyExists
	StatusUpdated
	StatusDeleted
	StatusNotFound
)

type (
	// Person is a phone record as shown to users, with a title-cased name.
	Person struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Number string `json:"number"`
	}

	// Outcome is the result of a write. Record is the affected row and is
	// nil when nothing was written.
	Outcome struct {
		Status  Status
		Message string
		Record  *models.PhoneRecord
	}

	Phonebook struct {
		records   persist.PhoneRecordRepo
		events    persist.EventRepo
		publisher mq.Publisher
		guard     NameGuard
	}
)

// NoResultPerson is returned alone by FindPersons when nothing matches.
var NoResultPerson = Person{Name: NoResult, Number: NoResult}

func (p Person) IsNoResult() bool {
	return p == NoResultPerson
}

// NormalizeName trims and lower-cases a name for storage and comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TitleName formats a name for display. A cased letter is title-cased when
// the rune before it is not cased, so "o'neil" reads "O'Neil" and "r2d2"
// reads "R2D2". Every other cased letter is lower-cased.
func TitleName(name string) string {
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)

	var b strings.Builder
	prevCased := false
	for _, r := range strings.TrimSpace(name) {
		cased := isCased(r)
		switch {
		case cased && !prevCased:
			b.WriteString(title.String(string(r)))
		case cased:
			b.WriteString(lower.String(string(r)))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.In(r, unicode.Lu, unicode.Ll, unicode.Lt, unicode.Other_Lowercase, unicode.Other_Uppercase)
}

// FindPersons matches keyword as a substring of the normalized names.
func (pb *Phonebook) FindPersons(ctx context.Context, keyword string) ([]Person, error) {
	records, err := pb.records.FindByKeyword(NormalizeName(keyword))
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return []Person{NoResultPerson}, nil
	}

	persons := make([]Person, 0, len(records))
	for _, r := range records {
		persons = append(persons, Person{ID: r.ID, Name: TitleName(r.Name), Number: r.Number})
	}
	return persons, nil
}

func (pb *Phonebook) InsertPerson(ctx context.Context, in PersonInput) (Outcome, error) {
	name := NormalizeName(in.Name)
	pb.guard.Lock(name)
	defer pb.guard.Unlock(name)

	existing, err := pb.records.GetByName(name)
	if err != nil {
		return Outcome{}, err
	}
	if existing != nil {
		return Outcome{
			Status:  StatusAlreadyExists,
			Message: fmt.Sprintf("Person with name %s already exists.", TitleName(existing.Name)),
		}, nil
	}

	record, err := pb.records.Create(name, in.Number)
	if err != nil {
		return Outcome{}, err
	}
	pb.recordEvent(ctx, record, models.EventRecordAdded)

	return Outcome{
		Status:  StatusAdded,
		Message: fmt.Sprintf("Person %s added to Phonebook successfully", TitleName(in.Name)),
		Record:  record,
	}, nil
}

func (pb *Phonebook) UpdatePerson(ctx context.Context, in PersonInput) (Outcome, error) {
	name := NormalizeName(in.Name)
	pb.guard.Lock(name)
	defer pb.guard.Unlock(name)

	existing, err := pb.records.GetByName(name)
	if err != nil {
		return Outcome{}, err
	}
	if existing == nil {
		return Outcome{
			Status:  StatusNotFound,
			Message: fmt.Sprintf("Person with name %s does not exist.", TitleName(in.Name)),
		}, nil
	}

	if err := pb.records.UpdateNumber(existing.ID, in.Number); err != nil {
		return Outcome{}, err
	}
	existing.Number = in.Number
	pb.recordEvent(ctx, existing, models.EventRecordUpdated)

	return Outcome{
		Status:  StatusUpdated,
		Message: fmt.Sprintf("Phone record of %s is updated successfully", TitleName(in.Name)),
		Record:  existing,
	}, nil
}

func (pb *Phonebook) DeletePerson(ctx context.Context, in PersonInput) (Outcome, error) {
	name := NormalizeName(in.Name)
	pb.guard.Lock(name)
	defer pb.guard.Unlock(name)

	existing, err := pb.records.GetByName(name)
	if err != nil {
		return Outcome{}, err
	}
	if existing == nil {
		return Outcome{
			Status:  StatusNotFound,
			Message: fmt.Sprintf("Person with name %s does not exist, no need to delete.", TitleName(in.Name)),
		}, nil
	}

	if err := pb.records.Delete(existing.ID); err != nil {
		return Outcome{}, err
	}
	pb.recordEvent(ctx, existing, models.EventRecordDeleted)

	return Outcome{
		Status:  StatusDeleted,
		Message: fmt.Sprintf("Phone record of %s is deleted from the phonebook successfully", TitleName(in.Name)),
		Record:  existing,
	}, nil
}

// History lists the change events recorded for a name.
func (pb *Phonebook) History(ctx context.Context, name string) ([]models.PhoneEvent, error) {
	return pb.events.List(NormalizeName(name))
}

// recordEvent writes the audit row and publishes the change. Failures are
// logged only, the write itself has already been committed.
func (pb *Phonebook) recordEvent(ctx context.Context, record *models.PhoneRecord, eventType string) {
	if _, err := pb.events.Create(record, eventType); err != nil {
		log.Printf("failed to create event log for record id:%d, event: %s: %v\n", record.ID, eventType, err)
	}

	c, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := pb.publisher.Publish(c, mq.NewRecordEvent(record, eventType)); err != nil {
		log.Printf("failed to publish event for record id:%d: %v\n", record.ID, err)
	}
}

func NewPhonebook(
	records persist.PhoneRecordRepo,
	events persist.EventRepo,
	publisher mq.Publisher,
	guard NameGuard,
) *Phonebook {
	return &Phonebook{records, events, publisher, guard}
}
