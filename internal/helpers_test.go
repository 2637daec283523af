package internal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ilivestrong/phonebook/internal/persist"
	mq "github.com/ilivestrong/phonebook/internal/rabbitmq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.RecordEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event mq.RecordEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	phonebook *Phonebook
	published *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phonebook.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, persist.InitSchema(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	pub := &recordingPublisher{}
	pb := NewPhonebook(
		persist.NewPhoneRecordRepository(db),
		persist.NewEventRepository(db),
		pub,
		NewNameGuard(),
	)
	return &testEnv{db: db, phonebook: pb, published: pub}
}

func mustInput(t *testing.T, name, number string) PersonInput {
	t.Helper()
	in, err := ValidateUpdate(name, number)
	require.NoError(t, err)
	return in
}
