package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNameGuardSerialisesSameName(t *testing.T) {
	g := NewNameGuard()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Lock("alice")
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			g.Unlock("alice")
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside)
}

func TestNameGuardIndependentNames(t *testing.T) {
	g := NewNameGuard()
	g.Lock("alice")
	defer g.Unlock("alice")

	done := make(chan struct{})
	go func() {
		g.Lock("bob")
		g.Unlock("bob")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on bob blocked behind alice")
	}
}

func TestConcurrentInsertsOfSameNameCreateOneRow(t *testing.T) {
	env := newTestEnv(t)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.phonebook.InsertPerson(context.Background(), PersonInput{Name: "alice", Number: "1"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, countRecords(t, env))
}
