package persist

import (
	"testing"

	"github.com/ilivestrong/phonebook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneRecordCreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewPhoneRecordRepository(openTestDB(t))

	first, err := repo.Create("alice", "12345")
	require.NoError(t, err)
	second, err := repo.Create("bob", "555")
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "alice", first.Name)
	assert.Equal(t, "12345", first.Number)
}

func TestPhoneRecordGetByName(t *testing.T) {
	repo := NewPhoneRecordRepository(openTestDB(t))
	_, err := repo.Create("alice", "12345")
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		rec, err := repo.GetByName("alice")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "12345", rec.Number)
	})

	t.Run("missing", func(t *testing.T) {
		rec, err := repo.GetByName("carol")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("substring is not a match", func(t *testing.T) {
		rec, err := repo.GetByName("ali")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestPhoneRecordFindByKeyword(t *testing.T) {
	repo := NewPhoneRecordRepository(openTestDB(t))
	for _, name := range []string{"alice", "malik", "bob"} {
		_, err := repo.Create(name, "1")
		require.NoError(t, err)
	}

	records, err := repo.FindByKeyword("li")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Name)
	assert.Equal(t, "malik", records[1].Name)

	records, err = repo.FindByKeyword("")
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = repo.FindByKeyword("zed")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPhoneRecordUpdateNumberKeepsID(t *testing.T) {
	db := openTestDB(t)
	repo := NewPhoneRecordRepository(db)
	alice, err := repo.Create("alice", "12345")
	require.NoError(t, err)
	bob, err := repo.Create("bob", "555")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateNumber(alice.ID, "99999"))
	// unchanged value must not be reported as a failure
	require.NoError(t, repo.UpdateNumber(alice.ID, "99999"))

	got, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "99999", got.Number)

	other, err := repo.GetByName("bob")
	require.NoError(t, err)
	assert.Equal(t, bob.Number, other.Number)
}

func TestPhoneRecordDeleteRemovesOnlyThatRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewPhoneRecordRepository(db)
	alice, err := repo.Create("alice", "12345")
	require.NoError(t, err)
	_, err = repo.Create("bob", "555")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(alice.ID))

	var count int64
	require.NoError(t, db.Model(&models.PhoneRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rec, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPhoneRecordIDsAreNotReused(t *testing.T) {
	repo := NewPhoneRecordRepository(openTestDB(t))
	_, err := repo.Create("alice", "1")
	require.NoError(t, err)
	bob, err := repo.Create("bob", "2")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(bob.ID))

	carol, err := repo.Create("carol", "3")
	require.NoError(t, err)
	assert.Greater(t, carol.ID, bob.ID)
}
