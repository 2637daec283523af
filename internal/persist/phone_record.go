package persist

import (
	"errors"
	"fmt"

	"github.com/ilivestrong/phonebook/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCreateRecordFailed = errors.New("failed to create phone record")
	ErrUpdateRecordFailed = errors.New("failed to update phone record")
	ErrDeleteRecordFailed = errors.New("failed to delete phone record")
	ErrGetRecordFailed    = errors.New("failed to get phone record")
	ErrFindRecordsFailed  = errors.New("failed to find phone records")
)

type (
	// PhoneRecordRepo is the data access contract for the phonebook table.
	// Names passed in are expected to be normalized already.
	PhoneRecordRepo interface {
		FindByKeyword(keyword string) ([]models.PhoneRecord, error)
		GetByName(name string) (*models.PhoneRecord, error)
		Create(name string, number string) (*models.PhoneRecord, error)
		UpdateNumber(id int, number string) error
		Delete(id int) error
	}
	phoneRecordRepository struct {
		db *gorm.DB
	}
)

// FindByKeyword returns every record whose name contains keyword. The keyword
// is used as is inside the LIKE pattern, so % and _ keep their wildcard meaning.
func (pr *phoneRecordRepository) FindByKeyword(keyword string) ([]models.PhoneRecord, error) {
	var records []models.PhoneRecord
	result := pr.db.Where("name LIKE ?", "%"+keyword+"%").Order("id").Find(&records)

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrFindRecordsFailed, result.Error)
	}
	return records, nil
}

// GetByName returns nil and no error when no row has exactly this name.
func (pr *phoneRecordRepository) GetByName(name string) (*models.PhoneRecord, error) {
	var record models.PhoneRecord
	result := pr.db.Where("name = ?", name).First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrGetRecordFailed, result.Error)
	}
	return &record, nil
}

func (pr *phoneRecordRepository) Create(name string, number string) (*models.PhoneRecord, error) {
	newRecord := &models.PhoneRecord{
		Name:   name,
		Number: number,
	}
	result := pr.db.Create(newRecord)

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateRecordFailed, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCreateRecordFailed
	}
	return newRecord, nil
}

// UpdateNumber does not check RowsAffected: MySQL reports zero changed rows
// when the number is unchanged.
func (pr *phoneRecordRepository) UpdateNumber(id int, number string) error {
	result := pr.db.Model(&models.PhoneRecord{}).Where("id = ?", id).Update("number", number)

	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrUpdateRecordFailed, result.Error)
	}
	return nil
}

func (pr *phoneRecordRepository) Delete(id int) error {
	result := pr.db.Delete(&models.PhoneRecord{}, id)

	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrDeleteRecordFailed, result.Error)
	}
	return nil
}

func NewPhoneRecordRepository(db *gorm.DB) PhoneRecordRepo {
	return &phoneRecordRepository{db}
}
