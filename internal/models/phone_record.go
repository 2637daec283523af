package models

const PhonebookTable = "phonebook"

type (
	// PhoneRecord is a row of the phonebook table. Name is stored trimmed and
	// lower-cased; ID is assigned by the database and never reused.
	PhoneRecord struct {
		ID     int    `json:"id" gorm:"primaryKey;autoIncrement;size:32"`
		Name   string `json:"name" gorm:"type:varchar(100);not null"`
		Number string `json:"number" gorm:"type:varchar(100);not null"`
	}
)

func (PhoneRecord) TableName() string { return PhonebookTable }
