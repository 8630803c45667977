package repository

import (
	"github.com/nimasrn/school-finance/internal/model"
)

type StudentEntity struct {
	ID                 int64  `db:"id"                  gorm:"primaryKey;autoIncrement;column:id"`
	RegistrationNumber string `db:"registration_number" gorm:"column:registration_number;not null;unique"`
	FirstName          string `db:"first_name"          gorm:"column:first_name;not null"`
	LastName           string `db:"last_name"           gorm:"column:last_name;not null"`
	Status             string `db:"status"              gorm:"column:status;not null;default:active"`
}

func (StudentEntity) TableName() string {
	return "students"
}

func toStudentEntity(m *model.Student) *StudentEntity {
	if m == nil {
		return nil
	}
	return &StudentEntity{
		ID:                 m.ID,
		RegistrationNumber: m.RegistrationNumber,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Status:             string(m.Status),
	}
}

func toStudentModel(e *StudentEntity) *model.Student {
	if e == nil {
		return nil
	}
	return &model.Student{
		ID:                 e.ID,
		RegistrationNumber: e.RegistrationNumber,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Status:             model.StudentStatus(e.Status),
	}
}

func toStudentModels(entities []*StudentEntity) []*model.Student {
	if entities == nil {
		return nil
	}
	models := make([]*model.Student, len(entities))
	for i, e := range entities {
		models[i] = toStudentModel(e)
	}
	return models
}
