package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/school-finance/internal/model"
	"github.com/nimasrn/school-finance/pkg/pg"
	"gorm.io/gorm"
)

var ErrStudentNotFound = errors.New("student not found")

// StudentRepository reads students for invoice forms. Students are managed
// by enrolment; Create exists for seeding.
type StudentRepository struct {
	*pg.DB
}

func NewStudentRepository(db *pg.DB) *StudentRepository {
	return &StudentRepository{
		db,
	}
}

func (r *StudentRepository) Create(ctx context.Context, s *model.Student) (*model.Student, error) {
	entity := toStudentEntity(s)
	if entity.Status == "" {
		entity.Status = string(model.StudentStatusActive)
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toStudentModel(entity), nil
}

func (r *StudentRepository) Get(ctx context.Context, id int64) (*model.Student, error) {
	var entity StudentEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return toStudentModel(&entity), nil
}

// GetMany returns the students found among ids keyed by id.
func (r *StudentRepository) GetMany(ctx context.Context, ids []int64) (map[int64]*model.Student, error) {
	out := make(map[int64]*model.Student, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var entities []*StudentEntity
	if err := r.Read(ctx).WithContext(ctx).Where("id IN ?", ids).Find(&entities).Error; err != nil {
		return nil, err
	}
	for _, e := range entities {
		out[e.ID] = toStudentModel(e)
	}
	return out, nil
}

// List returns every student ordered by name, for the student select.
func (r *StudentRepository) List(ctx context.Context) ([]*model.Student, error) {
	var entities []*StudentEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("last_name ASC").Order("first_name ASC").Order("id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toStudentModels(entities), nil
}
