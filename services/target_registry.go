package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"edu-feedback-api/models"
)

var (
	ErrNoTarget          = errors.New("no target specified")
	ErrAmbiguousTarget   = errors.New("more than one target specified")
	ErrTargetNotFound    = errors.New("target not found")
	ErrUnknownTargetType = errors.New("unknown target type")
)

// targetAccessor bundles the per-type lookups the resolver needs. Keeping
// them as functions in a fixed map means a new commentable type is one new
// entry here instead of string-based model lookups scattered around.
type targetAccessor struct {
	exists func(db *gorm.DB, id uint) (bool, error)
	name   func(db *gorm.DB, id uint) (string, error)
}

func existsIn[T any](db *gorm.DB, id uint) (bool, error) {
	var count int64
	var model T
	if err := db.Model(&model).Where(primaryKeyColumn(&model)+" = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func primaryKeyColumn(model any) string {
	switch model.(type) {
	case *models.University:
		return "university_id"
	case *models.College:
		return "college_id"
	case *models.School:
		return "school_id"
	case *models.Module:
		return "module_id"
	case *models.Lecturer:
		return "lecturer_id"
	case *models.Teaching:
		return "teaching_id"
	}
	return "id"
}

func nameOf[T any](column string, pick func(T) string) func(db *gorm.DB, id uint) (string, error) {
	return func(db *gorm.DB, id uint) (string, error) {
		var row T
		if err := db.Where(column+" = ?", id).First(&row).Error; err != nil {
			return "", err
		}
		return pick(row), nil
	}
}

var targetAccessors = map[models.TargetType]targetAccessor{
	models.TargetUniversity: {
		exists: existsIn[models.University],
		name:   nameOf("university_id", func(u models.University) string { return u.Name }),
	},
	models.TargetCollege: {
		exists: existsIn[models.College],
		name:   nameOf("college_id", func(c models.College) string { return c.Name }),
	},
	models.TargetSchool: {
		exists: existsIn[models.School],
		name:   nameOf("school_id", func(s models.School) string { return s.Name }),
	},
	models.TargetModule: {
		exists: existsIn[models.Module],
		name:   nameOf("module_id", func(m models.Module) string { return m.Name }),
	},
	models.TargetLecturer: {
		exists: existsIn[models.Lecturer],
		name:   nameOf("lecturer_id", func(l models.Lecturer) string { return l.Name }),
	},
	models.TargetTeaching: {
		exists: existsIn[models.Teaching],
		name: func(db *gorm.DB, id uint) (string, error) {
			var t models.Teaching
			if err := db.Preload("Lecturer").Preload("Module").
				Where("teaching_id = ?", id).First(&t).Error; err != nil {
				return "", err
			}
			return fmt.Sprintf("%s - %s (%s)", t.Lecturer.Name, t.Module.Name, t.Year), nil
		},
	},
}

// targetFieldOrder fixes the candidate request fields the resolver scans.
// Order only matters for deterministic error reporting; requests naming
// more than one target are rejected outright.
var targetFieldOrder = []struct {
	Field string
	Type  models.TargetType
}{
	{"university_id", models.TargetUniversity},
	{"college_id", models.TargetCollege},
	{"school_id", models.TargetSchool},
	{"module_id", models.TargetModule},
	{"lecturer_id", models.TargetLecturer},
	{"teaching_id", models.TargetTeaching},
}

// TargetResolver resolves (type, id) pairs and request target fields
// against the closed registry of commentable entity types.
type TargetResolver struct {
	db *gorm.DB
}

func NewTargetResolver(db *gorm.DB) *TargetResolver {
	return &TargetResolver{db: db}
}

// KnownType reports whether tag names a registered target type.
func KnownType(tag models.TargetType) bool {
	_, ok := targetAccessors[tag]
	return ok
}

// Exists checks that the target id resolves in its type's table.
func (r *TargetResolver) Exists(target models.TargetRef) (bool, error) {
	acc, ok := targetAccessors[target.Type]
	if !ok {
		return false, ErrUnknownTargetType
	}
	return acc.exists(r.db, target.ID)
}

// Resolve validates that target names an existing entity.
func (r *TargetResolver) Resolve(target models.TargetRef) error {
	ok, err := r.Exists(target)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTargetNotFound
	}
	return nil
}

// Name returns a display name for the target, e.g. for visit history rows.
func (r *TargetResolver) Name(target models.TargetRef) (string, error) {
	acc, ok := targetAccessors[target.Type]
	if !ok {
		return "", ErrUnknownTargetType
	}
	name, err := acc.name(r.db, target.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrTargetNotFound
	}
	return name, err
}

// Label renders the target the way comment payloads describe it,
// e.g. "University: MIT".
func (r *TargetResolver) Label(target models.TargetRef) string {
	name, err := r.Name(target)
	if err != nil {
		return "Unknown"
	}
	caser := target.Type
	return strings.ToUpper(string(caser[0])) + string(caser[1:]) + ": " + name
}

// ResolveFields finds the single populated candidate field among the
// request's target ids and resolves it. Zero fields set fails with
// ErrNoTarget, more than one with ErrAmbiguousTarget; a first-match-wins
// scan would mask caller bugs.
func (r *TargetResolver) ResolveFields(fields map[string]uint) (models.TargetRef, error) {
	var found []models.TargetRef
	for _, candidate := range targetFieldOrder {
		if id, ok := fields[candidate.Field]; ok && id != 0 {
			found = append(found, models.TargetRef{Type: candidate.Type, ID: id})
		}
	}
	switch len(found) {
	case 0:
		return models.TargetRef{}, ErrNoTarget
	case 1:
	default:
		return models.TargetRef{}, ErrAmbiguousTarget
	}
	if err := r.Resolve(found[0]); err != nil {
		return models.TargetRef{}, err
	}
	return found[0], nil
}
