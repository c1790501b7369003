package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-feedback-api/models"
)

func TestResolveFieldsExactlyOne(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	resolver := NewTargetResolver(db)

	target, err := resolver.ResolveFields(map[string]uint{
		"university_id": h.University.UniversityID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TargetUniversity, target.Type)
	assert.Equal(t, h.University.UniversityID, target.ID)
}

func TestResolveFieldsNoTarget(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewTargetResolver(db)

	_, err := resolver.ResolveFields(map[string]uint{})
	assert.ErrorIs(t, err, ErrNoTarget)

	// Zero-valued ids count as absent.
	_, err = resolver.ResolveFields(map[string]uint{"module_id": 0})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestResolveFieldsAmbiguous(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	resolver := NewTargetResolver(db)

	_, err := resolver.ResolveFields(map[string]uint{
		"university_id": h.University.UniversityID,
		"lecturer_id":   h.Lecturer.LecturerID,
	})
	assert.ErrorIs(t, err, ErrAmbiguousTarget)
}

func TestResolveFieldsMissingEntity(t *testing.T) {
	db := setupTestDB(t)
	seedHierarchy(t, db)
	resolver := NewTargetResolver(db)

	_, err := resolver.ResolveFields(map[string]uint{"school_id": 9999})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestResolveUnknownType(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewTargetResolver(db)

	err := resolver.Resolve(models.TargetRef{Type: "planet", ID: 1})
	assert.ErrorIs(t, err, ErrUnknownTargetType)
	assert.False(t, KnownType("planet"))
	assert.True(t, KnownType(models.TargetTeaching))
}

func TestTargetNameAndLabel(t *testing.T) {
	db := setupTestDB(t)
	h := seedHierarchy(t, db)
	resolver := NewTargetResolver(db)

	name, err := resolver.Name(models.TargetRef{Type: models.TargetModule, ID: h.Module.ModuleID})
	require.NoError(t, err)
	assert.Equal(t, "Databases", name)

	name, err = resolver.Name(models.TargetRef{Type: models.TargetTeaching, ID: h.Teaching.TeachingID})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Stone - Databases (2024)", name)

	label := resolver.Label(models.TargetRef{Type: models.TargetUniversity, ID: h.University.UniversityID})
	assert.Equal(t, "University: Test University", label)

	_, err = resolver.Name(models.TargetRef{Type: models.TargetLecturer, ID: 9999})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
