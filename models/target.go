package models

// TargetType tags the entity kind a comment, rating, follow or visit is
// attached to. The set is closed; services validate tags against the
// target registry before touching the store.
type TargetType string

const (
	TargetUniversity TargetType = "university"
	TargetCollege    TargetType = "college"
	TargetSchool     TargetType = "school"
	TargetModule     TargetType = "module"
	TargetLecturer   TargetType = "lecturer"
	TargetTeaching   TargetType = "teaching"
)

// TargetRef identifies exactly one entity in the hierarchy.
type TargetRef struct {
	Type TargetType `json:"type"`
	ID   uint       `json:"id"`
}
