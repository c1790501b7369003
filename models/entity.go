package models

// Region is a geographical region universities belong to; names are unique.
type Region struct {
	RegionID uint   `gorm:"primaryKey;column:region_id" json:"id"`
	Name     string `gorm:"column:name;size:100;uniqueIndex" json:"name"`
}

// University belongs to an optional region; unique per (name, region).
// Deleting the region keeps the university and clears the reference.
type University struct {
	UniversityID uint    `gorm:"primaryKey;column:university_id" json:"id"`
	Name         string  `gorm:"column:name;size:200;uniqueIndex:uniq_university_name_region" json:"name"`
	RegionID     *uint   `gorm:"column:region_id;uniqueIndex:uniq_university_name_region" json:"region_id,omitempty"`
	Region       *Region `gorm:"foreignKey:RegionID;constraint:OnDelete:SET NULL" json:"region,omitempty"`
}

// College belongs to a university; unique per (name, university).
type College struct {
	CollegeID    uint       `gorm:"primaryKey;column:college_id" json:"id"`
	Name         string     `gorm:"column:name;size:200;uniqueIndex:uniq_college_name_university" json:"name"`
	UniversityID uint       `gorm:"column:university_id;uniqueIndex:uniq_college_name_university" json:"university_id"`
	University   University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
}

// School belongs to a college; unique per (name, college).
type School struct {
	SchoolID  uint    `gorm:"primaryKey;column:school_id" json:"id"`
	Name      string  `gorm:"column:name;size:200;uniqueIndex:uniq_school_name_college" json:"name"`
	CollegeID uint    `gorm:"column:college_id;uniqueIndex:uniq_school_name_college" json:"college_id"`
	College   College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"college,omitempty"`
}

// Module is a course module under a school; unique per (name, school).
type Module struct {
	ModuleID uint   `gorm:"primaryKey;column:module_id" json:"id"`
	Name     string `gorm:"column:name;size:200;uniqueIndex:uniq_module_name_school" json:"name"`
	SchoolID uint   `gorm:"column:school_id;uniqueIndex:uniq_module_name_school" json:"school_id"`
	School   School `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"school,omitempty"`
}

type Lecturer struct {
	LecturerID uint   `gorm:"primaryKey;column:lecturer_id" json:"id"`
	Name       string `gorm:"column:name;size:100" json:"name"`
}

// Teaching records a lecturer teaching a module in a given academic year.
// A lecturer teaches a specific module at most once per year.
type Teaching struct {
	TeachingID uint     `gorm:"primaryKey;column:teaching_id" json:"id"`
	LecturerID uint     `gorm:"column:lecturer_id;uniqueIndex:uniq_teaching_lecturer_module_year" json:"lecturer_id"`
	ModuleID   uint     `gorm:"column:module_id;uniqueIndex:uniq_teaching_lecturer_module_year" json:"module_id"`
	Year       string   `gorm:"column:year;size:4;uniqueIndex:uniq_teaching_lecturer_module_year" json:"year"`
	Lecturer   Lecturer `gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE" json:"lecturer,omitempty"`
	Module     Module   `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"module,omitempty"`
}

// TableName overrides
func (Region) TableName() string {
	return "regions"
}

func (University) TableName() string {
	return "universities"
}

func (College) TableName() string {
	return "colleges"
}

func (School) TableName() string {
	return "schools"
}

func (Module) TableName() string {
	return "modules"
}

func (Lecturer) TableName() string {
	return "lecturers"
}

func (Teaching) TableName() string {
	return "teachings"
}
