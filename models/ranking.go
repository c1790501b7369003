package models

// YearRanking is a ranking year ("2024"), unique by year string.
type YearRanking struct {
	YearID uint   `gorm:"primaryKey;column:year_id" json:"id"`
	Year   string `gorm:"column:year;size:4;uniqueIndex" json:"year"`
}

// UniversityRanking places a university in the table of a given year;
// unique per (year, university).
type UniversityRanking struct {
	RankingID    uint        `gorm:"primaryKey;column:ranking_id" json:"id"`
	YearID       uint        `gorm:"column:year_id;uniqueIndex:uniq_ranking_year_university" json:"year_id"`
	UniversityID uint        `gorm:"column:university_id;uniqueIndex:uniq_ranking_year_university" json:"university_id"`
	Rank         int         `gorm:"column:rank" json:"rank"`
	Year         YearRanking `gorm:"foreignKey:YearID;constraint:OnDelete:CASCADE" json:"-"`
	University   University  `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
}

// TableName overrides
func (YearRanking) TableName() string {
	return "year_rankings"
}

func (UniversityRanking) TableName() string {
	return "university_rankings"
}
