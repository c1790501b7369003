package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"edu-feedback-api/models"
)

var (
	ErrInvalidScore = errors.New("score must be an integer between 1 and 5")
	ErrNotStudent   = errors.New("only students may rate")
)

// RatingAggregate is the summary returned for a single target.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// QuartileStats summarizes a raw score distribution. A nil pointer in the
// trend response means the year had no observations.
type QuartileStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// TrendFilters narrows a lecturer's teaching records. The most specific
// scope wins: school over college over university. Year filters to a
// single academic year.
type TrendFilters struct {
	SchoolID     *uint
	CollegeID    *uint
	UniversityID *uint
	Year         string
}

// RatingTrend is the per-year rating history for a lecturer, overall and
// pivoted per course. Slices are aligned with Years; nil entries mark
// years without observations.
type RatingTrend struct {
	Years            []string                    `json:"years"`
	Overall          []*float64                  `json:"overall"`
	Courses          map[string][]*float64       `json:"courses"`
	OverallQuartiles []*QuartileStats            `json:"overall_quartiles"`
	CoursesQuartiles map[string][]*QuartileStats `json:"courses_quartiles"`
}

type RatingService struct {
	db       *gorm.DB
	resolver *TargetResolver
}

func NewRatingService(db *gorm.DB, resolver *TargetResolver) *RatingService {
	return &RatingService{db: db, resolver: resolver}
}

// UpsertRating creates or refreshes the caller's unique rating row for a
// target. Two racing create attempts resolve through the unique key: the
// loser retries as an update.
func (s *RatingService) UpsertRating(userID uint, role string, target models.TargetRef, score int) (*models.Rating, error) {
	if !models.ValidScore(score) {
		return nil, ErrInvalidScore
	}
	if role != models.RoleStudent {
		return nil, ErrNotStudent
	}
	if err := s.resolver.Resolve(target); err != nil {
		return nil, err
	}

	rating, err := s.saveRating(userID, target, score)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		rating, err = s.saveRating(userID, target, score)
	}
	return rating, err
}

func (s *RatingService) saveRating(userID uint, target models.TargetRef, score int) (*models.Rating, error) {
	now := time.Now()
	var rating models.Rating
	err := s.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, target.Type, target.ID).First(&rating).Error
	switch {
	case err == nil:
		rating.Score = score
		rating.UpdatedAt = now
		if err := s.db.Save(&rating).Error; err != nil {
			return nil, err
		}
		return &rating, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.Rating{
			UserID:     userID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Score:      score,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.db.Create(&rating).Error; err != nil {
			return nil, err
		}
		return &rating, nil
	default:
		return nil, err
	}
}

// Aggregate returns mean (rounded to one decimal) and count for a target.
// Average is 0, not null, when the target has no ratings.
func (s *RatingService) Aggregate(target models.TargetRef) (RatingAggregate, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := s.db.Model(&models.Rating{}).
		Select("AVG(score) AS average, COUNT(*) AS count").
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Scan(&row).Error
	if err != nil {
		return RatingAggregate{}, err
	}

	agg := RatingAggregate{Count: row.Count}
	if row.Average != nil && row.Count > 0 {
		agg.Average = math.Round(*row.Average*10) / 10
	}
	return agg, nil
}

// UserScore returns the caller's current score for a target, 0 when
// absent. Non-students always read 0 rather than an error.
func (s *RatingService) UserScore(userID uint, role string, target models.TargetRef) (int, error) {
	if role != models.RoleStudent {
		return 0, nil
	}
	var rating models.Rating
	err := s.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, target.Type, target.ID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rating.Score, nil
}

// LecturerRatingTrend collects raw teaching-rating scores for a lecturer,
// grouped per year and per course, and summarizes each group with mean and
// quartile statistics.
func (s *RatingService) LecturerRatingTrend(lecturerID uint, filters TrendFilters) (*RatingTrend, error) {
	var lecturer models.Lecturer
	if err := s.db.Where("lecturer_id = ?", lecturerID).First(&lecturer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}

	type teachingRow struct {
		TeachingID uint
		Year       string
		Course     string
	}

	query := s.db.Model(&models.Teaching{}).
		Select("teachings.teaching_id, teachings.year, modules.name AS course").
		Joins("JOIN modules ON modules.module_id = teachings.module_id").
		Where("teachings.lecturer_id = ?", lecturerID)

	// Most specific scope wins: school > college > university.
	switch {
	case filters.SchoolID != nil:
		query = query.Where("modules.school_id = ?", *filters.SchoolID)
	case filters.CollegeID != nil:
		query = query.
			Joins("JOIN schools ON schools.school_id = modules.school_id").
			Where("schools.college_id = ?", *filters.CollegeID)
	case filters.UniversityID != nil:
		query = query.
			Joins("JOIN schools ON schools.school_id = modules.school_id").
			Joins("JOIN colleges ON colleges.college_id = schools.college_id").
			Where("colleges.university_id = ?", *filters.UniversityID)
	}
	if filters.Year != "" {
		query = query.Where("teachings.year = ?", filters.Year)
	}

	var teachings []teachingRow
	if err := query.Scan(&teachings).Error; err != nil {
		return nil, err
	}

	trend := &RatingTrend{
		Years:            []string{},
		Overall:          []*float64{},
		Courses:          map[string][]*float64{},
		OverallQuartiles: []*QuartileStats{},
		CoursesQuartiles: map[string][]*QuartileStats{},
	}
	if len(teachings) == 0 {
		return trend, nil
	}

	teachingIDs := make([]uint, 0, len(teachings))
	byTeaching := make(map[uint]teachingRow, len(teachings))
	yearSet := make(map[string]struct{})
	courseSet := make(map[string]struct{})
	for _, t := range teachings {
		teachingIDs = append(teachingIDs, t.TeachingID)
		byTeaching[t.TeachingID] = t
		yearSet[t.Year] = struct{}{}
		courseSet[t.Course] = struct{}{}
	}

	var ratings []models.Rating
	if err := s.db.Where("target_type = ? AND target_id IN ?", models.TargetTeaching, teachingIDs).
		Find(&ratings).Error; err != nil {
		return nil, err
	}

	// Raw scores, bucketed by year and by (course, year).
	overall := make(map[string][]int)
	perCourse := make(map[string]map[string][]int)
	for _, r := range ratings {
		t, ok := byTeaching[r.TargetID]
		if !ok {
			continue
		}
		overall[t.Year] = append(overall[t.Year], r.Score)
		if perCourse[t.Course] == nil {
			perCourse[t.Course] = make(map[string][]int)
		}
		perCourse[t.Course][t.Year] = append(perCourse[t.Course][t.Year], r.Score)
	}

	years := make([]string, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Strings(years)
	trend.Years = years

	for _, year := range years {
		trend.Overall = append(trend.Overall, meanOf(overall[year]))
		trend.OverallQuartiles = append(trend.OverallQuartiles, quartilesOf(overall[year]))
	}
	for course := range courseSet {
		means := make([]*float64, 0, len(years))
		quartiles := make([]*QuartileStats, 0, len(years))
		for _, year := range years {
			means = append(means, meanOf(perCourse[course][year]))
			quartiles = append(quartiles, quartilesOf(perCourse[course][year]))
		}
		trend.Courses[course] = means
		trend.CoursesQuartiles[course] = quartiles
	}
	return trend, nil
}

func meanOf(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	mean := math.Round(float64(sum)/float64(len(scores))*100) / 100
	return &mean
}

// quartilesOf summarizes a sample with min/Q1/median/Q3/max. Halves share
// no middle element: the lower half is the first n/2 sorted values, the
// upper half the last n/2, and an odd-length sample keeps its exact median
// out of both halves.
func quartilesOf(scores []int) *QuartileStats {
	n := len(scores)
	if n == 0 {
		return nil
	}
	sorted := make([]int, n)
	copy(sorted, scores)
	sort.Ints(sorted)

	stats := &QuartileStats{
		Min:    float64(sorted[0]),
		Median: medianOf(sorted),
		Max:    float64(sorted[n-1]),
	}
	if n == 1 {
		stats.Q1 = stats.Median
		stats.Q3 = stats.Median
		return stats
	}
	stats.Q1 = medianOf(sorted[:n/2])
	stats.Q3 = medianOf(sorted[n-n/2:])
	return stats
}

func medianOf(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
