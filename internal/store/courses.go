package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/rules"
)

// holesByNumber preloads a course's holes in play order.
func holesByNumber(db *gorm.DB) *gorm.DB {
	return db.Order("number ASC")
}

// CreateCourse stores a course and its holes.
func (s *Store) CreateCourse(ctx context.Context, name string, holes []models.Hole) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: course name is required", rules.ErrValidation)
	}
	if err := rules.ValidateCourseHoles(holes); err != nil {
		return nil, err
	}

	course := models.Course{Name: name, Holes: make([]models.Hole, len(holes))}
	for i, h := range holes {
		course.Holes[i] = models.Hole{Number: h.Number, Par: h.Par, Handicap: h.Handicap}
	}
	sort.Slice(course.Holes, func(i, j int) bool { return course.Holes[i].Number < course.Holes[j].Number })

	err := s.transaction(ctx, "course", func(tx *gorm.DB) error {
		// Creating the course inserts its Holes too and fills in each CourseID.
		return tx.Create(&course).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourses returns every course with its holes.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.read(ctx, "courses", func(db *gorm.DB) error {
		return db.Preload("Holes", holesByNumber).Order("name ASC").Find(&courses).Error
	})
	return courses, err
}

// GetCourse returns one course with its holes in number order.
func (s *Store) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var course models.Course
	err := s.read(ctx, "course", func(db *gorm.DB) error {
		return first(db.Preload("Holes", holesByNumber), &course, id, "course")
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse renames a course and replaces its hole layout.
//
// When the new layout has the same number of holes, existing hole rows are updated in
// place so recorded HoleScores keep pointing at them. A layout with a different hole
// count replaces the rows, which is only allowed while no scores reference the course.
func (s *Store) UpdateCourse(ctx context.Context, id int, name string, holes []models.Hole) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: course name is required", rules.ErrValidation)
	}
	if err := rules.ValidateCourseHoles(holes); err != nil {
		return nil, err
	}

	err := s.transaction(ctx, "course", func(tx *gorm.DB) error {
		var course models.Course
		if err := first(tx, &course, id, "course"); err != nil {
			return err
		}
		if err := tx.Model(&course).Update("name", name).Error; err != nil {
			return err
		}

		existing, err := courseHoles(tx, id)
		if err != nil {
			return err
		}

		if len(existing) == len(holes) {
			// Validation guarantees both layouts number 1..N, so numbers line up one-to-one.
			byNumber := make(map[int]models.Hole, len(existing))
			for _, h := range existing {
				byNumber[h.Number] = h
			}
			for _, h := range holes {
				err := tx.Model(&models.Hole{}).
					Where("id = ?", byNumber[h.Number].ID).
					Updates(map[string]interface{}{"par": h.Par, "handicap": h.Handicap}).Error
				if err != nil {
					return err
				}
			}
			return nil
		}

		holeIDs := make([]int, len(existing))
		for i, h := range existing {
			holeIDs[i] = h.ID
		}
		var scored int64
		if len(holeIDs) > 0 {
			if err := tx.Model(&models.HoleScore{}).Where("hole_id IN ?", holeIDs).Count(&scored).Error; err != nil {
				return err
			}
		}
		if scored > 0 {
			return fmt.Errorf("%w: course %d has recorded scores; its hole count can't change", rules.ErrConflict, id)
		}

		if err := tx.Where("course_id = ?", id).Delete(&models.Hole{}).Error; err != nil {
			return err
		}
		fresh := make([]models.Hole, len(holes))
		for i, h := range holes {
			fresh[i] = models.Hole{CourseID: id, Number: h.Number, Par: h.Par, Handicap: h.Handicap}
		}
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetCourse(ctx, id)
}

// DeleteCourse removes a course and its holes. A course that a league plays on can't be deleted.
func (s *Store) DeleteCourse(ctx context.Context, id int) error {
	return s.transaction(ctx, "course", func(tx *gorm.DB) error {
		var course models.Course
		if err := first(tx, &course, id, "course"); err != nil {
			return err
		}

		var leagues int64
		if err := tx.Model(&models.League{}).Where("course_id = ?", id).Count(&leagues).Error; err != nil {
			return err
		}
		if leagues > 0 {
			return fmt.Errorf("%w: course %d is used by %d league(s)", rules.ErrConflict, id, leagues)
		}

		// Holes first, then the course, to respect the foreign key.
		if err := tx.Where("course_id = ?", id).Delete(&models.Hole{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&course).Error; err != nil {
			return err
		}
		s.log.Info("course deleted", zap.Int("course_id", id), zap.String("name", course.Name))
		return nil
	})
}

// courseHoles loads a course's holes in number order.
func courseHoles(tx *gorm.DB, courseID int) ([]models.Hole, error) {
	var holes []models.Hole
	err := tx.Where("course_id = ?", courseID).Order("number ASC").Find(&holes).Error
	return holes, err
}
