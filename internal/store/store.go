package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"complaints-backend/internal/calendar"
	"complaints-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	Ping(ctx context.Context) error

	// SubmitComplaint numbers c within day and inserts it. day must be the
	// regional-day span containing c.CreatedAt.
	SubmitComplaint(ctx context.Context, c *model.Complaint, day calendar.Span) error
	// ListComplaints returns complaints newest first, restricted to span when
	// it is non-nil.
	ListComplaints(ctx context.Context, span *calendar.Span) ([]model.Complaint, error)
	SetComplaintStatus(ctx context.Context, id int64, status model.Status, at time.Time) error

	ListStudents(ctx context.Context) ([]model.Student, error)
	AddStudent(ctx context.Context, s *model.Student) error
	// DeleteStudent removes the student and every complaint filed under their
	// number, returning how many complaints went with them.
	DeleteStudent(ctx context.Context, id int64) (int64, error)

	AdminByUsername(ctx context.Context, username string) (model.Admin, error)
	// SeedAdmin creates the account unless one with that username exists.
	SeedAdmin(ctx context.Context, username, passwordHash string) (bool, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SubmitComplaint verifies the student, counts the day's complaints and
// inserts the new one in a single transaction.
func (s *gormStore) SubmitComplaint(ctx context.Context, c *model.Complaint, day calendar.Span) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var known int64
		if err := tx.Model(&model.Student{}).Where("student_number = ?", c.StudentNumber).Count(&known).Error; err != nil {
			return fmt.Errorf("failed to look up student %q: %w", c.StudentNumber, err)
		}
		if known == 0 {
			return ErrUnknownStudent
		}

		// Serialise numbering per day. Other dialects keep the count/insert race.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", day.From.Unix()).Error; err != nil {
				return fmt.Errorf("failed to lock complaint day: %w", err)
			}
		}

		var count int64
		if err := tx.Model(&model.Complaint{}).
			Where("created_at >= ? AND created_at < ?", day.From, day.To).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count complaints for day: %w", err)
		}

		c.ComplaintNumber = int(count) + 1
		c.Status = model.StatusPending
		c.CompletedAt = nil
		c.CreatedAt = c.CreatedAt.UTC()
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to insert complaint: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListComplaints(ctx context.Context, span *calendar.Span) ([]model.Complaint, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if span != nil {
		q = q.Where("created_at >= ? AND created_at < ?", span.From, span.To)
	}

	var complaints []model.Complaint
	if err := q.Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// SetComplaintStatus moves a complaint between pending and completed,
// keeping completed_at in step with the status.
func (s *gormStore) SetComplaintStatus(ctx context.Context, id int64, status model.Status, at time.Time) error {
	if _, err := model.ParseStatus(string(status)); err != nil {
		return err
	}

	var completedAt *time.Time
	if status == model.StatusCompleted {
		utc := at.UTC()
		completedAt = &utc
	}

	res := s.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "completed_at": completedAt})
	if res.Error != nil {
		return fmt.Errorf("failed to update complaint %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *gormStore) AddStudent(ctx context.Context, st *model.Student) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&model.Student{}).Where("student_number = ?", st.StudentNumber).Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check student number: %w", err)
		}
		if taken > 0 {
			return ErrDuplicateStudent
		}

		if st.CreatedAt.IsZero() {
			st.CreatedAt = time.Now().UTC()
		}
		if err := tx.Create(st).Error; err != nil {
			// A concurrent insert can slip past the count.
			if isUniqueViolation(err) {
				return ErrDuplicateStudent
			}
			return fmt.Errorf("failed to insert student: %w", err)
		}
		return nil
	})
}

func (s *gormStore) DeleteStudent(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st model.Student
		if err := tx.First(&st, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load student %d: %w", id, err)
		}

		res := tx.Where("student_number = ?", st.StudentNumber).Delete(&model.Complaint{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete complaints of student %d: %w", id, res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Delete(&st).Error; err != nil {
			return fmt.Errorf("failed to delete student %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *gormStore) AdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	var admin model.Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Admin{}, ErrNotFound
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("failed to load admin: %w", err)
	}
	return admin, nil
}

func (s *gormStore) SeedAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	var exists int64
	if err := s.db.WithContext(ctx).Model(&model.Admin{}).Where("username = ?", username).Count(&exists).Error; err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	admin := model.Admin{Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
