package queue

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/pkg/logger"
)

// FailedJobRecord is the failed_jobs row written when a job gives up.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey"`
	JobType  string    `gorm:"size:100;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null;index"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// FailedStore persists jobs that exhausted their retries.
type FailedStore interface {
	Save(ctx context.Context, f FailedJob) error
}

// GormFailedStore writes FailedJobRecord rows. The table is created by the
// migrations.
type GormFailedStore struct {
	DB *gorm.DB
}

func (s GormFailedStore) Save(ctx context.Context, f FailedJob) error {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return s.DB.WithContext(ctx).Create(&FailedJobRecord{
		JobType:  f.Name,
		Payload:  string(f.Payload),
		Error:    msg,
		Attempts: f.Attempts,
		FailedAt: f.FailedAt,
	}).Error
}

// UseStore makes m persist failures through s in addition to memory.
func (m *Manager) UseStore(s FailedStore) {
	m.mu.Lock()
	m.store = s
	m.mu.Unlock()
}

// UseDB persists failures of the default manager into failed_jobs.
func UseDB(db *gorm.DB) { defaultManager.UseStore(GormFailedStore{DB: db}) }

func (m *Manager) recordFailure(ctx context.Context, f FailedJob) {
	m.mu.Lock()
	m.failed = append(m.failed, f)
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return
	}
	if err := store.Save(context.WithoutCancel(ctx), f); err != nil {
		logger.Error("queue: persist failed job", "type", f.Name, "error", err)
	}
}
