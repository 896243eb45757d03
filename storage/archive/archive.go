package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"weidex/core/events"
	"weidex/core/types"
)

// DefaultQueryLimit caps Recent when the caller asks for no limit.
const DefaultQueryLimit = 100

// ErrPathRequired is returned when the archive path is missing.
var ErrPathRequired = errors.New("archive: path must be configured")

// Record is one archived event row.
type Record struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Type       string    `gorm:"index;not null"`
	Attributes string    `gorm:"not null"`
	RecordedAt time.Time `gorm:"not null"`
}

func (Record) TableName() string { return "events" }

// Archive persists committed events in sqlite so they survive restarts.
type Archive struct {
	db       *gorm.DB
	logger   *slog.Logger
	failures atomic.Uint64
	now      func() time.Time
}

// Open opens or creates the archive at path.
func Open(path string, logger *slog.Logger) (*Archive, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, ErrPathRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	db, err := gorm.Open(sqlite.Open(trimmed), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		_ = closeDB(db)
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Archive{
		db:     db,
		logger: logger.With(slog.String("component", "archive")),
		now:    time.Now,
	}, nil
}

// Close releases the underlying connection.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return closeDB(a.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Emit implements events.Emitter. Write failures are logged and counted; the
// committed call is not affected.
func (a *Archive) Emit(evt events.Event) {
	if a == nil || evt == nil {
		return
	}
	if err := a.Append(context.Background(), evt.Event()); err != nil {
		a.failures.Add(1)
		a.logger.Warn("archive event failed",
			slog.String("type", evt.EventType()),
			slog.String("error", err.Error()))
	}
}

// Append stores evt.
func (a *Archive) Append(ctx context.Context, evt *types.Event) error {
	if evt == nil {
		return nil
	}
	attrs, err := json.Marshal(evt.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	record := Record{
		Type:       evt.Type,
		Attributes: string(attrs),
		RecordedAt: a.now().UTC(),
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns the latest limit events oldest first. An empty eventType
// matches every type.
func (a *Archive) Recent(ctx context.Context, eventType string, limit int) ([]*types.Event, error) {
	if limit <= 0 || limit > DefaultQueryLimit {
		limit = DefaultQueryLimit
	}
	query := a.db.WithContext(ctx).Model(&Record{})
	if eventType = strings.TrimSpace(eventType); eventType != "" {
		query = query.Where("type = ?", eventType)
	}
	var rows []Record
	if err := query.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	out := make([]*types.Event, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		attrs := make(map[string]string)
		if err := json.Unmarshal([]byte(rows[i].Attributes), &attrs); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", rows[i].ID, err)
		}
		out = append(out, &types.Event{Type: rows[i].Type, Attributes: attrs})
	}
	return out, nil
}

// Count returns the number of archived events.
func (a *Archive) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := a.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Failures returns how many emitted events could not be stored.
func (a *Archive) Failures() uint64 { return a.failures.Load() }
