package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValue is the row holding the snapshot in Postgres.
type KeyValue struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;size:255;not null"`
	Value string `gorm:"type:text;not null"`
}

// GormAdapter keeps the snapshot in a key_values table through gorm.
type GormAdapter struct {
	db  *gorm.DB
	key string
}

func NewGormAdapter(ctx context.Context, db *gorm.DB, key string) (*GormAdapter, error) {
	if err := db.WithContext(ctx).AutoMigrate(&KeyValue{}); err != nil {
		return nil, fmt.Errorf("migrate key_values: %w", err)
	}
	return &GormAdapter{db: db, key: key}, nil
}

func (g *GormAdapter) Load(ctx context.Context) ([]byte, error) {
	var kv KeyValue
	if err := g.db.WithContext(ctx).Where("key = ?", g.key).First(&kv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return []byte(kv.Value), nil
}

func (g *GormAdapter) Save(ctx context.Context, blob []byte) error {
	kv := KeyValue{Key: g.key, Value: string(blob)}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (g *GormAdapter) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
