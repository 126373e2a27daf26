package db

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB represents our sqlite3 database file. It implements storage.Store.
type DB struct{ *gorm.DB }

//go:embed schema.sql
var schema string

// Entry is one row of the entries table: a key and its serialized value.
type Entry struct {
	Key       string `gorm:"column:name;primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Open returns a connection to a migrated sqlite3 database file on disk,
// creating the file and running migrations if necessary.
func Open(filename string) (*DB, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating db dir '%s': %w", dir, err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", filename, err)
	}

	db := &DB{gdb}

	if err := db.Exec(schema).Error; err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", filename, err)
	}

	return db, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("error getting db pool: %w", err)
	}
	return pool.Close()
}

func (db *DB) Get(key string) (string, bool, error) {
	var entry Entry
	if err := db.
		Table("entries").
		Where("name = ?", key).
		First(&entry).
		Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("error getting entry '%s': %w", key, err)
	}
	return entry.Value, true, nil
}

func (db *DB) Set(key, value string) error {
	if err := db.
		Table("entries").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&Entry{Key: key, Value: value, UpdatedAt: time.Now()}).
		Error; err != nil {
		return fmt.Errorf("error setting entry '%s': %w", key, err)
	}
	return nil
}

func (db *DB) Remove(key string) error {
	if err := db.
		Table("entries").
		Where("name = ?", key).
		Delete(&Entry{}).
		Error; err != nil {
		return fmt.Errorf("error removing entry '%s': %w", key, err)
	}
	return nil
}
