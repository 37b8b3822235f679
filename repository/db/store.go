// Package db provides a SQLite-backed repository using GORM
package db

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/repository"
	"github.com/govm-net/precompile/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	defaultDBPath = "./sqlite.db"
)

// DBStorage represents one stored value of a contract
type DBStorage struct {
	ID       uint   `gorm:"primaryKey"`
	Contract string `gorm:"column:contract_address;not null;size:66;uniqueIndex:idx_contract_key"`
	Key      string `gorm:"column:storage_key;not null;size:255;uniqueIndex:idx_contract_key"`
	Value    []byte `gorm:"column:storage_value;type:blob;not null"`
}

// TableName specifies the table name for DBStorage
func (DBStorage) TableName() string {
	return "contract_storage"
}

// Store implements types.Repository using SQLite with GORM
type Store struct {
	db *gorm.DB
}

func init() {
	if err := repository.Register(repository.DBType, func(params map[string]any) (types.Repository, error) {
		return Open(repository.StringParam(params, "db_path", defaultDBPath))
	}); err != nil {
		panic(err)
	}
}

// Open opens (or creates) the database at dbPath and migrates the schema
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	// SQLite 只允许一个写者，单连接让并发事务排队而不是返回 SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := s.initDB(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initDB() error {
	if err := s.db.AutoMigrate(&DBStorage{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Get implements types.Repository
func (s *Store) Get(contract core.Address, key []byte) ([]byte, error) {
	return get(s.db, contract, key)
}

// Put implements types.Repository
func (s *Store) Put(contract core.Address, key []byte, value []byte) error {
	return put(s.db, contract, key, value)
}

// Update implements types.Repository inside a database transaction
func (s *Store) Update(contract core.Address, key []byte, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	var next []byte
	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := get(tx, contract, key)
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		return put(tx, contract, key, next)
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.Close()
}

func get(db *gorm.DB, contract core.Address, key []byte) ([]byte, error) {
	var row DBStorage
	result := db.Where("contract_address = ? AND storage_key = ?", contract.String(), hex.EncodeToString(key)).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get storage: %w", result.Error)
	}
	return row.Value, nil
}

func put(db *gorm.DB, contract core.Address, key []byte, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	row := DBStorage{
		Contract: contract.String(),
		Key:      hex.EncodeToString(key),
		Value:    value,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contract_address"}, {Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"storage_value"}),
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("failed to put storage: %w", result.Error)
	}
	return nil
}
