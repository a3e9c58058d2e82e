// persistence/gorm.go
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/blackjack/models"
)

// GormStore stores chain state through GORM. The same code serves the
// PostgreSQL and SQLite dialects.
type GormStore struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	store, err := openGorm(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := store.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return store, nil
}

// NewGormSQLite opens (or creates) a SQLite database file.
func NewGormSQLite(path string) (*GormStore, error) {
	return openGorm(sqlite.Open(path))
}

func openGorm(dialector gorm.Dialector) (*GormStore, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.GormChainState{}, &models.GormGameRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) SaveChainState(ctx context.Context, chainID, role string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.GormChainState
		err := tx.Where("chain_id = ?", chainID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.GormChainState{ChainID: chainID, Role: role, State: string(data)}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		row.Role = role
		row.State = string(data)
		return tx.Save(&row).Error
	})
}

func (g *GormStore) LoadChainState(ctx context.Context, chainID string, out any) error {
	var row models.GormChainState
	if err := g.db.WithContext(ctx).Where("chain_id = ?", chainID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(row.State), out)
}

func (g *GormStore) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	row := models.GormGameRecord{
		ChainID: record.ChainID,
		P1:      record.P1,
		P2:      record.P2,
		Winner:  record.Winner,
		Time:    record.Time,
	}
	return g.db.WithContext(ctx).Create(&row).Error
}

// GameRecords returns the newest records of chainID first.
func (g *GormStore) GameRecords(ctx context.Context, chainID string, limit int) ([]models.GameRecord, error) {
	var rows []models.GormGameRecord
	q := g.db.WithContext(ctx).Where("chain_id = ?", chainID).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.GameRecord, len(rows))
	for i, r := range rows {
		out[i] = models.GameRecord{ChainID: r.ChainID, P1: r.P1, P2: r.P2, Winner: r.Winner, Time: r.Time}
	}
	return out, nil
}

// Close 关闭数据库连接
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
