// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormChainState 链状态, one row per chain holding its JSON encoded state.
type GormChainState struct {
	gorm.Model
	ChainID string `gorm:"uniqueIndex;not null"`
	Role    string `gorm:"index;not null"`
	State   string `gorm:"type:text;not null"`
}

func (GormChainState) TableName() string {
	return "chain_states"
}

// GormGameRecord 对局记录
type GormGameRecord struct {
	ID      uint   `gorm:"primaryKey"`
	ChainID string `gorm:"index;not null"`
	P1      string `gorm:"not null"`
	P2      string `gorm:"not null"`
	Winner  string
	Time    uint64 `gorm:"index"`
}

func (GormGameRecord) TableName() string {
	return "game_records"
}
