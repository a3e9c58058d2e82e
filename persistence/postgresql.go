// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/wfunc/blackjack/models"
)

const queryTimeout = 5 * time.Second

// PostgreSQL stores chain state through database/sql and lib/pq.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS chain_states (
            id SERIAL PRIMARY KEY,
            chain_id VARCHAR(255) UNIQUE NOT NULL,
            role VARCHAR(50) NOT NULL,
            state JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            chain_id VARCHAR(255) NOT NULL,
            p1 VARCHAR(255) NOT NULL,
            p2 VARCHAR(255) NOT NULL,
            winner VARCHAR(255) NOT NULL DEFAULT '',
            time BIGINT NOT NULL
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_chain_states_role ON chain_states(role);
        CREATE INDEX IF NOT EXISTS idx_game_records_chain_id ON game_records(chain_id);
    `)
	return err
}

func (p *PostgreSQL) SaveChainState(ctx context.Context, chainID, role string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
        INSERT INTO chain_states (chain_id, role, state)
        VALUES ($1, $2, $3)
        ON CONFLICT (chain_id)
        DO UPDATE SET role = $2, state = $3, updated_at = CURRENT_TIMESTAMP
    `
	_, err = p.db.ExecContext(ctx, query, chainID, role, data)
	return err
}

func (p *PostgreSQL) LoadChainState(ctx context.Context, chainID string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT state FROM chain_states WHERE chain_id = $1`, chainID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}

func (p *PostgreSQL) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
        INSERT INTO game_records (chain_id, p1, p2, winner, time)
        VALUES ($1, $2, $3, $4, $5)
    `
	// time is stored signed; microsecond timestamps stay far below 2^63
	_, err := p.db.ExecContext(ctx, query, record.ChainID, record.P1, record.P2, record.Winner, int64(record.Time))
	return err
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
