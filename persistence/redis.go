package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/wfunc/blackjack/models"
)

const keyPrefix = "blackjack:"

// Redis stores each chain state as one JSON string and game records as a
// list per chain.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &Redis{rdb: rdb}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func stateKey(chainID string) string   { return keyPrefix + "state:" + chainID }
func recordsKey(chainID string) string { return keyPrefix + "records:" + chainID }
func roleKey(role string) string       { return keyPrefix + "role:" + role }

func (r *Redis) SaveChainState(ctx context.Context, chainID, role string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, stateKey(chainID), data, 0)
		pipe.SAdd(ctx, roleKey(role), chainID)
		return nil
	})
	return err
}

func (r *Redis) LoadChainState(ctx context.Context, chainID string, out any) error {
	data, err := r.rdb.Get(ctx, stateKey(chainID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrRecordNotFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}

func (r *Redis) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.rdb.LPush(ctx, recordsKey(record.ChainID), data).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
