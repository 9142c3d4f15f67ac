package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/mataju/config"
	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	housesTTL time.Duration
	unitsTTL  time.Duration
}

func NewRedisCache(cfg config.RedisConfig, housesTTL, unitsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		housesTTL: housesTTL,
		unitsTTL:  unitsTTL,
	}
}

func (c *RedisCache) GetHouses(ctx context.Context) ([]domain.House, error) {
	data, err := c.client.Get(ctx, housesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var houses []domain.House
	if err := json.Unmarshal(data, &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

func (c *RedisCache) SetHouses(ctx context.Context, houses []domain.House) error {
	payload, err := json.Marshal(houses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, housesKey(), payload, c.housesTTL).Err()
}

func (c *RedisCache) GetUnits(ctx context.Context, houseID int64) ([]domain.Unit, error) {
	data, err := c.client.Get(ctx, unitsKey(houseID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var units []domain.Unit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, err
	}
	return units, nil
}

func (c *RedisCache) SetUnits(ctx context.Context, houseID int64, units []domain.Unit) error {
	payload, err := json.Marshal(units)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, unitsKey(houseID), payload, c.unitsTTL).Err()
}

// InvalidateUnits drops the cached unit listing for a house after a
// unit there changed state.
func (c *RedisCache) InvalidateUnits(ctx context.Context, houseID int64) error {
	return c.client.Del(ctx, unitsKey(houseID)).Err()
}

func housesKey() string {
	return "cache:houses"
}

func unitsKey(houseID int64) string {
	return fmt.Sprintf("cache:house:%d:units", houseID)
}
