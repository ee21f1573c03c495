package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis initializes a Redis client and checks it answers.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logrus.WithField("addr", addr).Info("connected to redis")
	return rdb, nil
}

// ContractorNames caches, per vendor, the names of contractors that sent the
// vendor an enquiry. Lists live under a per-vendor version; invalidating bumps
// the version, so a list filled from an older read is never served again and
// simply expires.
type ContractorNames struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewContractorNames(rdb redis.Cmdable, ttl time.Duration) *ContractorNames {
	return &ContractorNames{rdb: rdb, ttl: ttl}
}

func versionKey(vendorID int64) string {
	return fmt.Sprintf("vendor:%d:contractors:version", vendorID)
}

func contractorsKey(vendorID, version int64) string {
	return fmt.Sprintf("vendor:%d:contractors:%d", vendorID, version)
}

func (c *ContractorNames) version(ctx context.Context, vendorID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(vendorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get contractors version of vendor %d: %w", vendorID, err)
	}
	return v, nil
}

func (c *ContractorNames) Contractors(ctx context.Context, vendorID int64) ([]string, int64, bool, error) {
	version, err := c.version(ctx, vendorID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.rdb.Get(ctx, contractorsKey(vendorID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("get contractors of vendor %d: %w", vendorID, err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, version, false, fmt.Errorf("decode contractors of vendor %d: %w", vendorID, err)
	}
	return names, version, true, nil
}

func (c *ContractorNames) StoreContractors(ctx context.Context, vendorID, version int64, names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, contractorsKey(vendorID, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("store contractors of vendor %d: %w", vendorID, err)
	}
	return nil
}

func (c *ContractorNames) InvalidateContractors(ctx context.Context, vendorID int64) error {
	if err := c.rdb.Incr(ctx, versionKey(vendorID)).Err(); err != nil {
		return fmt.Errorf("invalidate contractors of vendor %d: %w", vendorID, err)
	}
	return nil
}
