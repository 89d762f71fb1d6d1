package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionKey  = "reports:version"
	bumpChannel = "ledger.bump"
)

// Cache provides Redis backed read-through caching for assembled reports.
// Keys carry a global version token, so invalidation is a single counter
// increment rather than a key scan. A nil Cache (or nil client) degrades
// to pass-through: loaders always run, nothing is stored.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New instantiates the cache helper.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) disabled() bool {
	return c == nil || c.client == nil
}

// Version returns the current cache version, initialising to 1 when the
// counter is missing or has been corrupted to a non-positive value.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c.disabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		ver = 1
	case err != nil:
		return 0, fmt.Errorf("cache: read version: %w", err)
	case ver > 0:
		return ver, nil
	default:
		ver = 1
	}
	if err := c.client.Set(ctx, versionKey, ver, 0).Err(); err != nil {
		return 0, fmt.Errorf("cache: init version: %w", err)
	}
	return ver, nil
}

// BuildKey joins parts with the current version appended, so a version
// bump orphans every existing entry at once.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	base := strings.Join(parts, ":")
	if c.disabled() {
		return base, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return base + ":" + strconv.FormatInt(ver, 10), nil
}

// FetchJSON reads key into dest, running loader and storing its result on
// a miss. dest always receives the value through a JSON round trip so hits
// and misses populate it identically.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if !c.disabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return fmt.Errorf("cache: read %s: %w", key, err)
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if !c.disabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return fmt.Errorf("cache: store %s: %w", key, err)
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump increments the global version and publishes it so every instance
// abandons its cached reports at once.
func (c *Cache) Bump(ctx context.Context) error {
	if c.disabled() {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return fmt.Errorf("cache: bump version: %w", err)
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// ListenForInvalidation subscribes to bump notifications from peer
// instances and keeps the local version counter in sync. The subscription
// runs until ctx is cancelled.
func (c *Cache) ListenForInvalidation(ctx context.Context) error {
	if c.disabled() {
		return nil
	}
	sub := c.client.Subscribe(ctx, bumpChannel)
	go c.consumeBumps(ctx, sub)
	return nil
}

func (c *Cache) consumeBumps(ctx context.Context, sub *redis.PubSub) {
	defer func() { _ = sub.Close() }()
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			ver, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				// Unparseable payload still means somebody invalidated.
				_ = c.client.Incr(ctx, versionKey).Err()
				continue
			}
			_ = c.client.Set(ctx, versionKey, ver, 0).Err()
		}
	}
}

// IncomeStatementKey builds the cache key parts for a monthly income
// statement, including the comparison toggles.
func IncomeStatementKey(companyID, year, month int, ly, lm bool) []string {
	return []string{
		"reports", "income_statement",
		strconv.Itoa(companyID),
		fmt.Sprintf("%04d-%02d", year, month),
		flag(ly), flag(lm),
	}
}

// BalanceSheetKey builds the cache key parts for a balance sheet as-of date.
func BalanceSheetKey(companyID int, asOf time.Time) []string {
	return []string{
		"reports", "balance_sheet",
		strconv.Itoa(companyID),
		asOf.Format("2006-01-02"),
	}
}

// DashboardKey builds the cache key parts for a dashboard period.
func DashboardKey(companyID int, from, to time.Time) []string {
	return []string{
		"reports", "dashboard",
		strconv.Itoa(companyID),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	}
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
