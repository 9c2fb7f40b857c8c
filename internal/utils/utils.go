package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

const pgUniqueViolation = "23505"

// ParseDurationEnv reads a duration from an env value. Go duration syntax
// ("750ms", "5m") and whole seconds ("10") are accepted, optionally quoted.
func ParseDurationEnv(raw string) (time.Duration, error) {
	v := unquote(strings.TrimSpace(raw))
	if v == "" {
		return 0, errors.New("empty duration")
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("duration %q: want 10s, 5m or whole seconds: %w", raw, err)
	}
	return d, nil
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
		return v[1 : len(v)-1]
	}
	return v
}

// ParseRedisURL splits a redis:// or rediss:// URL into the fields the task
// cache connects with. An omitted host falls back to localhost:6379.
func ParseRedisURL(raw string) (addr, password string, db int, err error) {
	opts, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return "", "", 0, err
	}
	return opts.Addr, opts.Password, opts.DB, nil
}

// IsPGUniqueViolation reports whether err wraps a Postgres unique_violation.
func IsPGUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
