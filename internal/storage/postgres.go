package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"listkeeper-bot/pkg/redis"
)

type PostgresStorage struct {
	db      *sqlx.DB
	redis   *redis.Client
	adminID int64
	logger  *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type User struct {
	ID       int64  `db:"id"`
	UserName string `db:"user_name"`
	UserID   int64  `db:"user_id"`
}

type List struct {
	ID       int64          `db:"id"`
	ListName string         `db:"list_name"`
	Info     sql.NullString `db:"info"`
}

type Item struct {
	ID       int64  `db:"id"`
	ItemName string `db:"item_name"`
}

func NewPostgresStorage(ctx context.Context, cfg Config, adminID int64, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:      db,
		redis:   redisClient,
		adminID: adminID,
		logger:  logger,
	}, nil
}

// isAuthorized is the single admin check gating list and user mutations.
func (s *PostgresStorage) isAuthorized(requesterID int64) bool {
	return requesterID == s.adminID
}

// ListAllLists returns every list ordered by insertion id.
func (s *PostgresStorage) ListAllLists(ctx context.Context) ([]List, error) {
	const query = `SELECT id, list_name, info FROM listnames ORDER BY id`

	var lists []List
	if err := s.db.SelectContext(ctx, &lists, query); err != nil {
		return nil, fmt.Errorf("failed to get lists: %w", err)
	}

	return lists, nil
}

// ListItems returns the items linked to the named list. Returns
// ErrListNotFound when no list carries that name.
func (s *PostgresStorage) ListItems(ctx context.Context, listName string) ([]Item, error) {
	const lookupQuery = `SELECT id FROM listnames WHERE list_name = $1`

	var listID int64
	if err := s.db.GetContext(ctx, &listID, lookupQuery, listName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrListNotFound, listName)
		}
		return nil, fmt.Errorf("failed to look up list: %w", err)
	}

	const itemsQuery = `
        SELECT i.id, i.item_name
        FROM itemnames i
        JOIN itemlists li ON i.id = li.item_id
        WHERE li.list_id = $1
        ORDER BY i.id
    `

	var items []Item
	if err := s.db.SelectContext(ctx, &items, itemsQuery, listID); err != nil {
		return nil, fmt.Errorf("failed to get list items: %w", err)
	}

	return items, nil
}

// CreateList inserts a new named list. Requires the admin requester and
// returns ErrDuplicate when the name is already taken.
func (s *PostgresStorage) CreateList(ctx context.Context, listName string, requesterID int64, description string) error {
	if !s.isAuthorized(requesterID) {
		return ErrNotAuthorized
	}

	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM listnames WHERE list_name = $1)`, listName)
	if err != nil {
		return fmt.Errorf("failed to check list name: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: list %s", ErrDuplicate, listName)
	}

	info := sql.NullString{String: description, Valid: description != ""}
	const query = `INSERT INTO listnames (list_name, info) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, listName, info); err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}

	return nil
}

// AddItem creates the item by name if absent and links it to the given
// list id. Linking is idempotent. A nonexistent list id is a silent no-op.
func (s *PostgresStorage) AddItem(ctx context.Context, itemName string, listID int64) error {
	var itemID int64
	err := s.db.GetContext(ctx, &itemID, `SELECT id FROM itemnames WHERE item_name = $1`, itemName)
	if errors.Is(err, sql.ErrNoRows) {
		err = s.db.GetContext(ctx, &itemID,
			`INSERT INTO itemnames (item_name) VALUES ($1) RETURNING id`, itemName)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve item: %w", err)
	}

	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM listnames WHERE id = $1)`, listID)
	if err != nil {
		return fmt.Errorf("failed to check list id: %w", err)
	}
	if !exists {
		s.logger.Debug("AddItem skipped: list id does not exist",
			zap.Int64("list_id", listID),
			zap.String("item", itemName))
		return nil
	}

	const linkQuery = `
        INSERT INTO itemlists (list_id, item_id)
        VALUES ($1, $2)
        ON CONFLICT (list_id, item_id) DO NOTHING
    `
	if _, err := s.db.ExecContext(ctx, linkQuery, listID, itemID); err != nil {
		return fmt.Errorf("failed to link item: %w", err)
	}

	return nil
}

// DeleteItem removes the named item; its list links go with it via
// cascade. Missing items are a no-op.
func (s *PostgresStorage) DeleteItem(ctx context.Context, itemName string) error {
	const query = `DELETE FROM itemnames WHERE item_name = $1`
	if _, err := s.db.ExecContext(ctx, query, itemName); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// DeleteList removes the named list and, via cascade, its item links.
// Requires the admin requester. Missing lists are a no-op.
func (s *PostgresStorage) DeleteList(ctx context.Context, listName string, requesterID int64) error {
	if !s.isAuthorized(requesterID) {
		return ErrNotAuthorized
	}

	const query = `DELETE FROM listnames WHERE list_name = $1`
	if _, err := s.db.ExecContext(ctx, query, listName); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// AddUser registers a platform identity as a known user. Requires the
// admin requester; returns ErrDuplicate when the id is already known.
func (s *PostgresStorage) AddUser(ctx context.Context, userID int64, userName string, requesterID int64) error {
	if !s.isAuthorized(requesterID) {
		return ErrNotAuthorized
	}

	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM userlist WHERE user_id = $1)`, userID)
	if err != nil {
		return fmt.Errorf("failed to check user id: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: user %d", ErrDuplicate, userID)
	}

	const query = `INSERT INTO userlist (user_name, user_id) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, userName, userID); err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	return nil
}

// UserExists reports whether the platform id belongs to a known user.
func (s *PostgresStorage) UserExists(ctx context.Context, userID int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM userlist WHERE user_id = $1)`, userID)
}

func (s *PostgresStorage) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, arg); err != nil {
		return false, err
	}
	return exists, nil
}

// CheckRateLimit reports whether the user exceeded the allowed number of
// actions within the window. Always false when Redis is not configured.
func (s *PostgresStorage) CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error) {
	if s.redis == nil {
		return false, nil
	}

	key := fmt.Sprintf("ratelimit:%d:%s", userID, action)

	count, err := s.redis.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiry if this is the first increment
	if count == 1 {
		if _, err := s.redis.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > limit, nil
}

// Migrate applies pending schema migrations.
func (s *PostgresStorage) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.db.DB, s.logger)
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
