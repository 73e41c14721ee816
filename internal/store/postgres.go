package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"assettrack-api/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgres wires the three record sets to Postgres tables.
func NewPostgres(db *sql.DB) *Gateway {
	return &Gateway{
		Items: &pgItems{db: db},
		Users: &pgUsers{db: db},
		Logs:  &pgLogs{db: db},
	}
}

// classify maps driver errors onto the gateway taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type pgItems struct {
	db *sql.DB
}

const itemCols = `item_id, name, category, status, current_holder_id, current_holder_name, last_condition, last_updated`

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var it models.Item
	var holderID, holderName sql.NullString
	err := row.Scan(&it.ItemID, &it.Name, &it.Category, &it.Status,
		&holderID, &holderName, &it.LastCondition, &it.LastUpdated)
	if err != nil {
		return models.Item{}, err
	}
	if holderID.Valid {
		it.CurrentHolderID = &holderID.String
	}
	if holderName.Valid {
		it.CurrentHolderName = &holderName.String
	}
	return it, nil
}

func (s *pgItems) Get(ctx context.Context, itemID string) (models.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM items WHERE item_id = $1`, itemID)
	it, err := scanItem(row)
	if err != nil {
		return models.Item{}, classify(err)
	}
	return it, nil
}

func (s *pgItems) List(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM items ORDER BY last_updated DESC`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify(err)
		}
		items = append(items, it)
	}
	return items, classify(rows.Err())
}

func (s *pgItems) Put(ctx context.Context, item models.Item) (models.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO items (item_id, name, category, status, current_holder_id, current_holder_name, last_condition, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (item_id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			current_holder_id = EXCLUDED.current_holder_id,
			current_holder_name = EXCLUDED.current_holder_name,
			last_condition = EXCLUDED.last_condition,
			last_updated = now()
		RETURNING `+itemCols,
		item.ItemID, item.Name, item.Category, item.Status,
		item.CurrentHolderID, item.CurrentHolderName, item.LastCondition)
	it, err := scanItem(row)
	if err != nil {
		return models.Item{}, classify(err)
	}
	return it, nil
}

func (s *pgItems) Update(ctx context.Context, itemID string, patch models.ItemPatch) (models.Item, error) {
	sets := []string{"last_updated = now()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ClearHolder {
		sets = append(sets, "current_holder_id = NULL", "current_holder_name = NULL")
	} else {
		if patch.HolderID != nil {
			add("current_holder_id", *patch.HolderID)
		}
		if patch.HolderName != nil {
			add("current_holder_name", *patch.HolderName)
		}
	}
	if patch.LastCondition != nil {
		add("last_condition", *patch.LastCondition)
	}

	sqlStr := "UPDATE items SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE item_id = $%d RETURNING ", len(args)+1) + itemCols
	args = append(args, itemID)

	row := s.db.QueryRowContext(ctx, sqlStr, args...)
	it, err := scanItem(row)
	if err != nil {
		return models.Item{}, classify(err)
	}
	return it, nil
}

func (s *pgItems) Delete(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE item_id = $1`, itemID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type pgUsers struct {
	db *sql.DB
}

const userCols = `uid, name, email, role, department`

func (s *pgUsers) Get(ctx context.Context, uid string) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE uid = $1`, uid).
		Scan(&p.UID, &p.Name, &p.Email, &p.Role, &p.Department)
	if err != nil {
		return models.UserProfile{}, classify(err)
	}
	return p, nil
}

func (s *pgUsers) List(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users ORDER BY name`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	users := []models.UserProfile{}
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.UID, &p.Name, &p.Email, &p.Role, &p.Department); err != nil {
			return nil, classify(err)
		}
		users = append(users, p)
	}
	return users, classify(rows.Err())
}

func (s *pgUsers) Put(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (uid, name, email, role, department)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			department = EXCLUDED.department`,
		profile.UID, profile.Name, profile.Email, profile.Role, profile.Department)
	if err != nil {
		return models.UserProfile{}, classify(err)
	}
	return profile, nil
}

func (s *pgUsers) Update(ctx context.Context, uid string, patch models.UserPatch) (models.UserProfile, error) {
	type set struct {
		sql string
		val any
	}
	sets := make([]set, 0, 3)
	if patch.Name != nil {
		sets = append(sets, set{"name = $%d", *patch.Name})
	}
	if patch.Role != nil {
		sets = append(sets, set{"role = $%d", *patch.Role})
	}
	if patch.Department != nil {
		sets = append(sets, set{"department = $%d", *patch.Department})
	}
	if len(sets) == 0 {
		return s.Get(ctx, uid)
	}

	args := make([]any, 0, len(sets)+1)
	sqlStr := "UPDATE users SET "
	for i, ss := range sets {
		if i > 0 {
			sqlStr += ", "
		}
		sqlStr += fmt.Sprintf(ss.sql, len(args)+1)
		args = append(args, ss.val)
	}
	sqlStr += fmt.Sprintf(" WHERE uid = $%d RETURNING ", len(args)+1) + userCols
	args = append(args, uid)

	var p models.UserProfile
	err := s.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&p.UID, &p.Name, &p.Email, &p.Role, &p.Department)
	if err != nil {
		return models.UserProfile{}, classify(err)
	}
	return p, nil
}

func (s *pgUsers) Delete(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type pgLogs struct {
	db *sql.DB
}

func (s *pgLogs) Insert(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO logs (item_id, item_name, user_id, user_name, action, condition_reported, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING log_id`,
		entry.ItemID, entry.ItemName, entry.UserID, entry.UserName,
		entry.Action, entry.ConditionReported, entry.Timestamp).
		Scan(&entry.LogID)
	if err != nil {
		return models.LogEntry{}, classify(err)
	}
	return entry, nil
}

func (s *pgLogs) List(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT log_id, item_id, item_name, user_id, user_name, action, condition_reported, timestamp
		FROM logs ORDER BY timestamp DESC`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.LogID, &e.ItemID, &e.ItemName, &e.UserID, &e.UserName,
			&e.Action, &e.ConditionReported, &e.Timestamp); err != nil {
			return nil, classify(err)
		}
		entries = append(entries, e)
	}
	return entries, classify(rows.Err())
}
