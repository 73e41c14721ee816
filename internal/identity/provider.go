package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"assettrack-api/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// minPasswordLen matches the hosted provider's weak-password rule.
const minPasswordLen = 6

// Provider holds credential accounts. Accounts are a separate record set from
// user profiles: an account can exist without a profile (and does, whenever a
// registration dies between the two writes).
type Provider interface {
	// CreateAccount registers email+password and returns the new subject uid.
	CreateAccount(ctx context.Context, email, password string) (string, error)
	// Verify checks email+password and returns the subject uid.
	Verify(ctx context.Context, email, password string) (string, error)
	// DeleteAccount removes the credential account for a uid.
	DeleteAccount(ctx context.Context, uid string) error
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

// PostgresProvider keeps accounts in the accounts table with bcrypt hashes.
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if err := checkPassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	uid := uuid.NewString()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO accounts (uid, email, password_hash) VALUES ($1, $2, $3)`,
		uid, email, string(hash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrEmailAlreadyInUse
		}
		return "", fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return uid, nil
}

func (p *PostgresProvider) Verify(ctx context.Context, email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	var uid, hash string
	err = p.db.QueryRowContext(ctx,
		`SELECT uid, password_hash FROM accounts WHERE email = $1`, email).
		Scan(&uid, &hash)
	if err == sql.ErrNoRows {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}
	return uid, nil
}

func (p *PostgresProvider) DeleteAccount(ctx context.Context, uid string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM accounts WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MemoryProvider is the in-process account store used by tests.
type MemoryProvider struct {
	mu       sync.RWMutex
	accounts map[string]memAccount // keyed by email
}

type memAccount struct {
	uid  string
	hash []byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{accounts: map[string]memAccount{}}
}

func (p *MemoryProvider) CreateAccount(_ context.Context, email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if err := checkPassword(password); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[email]; ok {
		return "", ErrEmailAlreadyInUse
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	uid := uuid.NewString()
	p.accounts[email] = memAccount{uid: uid, hash: hash}
	return uid, nil
}

func (p *MemoryProvider) Verify(_ context.Context, email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	p.mu.RLock()
	acct, ok := p.accounts[email]
	p.mu.RUnlock()
	if !ok {
		return "", ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return "", ErrWrongPassword
	}
	return acct.uid, nil
}

func (p *MemoryProvider) DeleteAccount(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for email, acct := range p.accounts {
		if acct.uid == uid {
			delete(p.accounts, email)
			return nil
		}
	}
	return ErrUserNotFound
}
