package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UsersTableSQL creates the users table on SQLite
var UsersTableSQL = `CREATE TABLE IF NOT EXISTS "users" (
	"id" TEXT NOT NULL PRIMARY KEY,
	"username" TEXT NOT NULL UNIQUE,
	"password_hash" TEXT,
	"is_active" BOOLEAN NOT NULL DEFAULT TRUE,
	"roles" TEXT NOT NULL DEFAULT '[]',
	"loggedin_at" TIMESTAMP,
	"created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	"updated_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	"deleted_at" TIMESTAMP
);`

// Users is the user store consumed by UserProvider
type Users interface {
	repository.Repository[*User]
	UserFinder

	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	Register(ctx context.Context, username, password string, roles ...string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, username, password string, roles ...string) (*User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetActiveTx(ctx context.Context, tx bun.IDB, id uuid.UUID, active bool) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// EnsureUsersTable runs UsersTableSQL
func EnsureUsersTable(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, UsersTableSQL)
	return err
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, username, password string, roles ...string) (*User, error) {
	return a.RegisterTx(ctx, a.db, username, password, roles...)
}

// RegisterTx hashes password and stores a new active user
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, username, password string, roles ...string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	record := &User{
		Username:     strings.TrimSpace(username),
		PasswordHash: hash,
		Active:       true,
		Roles:        append([]string{}, roles...),
	}
	prepareUserDefaults(record)

	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *users) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return a.SetActiveTx(ctx, a.db, id, active)
}

func (a *users) SetActiveTx(ctx context.Context, tx bun.IDB, id uuid.UUID, active bool) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	if user == nil {
		return nil
	}
	loggedInAt := time.Now()
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("loggedin_at = ?", loggedInAt).
		Where("id = ?", user.ID).
		Exec(ctx)
	if err == nil {
		user.LoggedInAt = &loggedInAt
	}
	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Roles == nil {
		record.Roles = []string{}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
