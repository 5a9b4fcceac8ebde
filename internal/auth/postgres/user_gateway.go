// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package postgres implements auth.UserGateway over PostgreSQL functions.
package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dsweb/gamegate/internal/auth"
	"github.com/dsweb/gamegate/internal/result"
)

// DB is the subset of *pgxpool.Pool the gateway uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserGateway implements auth.UserGateway by calling named procedures.
type UserGateway struct {
	db     DB
	logger *slog.Logger
}

// NewUserGateway creates a UserGateway on db. A nil logger uses slog.Default.
func NewUserGateway(db DB, logger *slog.Logger) *UserGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserGateway{db: db, logger: logger}
}

var _ auth.UserGateway = (*UserGateway)(nil)

// call logs p and runs it, returning the single result row.
func (g *UserGateway) call(ctx context.Context, p Procedure, args ...any) (pgx.Row, error) {
	if len(args) != len(p.Params) {
		return nil, result.Failure(result.Fail, p.Name).
			With("want_params", len(p.Params)).
			With("got_params", len(args)).
			Errorf("wrong number of parameters for %s", p.Name)
	}
	g.logger.DebugContext(ctx, "executing procedure",
		"procedure", p.Name,
		"params", p.Params)
	return g.db.QueryRow(ctx, p.SQL, args...), nil
}

func dbError(p Procedure, err error) error {
	return result.Failure(result.DBError, p.Name).
		With("backend", "postgres").
		Wrapf(err, "failed to execute query: %s", p.Name)
}

// SelectByUserName runs SELECT_USER_INFO. Returns (nil, nil) when absent.
func (g *UserGateway) SelectByUserName(ctx context.Context, userName string) (*auth.UserRecord, error) {
	row, err := g.call(ctx, SelectUserInfo, userName)
	if err != nil {
		return nil, err
	}

	var u auth.UserRecord
	err = row.Scan(
		&u.UserID,
		&u.Token,
		&u.UserName,
		&u.UserPass,
		&u.CharType,
		&u.UserPoint,
		&u.MaxScore,
		&u.CreateDate,
		&u.LatestDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(SelectUserInfo, err)
	}
	return &u, nil
}

// InsertUser runs INSERT_USER_INFO. A taken name yields false, not an error.
func (g *UserGateway) InsertUser(ctx context.Context, userName, userPass string, charType int) (bool, error) {
	row, err := g.call(ctx, InsertUserInfo, userName, userPass, charType)
	if err != nil {
		return false, err
	}

	var affected int
	if err := row.Scan(&affected); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return false, nil
		}
		return false, dbError(InsertUserInfo, err)
	}
	return affected > 0, nil
}

// UpdateToken runs UPDATE_USER_TOKEN.
func (g *UserGateway) UpdateToken(ctx context.Context, userName, token string) (bool, error) {
	row, err := g.call(ctx, UpdateUserToken, userName, token)
	if err != nil {
		return false, err
	}

	var affected int
	if err := row.Scan(&affected); err != nil {
		return false, dbError(UpdateUserToken, err)
	}
	return affected > 0, nil
}
