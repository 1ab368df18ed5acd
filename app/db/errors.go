package database

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

const (
	pgUniqueViolation       = "23505"
	pgQueryCanceled         = "57014"
	pgAdminShutdown         = "57P01"
	pgCannotConnectNow      = "57P03"
	pgConnectionExceptionPC = "08"
)

// ClassifyError converts a pgx error into a *types.Error so no raw storage
// error leaves a repository. what names the operation for the message.
func ClassifyError(err error, what string) error {
	if err == nil {
		return nil
	}
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return types.NewError(types.KindNotFound, what+": not found", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return types.NewError(types.KindAlreadyExists, what+": duplicate key", err)
		case pgErr.Code == pgQueryCanceled, pgErr.Code == pgAdminShutdown, pgErr.Code == pgCannotConnectNow,
			len(pgErr.Code) == 5 && pgErr.Code[:2] == pgConnectionExceptionPC:
			return types.NewError(types.KindUnavailable, what+": database unavailable", err)
		}
		return types.NewError(types.KindInternal, what+": database error", err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		pgconn.Timeout(err) || pgconn.SafeToRetry(err) || errors.As(err, &netErr) {
		return types.NewError(types.KindUnavailable, what+": database unavailable", err)
	}

	return types.NewError(types.KindInternal, what+": database error", err)
}
