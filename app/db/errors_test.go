package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{"no rows", pgx.ErrNoRows, types.KindNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), types.KindNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_active_key"}, types.KindAlreadyExists},
		{"query canceled", &pgconn.PgError{Code: "57014"}, types.KindUnavailable},
		{"connection exception", &pgconn.PgError{Code: "08006"}, types.KindUnavailable},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, types.KindInternal},
		{"deadline", context.DeadlineExceeded, types.KindUnavailable},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), types.KindUnavailable},
		{"unknown", errors.New("boom"), types.KindInternal},
		{"already typed", types.InvalidInputf("bad"), types.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err, "users")
			assert.Equal(t, tt.want, types.KindOf(got))
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.NoError(t, ClassifyError(nil, "users"))
}

func TestClassifyError_KeepsCause(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	err := ClassifyError(pgErr, "insert user")

	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.True(t, errors.Is(err, types.ErrAlreadyExists))
}
