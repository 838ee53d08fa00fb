package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgViolation := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uq_transactions_business_number",
	}

	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, constraint: "uq_x", want: false},
		{
			name:       "pg typed error matching constraint",
			err:        fmt.Errorf("create: %w", pgViolation),
			constraint: "uq_transactions_business_number",
			want:       true,
		},
		{
			name:       "pg typed error other constraint",
			err:        pgViolation,
			constraint: "uq_users_business_username",
			want:       false,
		},
		{
			name:       "pg typed non-unique error",
			err:        &pgconn.PgError{Code: "23503"},
			constraint: "",
			want:       false,
		},
		{
			name:       "pg message shape",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "uq_transactions_business_number"`),
			constraint: "uq_transactions_business_number",
			want:       true,
		},
		{
			name:       "sqlite message shape",
			err:        errors.New("UNIQUE constraint failed: transactions.business_id, transactions.transaction_number"),
			constraint: "uq_transactions_business_number",
			want:       true,
		},
		{
			name:       "unrelated error",
			err:        errors.New("connection reset"),
			constraint: "uq_transactions_business_number",
			want:       false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
