package orders

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRetryableOrderNoErr(t *testing.T) {
	cases := map[string]struct {
		err       error
		retryable bool
	}{
		"serialization failure on counter bump": {
			err:       &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"},
			retryable: true,
		},
		"order number unique violation": {
			err:       &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_no_key"},
			retryable: true,
		},
		"wrapped serialization failure": {
			err:       fmt.Errorf("next order sequence: %w", &pgconn.PgError{Code: "40001"}),
			retryable: true,
		},
		"unique violation on another constraint": {
			err:       &pgconn.PgError{Code: "23505", ConstraintName: "order_items_pkey"},
			retryable: false,
		},
		"foreign key violation": {
			err:       &pgconn.PgError{Code: "23503", ConstraintName: "orders_customer_id_fkey"},
			retryable: false,
		},
		"plain error": {
			err:       errors.New("connection reset"),
			retryable: false,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, retryableOrderNoErr(tc.err))
		})
	}
}
