package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx_NilKeepsContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithTx(ctx, nil))

	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestExec(t *testing.T) {
	db := &sql.DB{}
	sqlTx := &sql.Tx{}

	assert.Same(t, db, Exec(context.Background(), db))
	assert.Same(t, sqlTx, Exec(WithTx(context.Background(), sqlTx), db))
}

func TestRun_JoinsOuterTransaction(t *testing.T) {
	outer := WithTx(context.Background(), &sql.Tx{})
	called := false

	err := Run(outer, nil, func(ctx context.Context) error {
		called = true
		assert.Equal(t, outer, ctx)
		return errors.New("boom")
	})

	require.EqualError(t, err, "boom")
	assert.True(t, called)
}
