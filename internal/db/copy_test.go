package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "properties", []string{"attom_id", "address"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"properties"}, []string{"attom_id", "address"}).WillReturnResult(3)

	rows := [][]any{{int64(1), "100 MAIN ST"}, {int64(2), "102 MAIN ST"}, {int64(3), "104 MAIN ST"}}
	n, err := CopyFrom(context.Background(), mock, "properties", []string{"attom_id", "address"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"properties"}, []string{"attom_id"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{int64(1)}}
	_, err = CopyFrom(context.Background(), mock, "properties", []string{"attom_id"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO properties")
	assert.NoError(t, mock.ExpectationsWereMet())
}
