package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/contacts-service/internal/domain"
)

var pageAll = domain.Page{Limit: 1000}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
