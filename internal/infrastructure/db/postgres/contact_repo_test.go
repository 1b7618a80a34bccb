package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/contacts-service/internal/domain"
)

var contactCols = []string{
	"id", "first_name", "last_name", "email", "phone_number",
	"birthday", "additional_info", "created_at", "updated_at",
}

var bday = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func TestContactRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs("A", "B", "a@b.com", "123", bday, nil).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(1, "A", "B", "a@b.com", "123", bday, nil, fixedTime, fixedTime))

	c, err := repo.Create(context.Background(), domain.ContactFields{
		FirstName: "A", LastName: "B", Email: "a@b.com", PhoneNumber: "123", Birthday: bday,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Nil(t, c.AdditionalInfo)
	assert.True(t, c.Birthday.Equal(bday))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_Get_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(contactCols))

	_, err := repo.Get(context.Background(), 5)
	assert.True(t, domain.Is(err, "contact_not_found"))
}

func TestContactRepo_Get_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM contacts`).WillReturnError(errors.New("boom"))

	_, err := repo.Get(context.Background(), 5)
	assert.True(t, domain.Is(err, "db_unavailable"))
}

func TestContactRepo_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM contacts ORDER BY id OFFSET \$1 LIMIT \$2`).
		WithArgs(10, 2).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(11, "A", "B", "a@b.com", "1", bday, "note", fixedTime, fixedTime).
			AddRow(12, "C", "D", "c@d.com", "2", bday, nil, fixedTime, fixedTime))

	got, err := repo.List(context.Background(), domain.Page{Skip: 10, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].AdditionalInfo)
	assert.Equal(t, "note", *got[0].AdditionalInfo)
	assert.Nil(t, got[1].AdditionalInfo)
}

func TestContactRepo_List_EmptyIsNonNil(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM contacts`).WillReturnRows(sqlmock.NewRows(contactCols))

	got, err := repo.List(context.Background(), domain.Page{Limit: 100})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestContactRepo_Update_OnlySuppliedColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`UPDATE contacts SET last_name = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(int64(1), "C").
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(1, "A", "C", "a@b.com", "123", bday, nil, fixedTime, fixedTime))

	last := "C"
	c, err := repo.Update(context.Background(), 1, domain.ContactPatch{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "C", c.LastName)
	assert.Equal(t, "A", c.FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_Update_EmptyAdditionalInfoWritesNull(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`UPDATE contacts SET additional_info = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(int64(1), nil).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(1, "A", "B", "a@b.com", "123", bday, nil, fixedTime, fixedTime))

	empty := ""
	c, err := repo.Update(context.Background(), 1, domain.ContactPatch{AdditionalInfo: &empty})
	require.NoError(t, err)
	assert.Nil(t, c.AdditionalInfo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`UPDATE contacts`).WillReturnRows(sqlmock.NewRows(contactCols))

	first := "X"
	_, err := repo.Update(context.Background(), 1, domain.ContactPatch{FirstName: &first})
	assert.True(t, domain.Is(err, "contact_not_found"))
}

func TestContactRepo_Update_EmptyPatchReads(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(1, "A", "B", "a@b.com", "123", bday, nil, fixedTime, fixedTime))

	c, err := repo.Update(context.Background(), 1, domain.ContactPatch{})
	require.NoError(t, err)
	assert.Equal(t, "B", c.LastName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContactRepo(db)

	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM contacts WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.True(t, domain.Is(repo.Delete(context.Background(), 1), "contact_not_found"))
}
