package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-map/internal/entity"
)

var placeColumns = []string{"title", "type", "postal_code", "address", "tel", "url", "latitude", "longitude"}

func TestLoadPlaceOrdered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT title, type, postal_code, address, tel, url, latitude, longitude\s+FROM _places ORDER BY position ASC`).
		WillReturnRows(sqlmock.NewRows(placeColumns).
			AddRow("A", "cafe", "100", "addr a", "1", "https://a", 1.0, 2.0).
			AddRow("B", "park", "200", "addr b", "", "", 3.0, 4.0))

	places, err := AttachDB(db).LoadPlace(context.Background())
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "A", places[0].Title)
	assert.Equal(t, entity.NewLocation(3, 4), places[1].Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacePlacesRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM _places`).WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare(`INSERT INTO _places`)
	prep.ExpectExec().WithArgs(0, "A", "cafe", "", "", "", "", 1.0, 2.0).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(1, "B", "", "", "", "", "", 3.0, 4.0).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err = AttachDB(db).ReplacePlaces(context.Background(), []entity.Place{
		{Title: "A", Type: "cafe", Location: entity.NewLocation(1, 2)},
		{Title: "B", Location: entity.NewLocation(3, 4)},
	})
	assert.ErrorContains(t, err, "insert 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacePlacesCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM _places`).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(`INSERT INTO _places`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = AttachDB(db).ReplacePlaces(context.Background(), []entity.Place{{Title: "A"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
