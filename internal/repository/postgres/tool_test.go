package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modelCols = []string{"id", "name", "maker", "category", "description", "daily_price", "deposit", "withdrawn"}

func TestToolModelRepository_ListWithStock(t *testing.T) {
	db, mock := newMock(t)
	repo := postgres.NewToolModelRepository(db)

	mock.ExpectQuery("FILTER \\(WHERE i.location = 'W_MAGAZYNIE' AND i.condition = 'SPRAWNY'\\)(.+)ILIKE \\$1(.+)m.category = \\$2").
		WithArgs("%bosch%", "Wiertarki").
		WillReturnRows(sqlmock.NewRows(append(modelCols, "count")).
			AddRow(1, "Wiertarka udarowa", "Bosch", "Wiertarki", "", 20, 100, false, 3).
			AddRow(2, "Wkrętarka", "Bosch", "Wiertarki", "", 15, 50, false, 0))

	out, err := repo.ListWithStock(context.Background(), "bosch", "Wiertarki")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Wiertarka udarowa", out[0].Model.Name)
	assert.Equal(t, 3, out[0].Count)
	assert.Equal(t, 0, out[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolModelRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := postgres.NewToolModelRepository(db)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("FROM tool_models m WHERE m.id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(modelCols).AddRow(1, "Wiertarka", "Bosch", "Wiertarki", "opis", 20, 100, false))

		m, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int32(20), m.DailyPrice)
		assert.Equal(t, int32(100), m.Deposit)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("FROM tool_models m WHERE m.id = \\$1").
			WithArgs(int32(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 9)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
