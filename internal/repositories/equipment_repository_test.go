package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inspection-ingest/internal/entities"
	"inspection-ingest/pkg/database/postgresql"
	apperrors "inspection-ingest/pkg/errors"
	"inspection-ingest/pkg/types"
)

// testPool поднимает пул к тестовой БД и накатывает миграции.
// Без TEST_DATABASE_URL интеграционные тесты пропускаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	pool, err := postgresql.ConnectDB(context.Background(), dsn, true, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE TABLE equipment_records RESTART IDENTITY`)
	require.NoError(t, err, "Не удалось очистить таблицы")
	return pool
}

func upsert(t *testing.T, repo EquipmentRepositoryInterface, rec entities.Equipment) (*entities.Equipment, bool) {
	t.Helper()
	ctx := context.Background()
	session, err := repo.Session(ctx)
	require.NoError(t, err)
	defer session.Close()

	var saved *entities.Equipment
	created := false
	err = session.InTx(ctx, func(tx EquipmentTxInterface) error {
		if err := tx.LockKey(ctx, rec.Tag, rec.AssignedDate); err != nil {
			return err
		}
		existing, err := tx.FindByKey(ctx, rec.Tag, rec.AssignedDate)
		if err == apperrors.ErrNotFound {
			created = true
			saved, err = tx.Create(ctx, rec)
			return err
		}
		if err != nil {
			return err
		}
		saved, err = tx.Update(ctx, existing.ID, rec)
		return err
	})
	require.NoError(t, err)
	return saved, created
}

func TestEquipmentRepository_UpsertByKey(t *testing.T) {
	pool := testPool(t)
	repo := NewEquipmentRepository(pool, zap.NewNop())
	date := null.TimeFrom(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	first, created := upsert(t, repo, entities.Equipment{
		Tag: "111-BOMBA-07", AssignedDate: date, Servicio: null.StringFrom("Preventivo"),
	})
	assert.True(t, created)

	second, created := upsert(t, repo, entities.Equipment{
		Tag: "111-BOMBA-07", AssignedDate: date, MinutesToPerform: null.IntFrom(30),
	})
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Servicio.Valid, "обновление перезаписывает запись целиком")
	assert.Equal(t, 30, second.MinutesToPerform.Int)

	_, created = upsert(t, repo, entities.Equipment{Tag: "111-BOMBA-07"})
	assert.True(t, created, "null-дата - отдельный ключ")

	_, created = upsert(t, repo, entities.Equipment{Tag: "111-BOMBA-07"})
	assert.False(t, created, "null-дата совпадает с null-датой")

	list, total, err := repo.GetEquipments(context.Background(), types.Filter{WithPagination: true, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	found, err := repo.FindEquipment(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "111-BOMBA-07", found.Tag)

	_, err = repo.FindEquipment(context.Background(), 999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentRepository_ConcurrentSameKey(t *testing.T) {
	pool := testPool(t)
	repo := NewEquipmentRepository(pool, zap.NewNop())
	date := null.TimeFrom(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			upsert(t, repo, entities.Equipment{Tag: "CONC-1", AssignedDate: date})
		}()
	}
	wg.Wait()

	_, total, err := repo.GetEquipments(context.Background(), types.Filter{
		Filter: map[string]interface{}{"numero_equipo_tag": "CONC-1"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestLockKey(t *testing.T) {
	date := null.TimeFrom(time.Date(2024, 3, 15, 0, 0, 0, 0, time.FixedZone("x", -5*3600)))
	assert.Equal(t, "equipment_records|T-1|2024-03-15T05:00:00.000Z", lockKey("T-1", date))
	assert.Equal(t, "equipment_records|T-1|null", lockKey("T-1", null.Time{}))
}
