package services

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/storefront-backoffice/internal/expiry"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/repository"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&repository.UserEntity{}, &repository.PointAdjustmentEntity{}, &repository.PendingPhoneGrantEntity{}))
	return pg.Wrap(db, db)
}

func TestPointsLedger_GrantWithAndWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	users := repository.NewUserRepository(db)
	adjustments := repository.NewPointAdjustmentRepository(db)

	user := &model.User{Email: "u@example.com", Role: model.RoleUser}
	require.NoError(t, users.Create(ctx, user))

	svc := NewPointsService(users, adjustments, expiry.NewParser(wib))
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

	res, err := svc.RecordAdjustment(ctx, model.AdjustmentCreateRequest{
		UserID: user.ID.String(), Delta: 100, ExpiresAt: strPtr("31/12/2026 00:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Points)

	res, err = svc.RecordAdjustment(ctx, model.AdjustmentCreateRequest{UserID: user.ID.String(), Delta: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(150), res.Points)

	summary, err := svc.Summarize(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(150), summary.CurrentBalance())

	want := time.Date(2026, 12, 30, 17, 0, 0, 0, time.UTC)
	require.Len(t, summary.ExpiringByDate, 1)
	assert.True(t, summary.ExpiringByDate[0].ExpiresAt.Equal(want), "got %s", summary.ExpiringByDate[0].ExpiresAt)
	assert.Equal(t, int64(100), summary.ExpiringByDate[0].Points)
	require.NotNil(t, summary.NextExpiring)
	assert.Equal(t, summary.ExpiringByDate[0], *summary.NextExpiring)
}

func TestPointsLedger_CachedBalanceMatchesLedger(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	users := repository.NewUserRepository(db)
	adjustments := repository.NewPointAdjustmentRepository(db)

	user := &model.User{Email: "v@example.com"}
	require.NoError(t, users.Create(ctx, user))
	svc := NewPointsService(users, adjustments, expiry.NewParser(wib))

	for _, d := range []int64{30, -10, 500, -600, 1} {
		_, err := svc.RecordAdjustment(ctx, model.AdjustmentCreateRequest{UserID: user.ID.String(), Delta: d})
		require.NoError(t, err)
	}

	_, err := svc.RecordAdjustment(ctx, model.AdjustmentCreateRequest{UserID: user.ID.String(), Delta: 0})
	require.ErrorIs(t, err, ErrInvalidDelta)

	cached, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	sum, err := adjustments.SumDeltas(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-79), cached.Points)
	assert.Equal(t, cached.Points, sum)
}

func TestPendingGrants_NoMerge(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerDB(t)
	grants := repository.NewPendingPhoneGrantRepository(db)
	svc := NewPhoneGrantService(grants, expiry.NewParser(wib))

	for _, points := range []int64{200, 75} {
		res, err := svc.RecordPendingGrant(ctx, model.PendingGrantCreateRequest{Phone: "0812-3456-789", Points: points})
		require.NoError(t, err)
		assert.Equal(t, "628123456789", res.Phone)
		assert.Equal(t, points, res.Points)
	}

	rows, err := svc.ListPendingGrants(ctx, "628123456789")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	deltas := []int64{rows[0].Delta, rows[1].Delta}
	assert.ElementsMatch(t, []int64{200, 75}, deltas)
	for _, r := range rows {
		assert.Equal(t, "628123456789", r.Phone)
	}
}
