package repository

import (
	"testing"

	"github.com/nimasrn/storefront-backoffice/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testDB struct {
	*pg.DB
	rawDB *gorm.DB
}

func setupTestDB(t *testing.T) *testDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// every :memory: connection is its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&UserEntity{},
		&PointAdjustmentEntity{},
		&PendingPhoneGrantEntity{},
		&BrandEntity{},
		&CategoryEntity{},
		&ProductEntity{},
	)
	require.NoError(t, err)

	return &testDB{
		DB:    pg.Wrap(db, db),
		rawDB: db,
	}
}
