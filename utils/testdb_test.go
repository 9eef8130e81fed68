package utils

import (
	"testing"

	"github.com/karthik-739/OrchardKart/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the lifecycle tables
// migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.PreorderQuota{},
		&models.Preorder{},
		&models.ReturnFlow{},
		&models.PreorderPayment{},
	))
	return db
}
