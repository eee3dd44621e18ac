package migrations

import (
	"context"
	"grocery_store/internal/config"
	"grocery_store/internal/models"
	"grocery_store/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunMigrationsIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{AdminBootstrapEmail: "admin@grocery.local", AdminBootstrapPassword: "bootstrap-pass"}
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, db, cfg, zap.NewNop()))
	require.NoError(t, RunMigrations(ctx, db, cfg, zap.NewNop()))

	assert.Equal(t, int64(len(defaultUnits)), testutil.Count(t, db, &models.UnitOfMeasure{}))
	assert.Equal(t, int64(len(defaultCategories)), testutil.Count(t, db, &models.Category{}))

	var admins []models.User
	require.NoError(t, db.Where("is_admin = ?", true).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@grocery.local", admins[0].Email)
}

func TestRunMigrationsWithoutAdminPassword(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, RunMigrations(context.Background(), db, &config.Config{}, zap.NewNop()))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.User{}))
}
