package db

import (
	"path/filepath"
	"testing"

	"hr_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	require.NoError(t, Initialize(dbPath, "test"))
	defer func() {
		require.NoError(t, Close())
		DB = nil
	}()

	require.NoError(t, Migrate())

	// The full workflow schema comes up without callers listing models
	migrator := DB.Migrator()
	assert.True(t, migrator.HasTable(&models.Company{}))
	assert.True(t, migrator.HasTable(&models.User{}))
	assert.True(t, migrator.HasTable(&models.Session{}))
	assert.True(t, migrator.HasTable(&models.DisciplinaryCase{}))
	assert.True(t, migrator.HasTable(&models.CaseEvent{}))
	assert.True(t, migrator.HasTable(&models.CaseMinute{}))
	assert.True(t, migrator.HasTable(&models.CaseAttachment{}))
	assert.True(t, migrator.HasTable(&models.EmployeeDisciplinaryRecord{}))
	assert.True(t, migrator.HasTable(&models.PayrollPeriod{}))
	assert.True(t, migrator.HasTable(&models.PayrollAdjustment{}))
	assert.True(t, migrator.HasTable(&models.Notification{}))

	// Case code uniqueness relies on the composite index being in place
	assert.True(t, migrator.HasIndex(&models.DisciplinaryCase{}, "idx_company_case_code"))
}

func TestMigrateRequiresInitialize(t *testing.T) {
	prev := DB
	DB = nil
	defer func() { DB = prev }()

	assert.Error(t, Migrate())
}
