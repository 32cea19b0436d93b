package migration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgetsTable struct{}

func (createWidgetsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgetsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type addedLater struct{}

func (addedLater) Up(db *gorm.DB) error   { return nil }
func (addedLater) Down(db *gorm.DB) error { return nil }

func testRunner(t *testing.T) *Runner {
	t.Helper()

	prev := registry
	registry = nil
	t.Cleanup(func() { registry = prev })

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(db)
}

func TestRunAppliesPendingOnce(t *testing.T) {
	r := testRunner(t)
	Register("20260101000000_create_widgets_table", createWidgetsTable{})

	require.NoError(t, r.Run())
	assert.True(t, r.db.Migrator().HasTable(&widget{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A second run is a no-op.
	require.NoError(t, r.Run())
}

func TestRunPicksUpNewMigrations(t *testing.T) {
	r := testRunner(t)
	Register("20260101000000_create_widgets_table", createWidgetsTable{})
	require.NoError(t, r.Run())

	Register("20260201000000_added_later", addedLater{})
	pending, err := r.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "20260201000000_added_later", pending[0].name)

	require.NoError(t, r.Run())

	var records []migrationRecord
	require.NoError(t, r.db.Find(&records).Error)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Batch)
	assert.Equal(t, 2, records[1].Batch)
}

func TestRollbackReversesLastBatch(t *testing.T) {
	r := testRunner(t)
	Register("20260101000000_create_widgets_table", createWidgetsTable{})
	require.NoError(t, r.Run())
	require.True(t, r.db.Migrator().HasTable(&widget{}))

	require.NoError(t, r.Rollback())
	assert.False(t, r.db.Migrator().HasTable(&widget{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// Nothing left to roll back.
	require.NoError(t, r.Rollback())
}
