package migration_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/pkg/database"
	"github.com/shashiranjanraj/stockroom/pkg/migration"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type gadget struct {
	ID  uint `gorm:"primaryKey"`
	SKU string
}

func TestRunner_RunStatusRollback(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)

	r := migration.NewWith(db, io.Discard,
		migration.Entry{Name: "20260101000001_create_gadgets", Migration: migration.Table(&gadget{})},
		migration.Entry{Name: "20260101000000_create_widgets", Migration: migration.Table(&widget{})},
	)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.True(t, db.Migrator().HasTable(&gadget{}))

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := r.Status()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "20260101000000_create_widgets", rows[0].Name)
	assert.True(t, rows[0].Ran)
	assert.Equal(t, 1, rows[0].Batch)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}
