package migrations_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/app/models"
	_ "github.com/shashiranjanraj/stockroom/database/migrations"
	"github.com/shashiranjanraj/stockroom/pkg/database"
	"github.com/shashiranjanraj/stockroom/pkg/migration"
)

func TestMigrations_CreateEveryModelTable(t *testing.T) {
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)

	r := migration.NewWith(db, io.Discard, migration.Registered()...)
	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, len(models.All()), n)

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}
