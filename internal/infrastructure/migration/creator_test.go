package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add products table", "add_products_table"},
		{"Add-Products-Table", "add_products_table"},
		{"ADD_PRODUCTS_TABLE", "add_products_table"},
		{"add__products__table", "add_products_table"},
		{"Add Reviews 123", "add_reviews_123"},
		{"create-design-order", "create_design_order"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add reviews table", "Review storage with moderation status")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// version prefix is YYYYMMDDHHMMSS
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add reviews table")
	assert.Contains(t, string(up), "Review storage with moderation status")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(nested, "seed catalog", "initial catalog rows")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func writeMigrationFixtures(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- test"), 0644))
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFixtures(t, dir,
		"000001_init_schema.up.sql", "000001_init_schema.down.sql",
		"000002_add_products.up.sql", "000002_add_products.down.sql",
		"000003_add_reviews.up.sql", "000003_add_reviews.down.sql",
	)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	for _, want := range []string{"000001_init_schema", "000002_add_products", "000003_add_reviews"} {
		assert.Contains(t, migrations, want)
	}
}

func TestListMigrations_EmptyAndMissing(t *testing.T) {
	migrations, err := ListMigrations(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, migrations)

	migrations, err = ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_OnlyUpFilesCounted(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFixtures(t, dir,
		"000001_init.up.sql", "000001_init.down.sql",
		"README.md", "config.yaml", ".gitkeep",
	)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init"}, migrations)
}

func TestListMigrations_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFixtures(t, dir, "000001_init.up.sql", "000001_init.down.sql")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Len(t, migrations, 1)
}
