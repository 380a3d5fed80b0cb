package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty defaults to DESC", "", "DESC"},
		{"ASC passes through", "ASC", "ASC"},
		{"lowercase asc normalized", "asc", "ASC"},
		{"DESC passes through", "DESC", "DESC"},
		{"surrounding whitespace trimmed", "  asc  ", "ASC"},
		{"whitespace only defaults to DESC", "   ", "DESC"},
		{"garbage defaults to DESC", "INVALID", "DESC"},
		{"injection payload defaults to DESC", "ASC; DROP TABLE users;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"name":       true,
	}

	tests := []struct {
		name         string
		input        string
		defaultField string
		want         string
	}{
		{"empty falls back to default", "", "created_at", "created_at"},
		{"whitelisted field passes", "name", "created_at", "name"},
		{"whitelisted id passes", "id", "created_at", "id"},
		{"unknown field falls back", "invalid_field", "created_at", "created_at"},
		{"lookup is case sensitive", "NAME", "created_at", "created_at"},
		{"surrounding whitespace trimmed", "  name  ", "created_at", "name"},
		{"whitespace only falls back", "   ", "created_at", "created_at"},
		{"injection payload falls back", "id; DROP TABLE users;--", "created_at", "created_at"},
		{"embedded space falls back", "name users", "created_at", "created_at"},
		{"quote injection falls back", "name'--", "created_at", "created_at"},
		{"empty default with valid field", "name", "", "name"},
		{"empty default with unknown field", "invalid", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, allowed, tt.defaultField))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	// Every whitelist carries the base columns plus at least one
	// entity-specific sortable column.
	tests := []struct {
		name      string
		whitelist map[string]bool
		specific  string
	}{
		{"users", UserSortFields, "email"},
		{"products", ProductSortFields, "base_price"},
		{"categories", CategorySortFields, "slug"},
		{"orders", OrderSortFields, "order_number"},
		{"design orders", DesignOrderSortFields, "unit_price"},
		{"reviews", ReviewSortFields, "rating"},
		{"custom requests", CustomRequestSortFields, "request_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, tt.whitelist[field], "missing base field %q", field)
			}
			assert.True(t, tt.whitelist[tt.specific], "missing field %q", tt.specific)
		})
	}

	t.Run("common fields", func(t *testing.T) {
		assert.True(t, CommonSortFields["id"])
		assert.True(t, CommonSortFields["created_at"])
		assert.True(t, CommonSortFields["updated_at"])
	})
}

func TestSortValidationRejectsInjection(t *testing.T) {
	payloads := []string{
		"id; DROP TABLE users;--",
		"id' OR '1'='1",
		"id\"; DROP TABLE users;--",
		"id UNION SELECT * FROM users",
		"id ORDER BY 1",
		"id, (SELECT password FROM users)",
		"CASE WHEN 1=1 THEN id ELSE name END",
		"id/**/;DROP TABLE users",
		"id\n; DROP TABLE users",
		"id\t; DROP TABLE users",
		"' OR ''='",
		"1; EXEC xp_cmdshell('dir')",
	}

	for _, payload := range payloads {
		label := payload[:min(len(payload), 30)]

		t.Run("field "+label, func(t *testing.T) {
			assert.Equal(t, "created_at", ValidateSortField(payload, ProductSortFields, "created_at"))
		})

		t.Run("order "+label, func(t *testing.T) {
			assert.Equal(t, "DESC", ValidateSortOrder(payload))
		})
	}
}
