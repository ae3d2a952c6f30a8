package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"timebill/internal/core/entity"
	"timebill/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	entity.BusinessScoped
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{"id", "deletion_mark", "version", "business_id", "code", "name"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
}

func TestStructToMap(t *testing.T) {
	bid := id.New()
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		BusinessScoped: entity.BusinessScoped{BusinessID: bid},
		Code:           "TEST",
		Name:           "Test Name",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, bid, m["business_id"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
}

func TestStructToMap_SkipsIgnoredFields(t *testing.T) {
	type withIgnored struct {
		Code  string   `db:"code"`
		Lines []string `db:"-"`
		NoTag string
	}

	m := StructToMap(withIgnored{Code: "X", Lines: []string{"a"}, NoTag: "y"})

	assert.Equal(t, map[string]any{"code": "X"}, m)
}
