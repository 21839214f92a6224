package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// onDelete collects the ON DELETE action of every foreign key gorm derives from v's relations.
func onDelete(t *testing.T, v any) (string, map[string]string) {
	t.Helper()
	s, err := schema.Parse(v, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	actions := map[string]string{}
	for _, rel := range s.Relationships.Relations {
		if c := rel.ParseConstraint(); c != nil {
			actions[c.Name] = c.OnDelete
		}
	}
	return s.Table, actions
}

func TestTableNames(t *testing.T) {
	for want, v := range map[string]any{
		"users":         &User{},
		"cafes":         &Cafe{},
		"categories":    &Category{},
		"option_groups": &OptionGroup{},
		"options":       &Option{},
		"products":      &Product{},
	} {
		table, _ := onDelete(t, v)
		assert.Equal(t, want, table)
	}
}

func TestDeletesCascadeDownTheCatalog(t *testing.T) {
	_, category := onDelete(t, &Category{})
	assert.Equal(t, "CASCADE", category["fk_categories_products"])
	assert.Equal(t, "CASCADE", category["fk_categories_cafe"])

	_, group := onDelete(t, &OptionGroup{})
	assert.Equal(t, "CASCADE", group["fk_option_groups_options"])
	assert.Equal(t, "CASCADE", group["fk_option_groups_cafe"])

	_, cafe := onDelete(t, &Cafe{})
	assert.Equal(t, "CASCADE", cafe["fk_cafes_owner"])
}
