package category

import (
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestDefaults(t *testing.T) {
	categories := Defaults(testNow)

	require.Len(t, categories, 8)
	assert.Equal(t, "default-0", categories[0].ID)
	assert.Equal(t, "FastFood", categories[0].Name)
	assert.Equal(t, model.IconUtensilsCrossed, categories[0].Icon)
	assert.Equal(t, "#FF8042", categories[0].Color)
	assert.Equal(t, "default-7", categories[7].ID)
	assert.Equal(t, OtherName, categories[7].Name)

	for _, c := range categories {
		assert.True(t, c.IsDefault, c.Name)
		assert.True(t, c.Icon.Valid(), c.Name)
		assert.Equal(t, testNow, c.CreatedAt)
	}
}

func TestAdd(t *testing.T) {
	base := Defaults(testNow)

	next, added := Add(base, "c1", "  Groceries ", model.IconShoppingCart, "#123456", testNow)

	assert.Len(t, base, 8, "input must not be mutated")
	require.Len(t, next, 9)
	assert.Equal(t, "Groceries", added.Name)
	assert.False(t, added.IsDefault)
	assert.Equal(t, added, next[8])
}

func TestUpdate(t *testing.T) {
	base, _ := Add(Defaults(testNow), "c1", "Groceries", model.IconShoppingCart, "#123456", testNow)
	name := "Food Shopping"
	color := "#654321"

	tests := []struct {
		wantErr error
		check   func(t *testing.T, got []model.Category)
		patch   model.CategoryPatch
		name    string
		id      string
	}{
		{
			name:  "rename and recolor",
			id:    "c1",
			patch: model.CategoryPatch{Name: &name, Color: &color},
			check: func(t *testing.T, got []model.Category) {
				t.Helper()
				c, ok := Find(got, "c1")
				require.True(t, ok)
				assert.Equal(t, name, c.Name)
				assert.Equal(t, color, c.Color)
				assert.Equal(t, model.IconShoppingCart, c.Icon)
				assert.False(t, c.IsDefault)
			},
		},
		{
			name:  "default category keeps its default flag",
			id:    "default-1",
			patch: model.CategoryPatch{Name: &name},
			check: func(t *testing.T, got []model.Category) {
				t.Helper()
				c, _ := Find(got, "default-1")
				assert.True(t, c.IsDefault)
				assert.Equal(t, name, c.Name)
			},
		},
		{
			name:    "unknown id",
			id:      "missing",
			wantErr: common.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Update(base, tt.id, tt.patch)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, base, got)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestDelete(t *testing.T) {
	base, _ := Add(Defaults(testNow), "c1", "Groceries", model.IconShoppingCart, "#123456", testNow)
	base, _ = Add(base, "c2", "Pets", model.IconDog, "#abcdef", testNow)
	expenses := []model.Expense{
		{ID: "e1", CategoryID: "c2", Amount: model.NewMoney(10), Date: testNow},
	}

	tests := []struct {
		wantErr error
		name    string
		id      string
		wantLen int
	}{
		{name: "user category without expenses", id: "c1", wantLen: 9},
		{name: "default category is refused", id: "default-0", wantErr: common.ErrDefaultCategory, wantLen: 10},
		{name: "category in use is refused", id: "c2", wantErr: common.ErrCategoryInUse, wantLen: 10},
		{name: "unknown category", id: "nope", wantErr: common.ErrNotFound, wantLen: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Delete(base, expenses, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, base, got, "refused delete must leave categories unchanged")
			} else {
				require.NoError(t, err)
				_, found := Find(got, tt.id)
				assert.False(t, found)
			}
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestDefaultsAreNeverDeleted(t *testing.T) {
	categories := Defaults(testNow)
	for _, c := range Defaults(testNow) {
		var err error
		categories, err = Delete(categories, nil, c.ID)
		require.ErrorIs(t, err, common.ErrDefaultCategory)
	}
	assert.Len(t, categories, 8)
}
