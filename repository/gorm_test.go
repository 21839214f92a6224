package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cafehere/database"
	"cafehere/model"
	"cafehere/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gormFixture struct {
	db    *gorm.DB
	store *repository.Store
	user  *model.User
	cafe  *model.Cafe
}

// newGormFixture migrates a fresh SQLite file with foreign keys enforced and
// seeds one owner with one cafe.
func newGormFixture(t *testing.T) *gormFixture {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "cafehere.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.Migrate(db))

	f := &gormFixture{db: db, store: repository.NewGormStore(db)}
	f.user = f.newUser(t, "+82-1012345678")
	f.cafe = f.newCafe(t, f.user, "Main")
	return f
}

func (f *gormFixture) newUser(t *testing.T, mobile string) *model.User {
	t.Helper()
	u := &model.User{Mobile: mobile, PasswordHash: "x", IsActive: true}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

func (f *gormFixture) newCafe(t *testing.T, owner *model.User, name string) *model.Cafe {
	t.Helper()
	c := &model.Cafe{Name: name, OwnerID: owner.ID}
	require.NoError(t, f.store.Cafes.Create(context.Background(), c))
	return c
}

func (f *gormFixture) newCategory(t *testing.T, cafe *model.Cafe, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, CafeID: cafe.ID}
	require.NoError(t, f.store.Categories.Create(context.Background(), c))
	return c
}

func (f *gormFixture) newGroup(t *testing.T, cafe *model.Cafe, name string, options ...string) *model.OptionGroup {
	t.Helper()
	g := &model.OptionGroup{Name: name, CafeID: cafe.ID}
	for i, o := range options {
		g.Options = append(g.Options, model.Option{Name: o, AddPrice: i * 500})
	}
	require.NoError(t, f.store.OptionGroups.Create(context.Background(), g))
	return g
}

func productIn(category *model.Category, name string, groups ...model.OptionGroup) *model.Product {
	return &model.Product{
		Name:           name,
		Cost:           1000,
		Price:          4500,
		ExpirationDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		CategoryID:     category.ID,
		OptionGroups:   groups,
	}
}

func (f *gormFixture) newProduct(t *testing.T, category *model.Category, name string, groups ...model.OptionGroup) *model.Product {
	t.Helper()
	p := productIn(category, name, groups...)
	require.NoError(t, f.store.Products.Create(context.Background(), p))
	return p
}

func (f *gormFixture) count(t *testing.T, table, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Where(where, args...).Count(&n).Error)
	return n
}

func TestGormDeletesCascade(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)

	category := f.newCategory(t, f.cafe, "Coffee")
	size := f.newGroup(t, f.cafe, "Size", "small", "large")
	product := f.newProduct(t, category, "Latte", *size)

	require.NoError(t, f.store.OptionGroups.Delete(ctx, size))
	assert.Zero(t, f.count(t, "options", "option_group_id = ?", size.ID))
	assert.Zero(t, f.count(t, "product_option_groups", "product_id = ?", product.ID))

	require.NoError(t, f.store.Categories.Delete(ctx, category))
	assert.Zero(t, f.count(t, "products", "category_id = ?", category.ID))

	category = f.newCategory(t, f.cafe, "Tea")
	size = f.newGroup(t, f.cafe, "Size", "small")
	f.newProduct(t, category, "Green Tea", *size)

	require.NoError(t, f.store.Cafes.Delete(ctx, f.cafe))
	for _, table := range []string{"categories", "option_groups"} {
		assert.Zero(t, f.count(t, table, "cafe_id = ?", f.cafe.ID), table)
	}
	assert.Zero(t, f.count(t, "products", "1 = 1"))
	assert.Zero(t, f.count(t, "options", "1 = 1"))
	assert.Zero(t, f.count(t, "product_option_groups", "1 = 1"))

	_, err := f.store.Cafes.FindByUUID(ctx, f.cafe.UUID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormUniqueViolationsAreDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)

	err := f.store.Users.Create(ctx, &model.User{Mobile: f.user.Mobile, PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = f.store.Cafes.Create(ctx, &model.Cafe{Name: "Main", OwnerID: f.user.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	other := f.newUser(t, "+82-1087654321")
	f.newCafe(t, other, "Main")

	category := f.newCategory(t, f.cafe, "Coffee")
	err = f.store.Categories.Create(ctx, &model.Category{Name: "Coffee", CafeID: f.cafe.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	f.newGroup(t, f.cafe, "Size")
	err = f.store.OptionGroups.Create(ctx, &model.OptionGroup{Name: "Size", CafeID: f.cafe.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	f.newProduct(t, category, "Latte")
	err = f.store.Products.Create(ctx, productIn(category, "Latte"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	exists, err := f.store.Categories.ExistsByName(ctx, f.cafe.ID, "Coffee", category.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = f.store.Categories.ExistsByName(ctx, f.cafe.ID, "Coffee", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormOptionGroupUpdateReconciles(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)
	g := f.newGroup(t, f.cafe, "Size", "small", "medium", "large")

	loaded, err := f.store.OptionGroups.FindInCafe(ctx, f.cafe.ID, g.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Options, 3)
	medium, large := loaded.Options[1], loaded.Options[2]

	// a deleted name can be reused in the same update
	loaded.Name = "Cup"
	medium.AddPrice = 700
	err = f.store.OptionGroups.Update(ctx, loaded, repository.OptionChanges{
		Create: []model.Option{{Name: "large", AddPrice: 1200}},
		Update: []model.Option{medium},
		Delete: []model.Option{large},
	})
	require.NoError(t, err)

	got, err := f.store.OptionGroups.FindInCafe(ctx, f.cafe.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", got.Name)
	prices := map[string]int{}
	for _, o := range got.Options {
		prices[o.Name] = o.AddPrice
	}
	assert.Equal(t, map[string]int{"small": 0, "medium": 700, "large": 1200}, prices)

	// a failing change rolls the whole update back
	got.Name = "Volume"
	err = f.store.OptionGroups.Update(ctx, got, repository.OptionChanges{
		Create: []model.Option{{Name: "small", AddPrice: 100}},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	after, err := f.store.OptionGroups.FindInCafe(ctx, f.cafe.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", after.Name)
	assert.Len(t, after.Options, 3)
}

func TestGormLookupsStayInTheirCafe(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)
	other := f.newCafe(t, f.newUser(t, "+82-1087654321"), "Other")

	category := f.newCategory(t, f.cafe, "Coffee")
	group := f.newGroup(t, f.cafe, "Size", "small")
	product := f.newProduct(t, category, "Latte", *group)

	_, err := f.store.Categories.FindInCafe(ctx, other.ID, category.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.OptionGroups.FindInCafe(ctx, other.ID, group.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Products.FindInCafe(ctx, other.ID, product.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	groups, err := f.store.OptionGroups.FindManyInCafe(ctx, other.ID, []uint{group.ID})
	require.NoError(t, err)
	assert.Empty(t, groups)

	got, err := f.store.Products.FindInCafe(ctx, f.cafe.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", got.CategoryName())
	require.Len(t, got.OptionGroups, 1)
	assert.Equal(t, group.ID, got.OptionGroups[0].ID)

	categories, err := f.store.Categories.ListByCafe(ctx, f.cafe.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].Products, 1)
	assert.Equal(t, "Latte", categories[0].Products[0].Name)

	cafes, err := f.store.Cafes.ListByOwner(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, cafes, 1)
	assert.Equal(t, f.cafe.UUID, cafes[0].UUID)
}

func TestGormProductListing(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)
	coffee := f.newCategory(t, f.cafe, "Coffee")
	dessert := f.newCategory(t, f.cafe, "Dessert")
	f.newProduct(t, coffee, "아메리카노")
	f.newProduct(t, coffee, "Latte")
	f.newProduct(t, dessert, "100% Cocoa")

	elsewhere := f.newCategory(t, f.newCafe(t, f.user, "Annex"), "Coffee")
	f.newProduct(t, elsewhere, "아메리카노")

	names := func(filter repository.ProductFilter) []string {
		t.Helper()
		products, err := f.store.Products.ListByCafe(ctx, f.cafe.ID, filter)
		require.NoError(t, err)
		out := []string{}
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"100% Cocoa", "Latte", "아메리카노"}, names(repository.ProductFilter{}))
	assert.Equal(t, []string{"아메리카노"}, names(repository.ProductFilter{Search: "ㅇㅁㄹ"}))
	assert.Equal(t, []string{"아메리카노"}, names(repository.ProductFilter{Search: "메리"}))
	assert.Equal(t, []string{"Latte"}, names(repository.ProductFilter{Search: "LAT"}))
	assert.Equal(t, []string{"100% Cocoa"}, names(repository.ProductFilter{Search: "0%"}))
	assert.Empty(t, names(repository.ProductFilter{Search: "_"}))
	assert.Equal(t, []string{"100% Cocoa"}, names(repository.ProductFilter{Category: "Dessert"}))
	assert.Empty(t, names(repository.ProductFilter{Category: "Dessert", Search: "latte"}))
}

func TestGormProductUpdateReplacesOptionGroups(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)
	category := f.newCategory(t, f.cafe, "Coffee")
	size := f.newGroup(t, f.cafe, "Size", "small")
	shot := f.newGroup(t, f.cafe, "Shot", "single")
	product := f.newProduct(t, category, "Latte", *size, *shot)

	p, err := f.store.Products.FindInCafe(ctx, f.cafe.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, p.OptionGroups, 2)

	p.Name = "카페라떼"
	p.OptionGroups = []model.OptionGroup{*shot}
	require.NoError(t, f.store.Products.Update(ctx, p))

	got, err := f.store.Products.FindInCafe(ctx, f.cafe.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "ㅋㅍㄹㄸ", got.InitialConsonant)
	require.Len(t, got.OptionGroups, 1)
	assert.Equal(t, shot.ID, got.OptionGroups[0].ID)

	got.OptionGroups = nil
	require.NoError(t, f.store.Products.Update(ctx, got))
	assert.Zero(t, f.count(t, "product_option_groups", "product_id = ?", product.ID))

	// unlinking leaves the groups themselves alone
	groups, err := f.store.OptionGroups.ListByCafe(ctx, f.cafe.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestGormCreateBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newGormFixture(t)
	category := f.newCategory(t, f.cafe, "Coffee")

	err := f.store.Products.CreateBatch(ctx, []*model.Product{
		productIn(category, "Latte"),
		productIn(category, "Mocha"),
		productIn(category, "Latte"),
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Zero(t, f.count(t, "products", "category_id = ?", category.ID))

	require.NoError(t, f.store.Products.CreateBatch(ctx, []*model.Product{
		productIn(category, "Latte"),
		productIn(category, "Mocha"),
	}))
	assert.Equal(t, int64(2), f.count(t, "products", "category_id = ?", category.ID))
}
