package service

import (
	"bytes"
	"catalog/core"
	"catalog/database"
	"catalog/models"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Normalize(data []byte) ([]byte, string, string, error) {
	args := m.Called(data)
	out, _ := args.Get(0).([]byte)
	return out, args.String(1), args.String(2), args.Error(3)
}

type fixture struct {
	db     *gorm.DB
	svcs   *Services
	store  *core.MemoryStore
	images *mockImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)

	store := core.NewMemoryStore("http://cdn.test/product-images")
	images := &mockImages{}
	images.On("Normalize", mock.Anything).Return([]byte("jpeg-bytes"), ".jpg", "image/jpeg", nil).Maybe()

	svcs, err := NewServices(db, store, images)
	require.NoError(t, err)
	return &fixture{db: db, svcs: svcs, store: store, images: images}
}

func (f *fixture) auditEntries(t *testing.T) []models.AuditLog {
	t.Helper()
	var entries []models.AuditLog
	require.NoError(t, f.db.Order("id").Find(&entries).Error)
	return entries
}

func pngUpload(t *testing.T) *ImageUpload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return &ImageUpload{Filename: "phone.png", Data: buf.Bytes()}
}

func strp(s string) *string { return &s }
func i64p(v int64) *int64  { return &v }
func boolp(v bool) *bool    { return &v }

func validInput() models.ProductInput {
	return models.ProductInput{
		Name:     strp("iPhone 13"),
		Price:    i64p(4500000),
		Category: strp("Apple"),
	}
}

func TestProductCreate_RequiresFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svcs.Products.Create(context.Background(), 1, models.ProductInput{Name: strp("X")}, nil)
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "Missing required fields: name, price, category", err.Error())
	assert.Empty(t, f.auditEntries(t))
}

func TestProductCreate_DefaultsAndAudit(t *testing.T) {
	f := newFixture(t)

	p, err := f.svcs.Products.Create(context.Background(), 3, validInput(), nil)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "iPhone 13", p.Name)
	assert.Equal(t, int64(4500000), p.Price)
	assert.False(t, p.InStock, "in_stock is only set when supplied")
	assert.Nil(t, p.OldPrice)
	assert.Equal(t, []string{}, p.Badges)
	assert.Equal(t, []string{}, p.Specifications)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionCreate, entries[0].Action)
	assert.Equal(t, models.EntityProduct, entries[0].EntityType)
	assert.Equal(t, uint(3), entries[0].AdminID)
	assert.Contains(t, string(entries[0].Changes), `"created"`)
}

func TestProductCreate_StoresNormalizedImage(t *testing.T) {
	f := newFixture(t)

	p, err := f.svcs.Products.Create(context.Background(), 1, validInput(), pngUpload(t))
	require.NoError(t, err)
	require.NotNil(t, p.Image)

	name := core.ObjectNameFromURL(*p.Image)
	assert.Regexp(t, `^product-\d+\.jpg$`, name)
	assert.True(t, f.store.Has(name))
	f.images.AssertNumberOfCalls(t, "Normalize", 1)
}

func TestProductCreate_RejectsNonImage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svcs.Products.Create(context.Background(), 1, validInput(),
		&ImageUpload{Filename: "notes.txt", Data: []byte("hello")})
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.auditEntries(t))
}

func TestProductUpdate_MergesOmittedFields(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.OldPriceSet = true
	in.OldPrice = i64p(5000000)
	in.Badges = &[]string{"Nuevo"}
	created, err := f.svcs.Products.Create(context.Background(), 1, in, nil)
	require.NoError(t, err)

	updated, err := f.svcs.Products.Update(context.Background(), 1, created.ID,
		models.ProductInput{Price: i64p(4750000)}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4750000), updated.Price)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Category, updated.Category)
	require.NotNil(t, updated.OldPrice)
	assert.Equal(t, int64(5000000), *updated.OldPrice)
	assert.Equal(t, []string{"Nuevo"}, updated.Badges)

	stored, err := f.svcs.Products.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4750000), stored.Price)

	entries := f.auditEntries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionUpdate, entries[1].Action)

	var changes struct {
		Before models.Product `json:"before"`
		After  models.Product `json:"after"`
	}
	require.NoError(t, json.Unmarshal(entries[1].Changes, &changes))
	assert.Equal(t, int64(4500000), changes.Before.Price)
	assert.Equal(t, int64(4750000), changes.After.Price)
}

func TestProductUpdate_ClearsOldPriceWhenSetToNil(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.OldPriceSet = true
	in.OldPrice = i64p(5000000)
	in.InStock = boolp(true)
	created, err := f.svcs.Products.Create(context.Background(), 1, in, nil)
	require.NoError(t, err)
	require.True(t, created.InStock)

	updated, err := f.svcs.Products.Update(context.Background(), 1, created.ID,
		models.ProductInput{OldPriceSet: true, InStock: boolp(false)}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.OldPrice)
	assert.False(t, updated.InStock)
}

func TestProductUpdate_ReplacesImageAndRemovesOld(t *testing.T) {
	f := newFixture(t)
	created, err := f.svcs.Products.Create(context.Background(), 1, validInput(), pngUpload(t))
	require.NoError(t, err)
	oldName := core.ObjectNameFromURL(*created.Image)

	updated, err := f.svcs.Products.Update(context.Background(), 1, created.ID, models.ProductInput{}, pngUpload(t))
	require.NoError(t, err)

	newName := core.ObjectNameFromURL(*updated.Image)
	assert.NotEqual(t, oldName, newName)
	assert.False(t, f.store.Has(oldName))
	assert.True(t, f.store.Has(newName))
}

func TestProductUpdate_ImageCleanupFailureDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	created, err := f.svcs.Products.Create(context.Background(), 1, validInput(), pngUpload(t))
	require.NoError(t, err)

	f.store.FailRemove = true
	_, err = f.svcs.Products.Update(context.Background(), 1, created.ID, models.ProductInput{}, pngUpload(t))
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.Len())
}

func TestProductUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svcs.Products.Update(context.Background(), 1, 99, validInput(), nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Product not found", err.Error())
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t)
	created, err := f.svcs.Products.Create(context.Background(), 1, validInput(), pngUpload(t))
	require.NoError(t, err)

	f.store.FailRemove = true
	deleted, err := f.svcs.Products.Delete(context.Background(), 2, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.svcs.Products.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entries := f.auditEntries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionDelete, entries[1].Action)
	assert.Contains(t, string(entries[1].Changes), `"deleted"`)
}

func TestProductDelete_MissingWritesNoAudit(t *testing.T) {
	f := newFixture(t)
	_, err := f.svcs.Products.Delete(context.Background(), 1, 404)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.auditEntries(t))
}

func TestProductList_NewestFirst(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"A", "B", "C"} {
		in := validInput()
		in.Name = strp(name)
		_, err := f.svcs.Products.Create(context.Background(), 1, in, nil)
		require.NoError(t, err)
	}

	products, err := f.svcs.Products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "C", products[0].Name)
	assert.Equal(t, "A", products[2].Name)
}

func TestProductList_UpstreamFailure(t *testing.T) {
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	sqlMock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(errors.New("connection refused"))

	svcs, err := NewServices(db, core.NewMemoryStore(""), &mockImages{})
	require.NoError(t, err)

	_, err = svcs.Products.List(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, "Failed to fetch products", err.Error())
	assert.EqualError(t, Cause(err), "connection refused")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestConfigPut_CreateThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row, action, err := f.svcs.Config.Put(ctx, 1, "theme", json.RawMessage(`{"current":"dark"}`))
	require.NoError(t, err)
	assert.Equal(t, models.ActionCreate, action)
	assert.Equal(t, "theme", row.Key)

	value, err := f.svcs.Config.Get(ctx, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"current":"dark"}`, string(value))

	_, action, err = f.svcs.Config.Put(ctx, 1, "theme", json.RawMessage(`{"current":"light"}`))
	require.NoError(t, err)
	assert.Equal(t, models.ActionUpdate, action)

	entries := f.auditEntries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionCreate, entries[0].Action)
	assert.JSONEq(t, `{"before":null,"after":{"current":"dark"}}`, string(entries[0].Changes))
	assert.JSONEq(t, `{"before":{"current":"dark"},"after":{"current":"light"}}`, string(entries[1].Changes))
}

func TestConfigPut_RequiresValue(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svcs.Config.Put(context.Background(), 1, "theme", nil)
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "Value is required", err.Error())

	_, _, err = f.svcs.Config.Put(context.Background(), 1, "theme", json.RawMessage("null"))
	assert.NoError(t, err)
}

func TestConfigGetAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.svcs.Config.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.svcs.Config.Bulk(ctx, 1, map[string]json.RawMessage{
		"site":       json.RawMessage(`{"name":"Central Celulares"}`),
		"pagination": json.RawMessage(`{"itemsPerPage":8}`),
	})
	require.NoError(t, err)

	all, err = f.svcs.Config.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.JSONEq(t, `{"itemsPerPage":8}`, string(all["pagination"]))
}

func TestConfigBulk_SingleAuditEntry(t *testing.T) {
	f := newFixture(t)

	rows, err := f.svcs.Config.Bulk(context.Background(), 5, map[string]json.RawMessage{
		"a": json.RawMessage(`1`),
		"b": json.RawMessage(`"two"`),
		"c": json.RawMessage(`[3]`),
	})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	entries := f.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionBulkUpdate, entries[0].Action)
	assert.Equal(t, "multiple", entries[0].EntityID)

	_, err = f.svcs.Config.Bulk(context.Background(), 5, nil)
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "Updates object is required", err.Error())
}

func TestConfigDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svcs.Config.Delete(ctx, 1, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Config key not found", err.Error())
	assert.Empty(t, f.auditEntries(t))

	_, _, err = f.svcs.Config.Put(ctx, 1, "socials", json.RawMessage(`{"showInFooter":true}`))
	require.NoError(t, err)
	require.NoError(t, f.svcs.Config.Delete(ctx, 1, "socials"))

	_, err = f.svcs.Config.Get(ctx, "socials")
	assert.ErrorIs(t, err, ErrNotFound)

	entries := f.auditEntries(t)
	require.Len(t, entries, 2)
	assert.JSONEq(t, `{"deleted":{"showInFooter":true}}`, string(entries[1].Changes))
}

func TestAdminAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svcs.Admins.Upsert(ctx, "Owner@Example.com", true)
	require.NoError(t, err)
	_, err = f.svcs.Admins.Upsert(ctx, "former@example.com", false)
	require.NoError(t, err)

	admin, err := f.svcs.Admins.Authorize(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", admin.Email)

	_, err = f.svcs.Admins.Authorize(ctx, "former@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svcs.Admins.Authorize(ctx, "stranger@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svcs.Admins.Upsert(ctx, "not-an-email", true)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestAuditListPage_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svcs.Products.Create(ctx, 1, validInput(), nil)
	require.NoError(t, err)
	_, _, err = f.svcs.Config.Put(ctx, 1, "theme", json.RawMessage(`{}`))
	require.NoError(t, err)

	entries, total, err := f.svcs.Audit.ListPage(ctx, AuditFilter{EntityType: models.EntityConfig}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "theme", entries[0].EntityID)

	_, total, err = f.svcs.Audit.ListPage(ctx, AuditFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestConfigPut_AnyJSONTypeRoundTrips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	values := map[string]string{
		"items_per_page": `8`,
		"ratio":          `2.5`,
		"site_name":      `"Central Celulares"`,
		"maintenance":    `false`,
		"banner":         `null`,
		"brands":         `["Apple","Samsung"]`,
	}
	for key, raw := range values {
		row, _, err := f.svcs.Config.Put(ctx, 1, key, json.RawMessage(raw))
		require.NoError(t, err, key)
		assert.JSONEq(t, raw, string(row.Value), key)

		got, err := f.svcs.Config.Get(ctx, key)
		require.NoError(t, err, key)
		assert.JSONEq(t, raw, string(got), key)
	}

	all, err := f.svcs.Config.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(values))
	for key, raw := range values {
		assert.JSONEq(t, raw, string(all[key]), key)
	}
}

func TestConfigBulk_NumbersReadBackAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svcs.Config.Bulk(ctx, 1, map[string]json.RawMessage{
		"n":      json.RawMessage(`2.5`),
		"count":  json.RawMessage(`12`),
		"layout": json.RawMessage(`{"columnsPerRow":3}`),
	})
	require.NoError(t, err)

	all, err := f.svcs.Config.GetAll(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `2.5`, string(all["n"]))
	assert.JSONEq(t, `12`, string(all["count"]))
	assert.JSONEq(t, `{"columnsPerRow":3}`, string(all["layout"]))

	require.NoError(t, f.svcs.Config.Delete(ctx, 1, "n"))
	_, err = f.svcs.Config.Get(ctx, "n")
	assert.ErrorIs(t, err, ErrNotFound)
}
