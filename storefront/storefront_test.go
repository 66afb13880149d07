package storefront

import (
	"catalog/models"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	items []models.Product
	err   error
	calls int
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Product, len(f.items))
	copy(out, f.items)
	return out, nil
}

type fakeConfig map[string]string

func (f fakeConfig) GetAll(context.Context) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(f))
	for k, v := range f {
		out[k] = json.RawMessage(v)
	}
	return out, nil
}

func price(v int64) *int64 { return &v }

func phones() []models.Product {
	// newest first, as the store returns them
	return []models.Product{
		{ID: 5, Name: "Galaxy S24", Price: 7500000, Category: "Samsung", InStock: true},
		{ID: 4, Name: "iPhone 15", Price: 9800000, OldPrice: price(10500000), Category: "Apple", InStock: true},
		{ID: 3, Name: "Redmi Note 13", Price: 1900000, Category: "Xiaomi"},
		{ID: 2, Name: "Galaxy A15", Price: 1450000, Category: "Samsung", InStock: true},
		{ID: 1, Name: "Moto G84", Price: 2300000, Category: "Motorola", InStock: true},
	}
}

func ids(products []models.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "4.500.000", FormatAmount(4500000, "es-PY"))
	assert.Equal(t, "4.500.000 PYG", FormatPrice(4500000, "es-PY", "PYG"))
	assert.Equal(t, "4,500,000", FormatAmount(4500000, "en-US"))
	assert.Equal(t, "12.345", FormatAmount(12345, "not a locale"))
}

func TestWhatsApp(t *testing.T) {
	assert.True(t, ValidWhatsAppNumber("+595 981 123-456"))
	assert.True(t, ValidWhatsAppNumber("(595) 981123456"))
	assert.False(t, ValidWhatsAppNumber(""))
	assert.False(t, ValidWhatsAppNumber("12345"))
	assert.False(t, ValidWhatsAppNumber("+595 98a 123456"))

	assert.Equal(t, "https://wa.me/595981123456", WhatsAppURL("+595 981 123-456", ""))
	assert.Equal(t,
		"https://wa.me/595981123456?text=Hola%2C%20me%20interesa%20iPhone%2015",
		WhatsAppURL("+595981123456", "Hola, me interesa iPhone 15"))
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(map[string]json.RawMessage{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, "25.000", s.ColumnWidth())

	s, err = LoadSettings(map[string]json.RawMessage{
		"pagination": json.RawMessage(`{"itemsPerPage": 0}`),
		"layout":     json.RawMessage(`{"columnsPerRow": "3"}`),
		"display":    json.RawMessage(`{"showOldPrices": false, "showStockBadge": true}`),
		"site":       json.RawMessage(`{"name": "Tienda"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, s.Pagination.ItemsPerPage)
	assert.Equal(t, 3, s.Layout.ColumnsPerRow)
	assert.Equal(t, "33.333", s.ColumnWidth())
	assert.False(t, s.Display.ShowOldPrices)
	assert.True(t, s.Display.ShowStockBadge)
	assert.Equal(t, "Tienda", s.Site.Name)
	assert.Equal(t, "es-PY", s.Site.Locale)
}

func TestLoadSettingsReportsBrokenSection(t *testing.T) {
	s, err := LoadSettings(map[string]json.RawMessage{
		"search": json.RawMessage(`{not json`),
		"layout": json.RawMessage(`{"columnsPerRow": 2}`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"search"`)
	assert.Equal(t, 2, s.Search.MinCharacters)
	assert.Equal(t, 2, s.Layout.ColumnsPerRow)
}

func TestCatalogSort(t *testing.T) {
	src := &fakeProducts{items: []models.Product{
		{ID: 1, Name: "A", Price: 500000, Category: "X"},
		{ID: 2, Name: "B", Price: 250000, Category: "X"},
	}}
	c := NewCatalog(src, DefaultSettings())
	require.NoError(t, c.Load(context.Background()))

	c.Sort(SortPriceAsc)
	assert.Equal(t, []uint{2, 1}, ids(c.Products()))
	c.Sort(SortNewest)
	assert.Equal(t, []uint{2, 1}, ids(c.Products()))
	c.Sort(SortPriceDesc)
	assert.Equal(t, []uint{1, 2}, ids(c.Products()))

	assert.Equal(t, SortDefault, ParseSortMode("bogus"))
	assert.Equal(t, SortPriceAsc, ParseSortMode(" price-asc "))
}

func TestCatalogSortResetsPage(t *testing.T) {
	settings := DefaultSettings()
	settings.Pagination.ItemsPerPage = 2
	c := NewCatalog(&fakeProducts{items: phones()}, settings)
	require.NoError(t, c.Load(context.Background()))

	c.GoToPage(3)
	assert.Equal(t, 3, c.Page())
	c.Sort(SortPriceAsc)
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, []uint{2, 3}, ids(c.PageItems()))
}

func TestCatalogSearch(t *testing.T) {
	src := &fakeProducts{items: phones()}
	c := NewCatalog(src, DefaultSettings())
	ctx := context.Background()

	require.NoError(t, c.Search(ctx, "galaxy"))
	assert.Equal(t, []uint{5, 2}, ids(c.Products()))

	// category matches too
	require.NoError(t, c.Search(ctx, "APPLE"))
	assert.Equal(t, []uint{4}, ids(c.Products()))

	// below the minimum length the full list comes back
	require.NoError(t, c.Search(ctx, " g "))
	assert.Len(t, c.Products(), 5)
	assert.Equal(t, "", c.View().Query)

	require.NoError(t, c.Search(ctx, "nokia"))
	v := c.View()
	assert.Empty(t, v.Cards)
	assert.False(t, v.Pagination.Visible)
	assert.Equal(t, `No se encontraron productos con "nokia"`, v.Empty)

	assert.Equal(t, 4, src.calls)
}

func TestCatalogSearchKeepsSort(t *testing.T) {
	c := NewCatalog(&fakeProducts{items: phones()}, DefaultSettings())
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	c.Sort(SortPriceAsc)

	require.NoError(t, c.Search(ctx, "galaxy"))
	assert.Equal(t, []uint{2, 5}, ids(c.Products()))
}

func TestCatalogFilterCategory(t *testing.T) {
	c := NewCatalog(&fakeProducts{items: phones()}, DefaultSettings())
	ctx := context.Background()

	require.NoError(t, c.FilterCategory(ctx, "samsung"))
	assert.Equal(t, []uint{5, 2}, ids(c.Products()))
	assert.Equal(t, []string{"Apple", "Motorola", "Samsung", "Xiaomi"}, c.View().Categories)

	require.NoError(t, c.FilterCategory(ctx, "Nokia"))
	assert.Equal(t, MsgNoProducts, c.View().Empty)

	require.NoError(t, c.FilterCategory(ctx, ""))
	assert.Len(t, c.Products(), 5)
}

func TestCatalogLoadError(t *testing.T) {
	c := NewCatalog(&fakeProducts{err: errors.New("down")}, DefaultSettings())
	assert.Error(t, c.Load(context.Background()))
}

func TestCatalogPaging(t *testing.T) {
	settings := DefaultSettings()
	settings.Pagination.ItemsPerPage = 2
	c := NewCatalog(&fakeProducts{items: phones()}, settings)
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 3, c.TotalPages())
	c.GoToPage(3)
	assert.Equal(t, []uint{1}, ids(c.PageItems()))
	c.GoToPage(99)
	assert.Equal(t, 3, c.Page())
	c.GoToPage(-1)
	assert.Equal(t, 1, c.Page())
}

func TestProductCard(t *testing.T) {
	p := models.Product{ID: 4, Name: "iPhone 15", Price: 9800000, OldPrice: price(10500000), Category: "Apple", InStock: false}

	card := NewProductCard(p, DefaultSettings())
	assert.Equal(t, "/product/4", card.URL)
	assert.Equal(t, "9.800.000 PYG", card.Price)
	assert.Equal(t, "10.500.000 PYG", card.OldPrice)
	assert.Equal(t, "", card.StockLabel)
	assert.Equal(t, "📱", card.Placeholder)

	s := DefaultSettings()
	s.Display.ShowOldPrices = false
	s.Display.ShowStockBadge = true
	card = NewProductCard(p, s)
	assert.Equal(t, "", card.OldPrice)
	assert.Equal(t, "Agotado", card.StockLabel)
}

func TestBuildPagination(t *testing.T) {
	assert.False(t, BuildPagination(1, 1).Visible)
	assert.False(t, BuildPagination(1, 0).Visible)

	p := BuildPagination(5, 10)
	assert.True(t, p.Visible)
	assert.False(t, p.PrevDisabled)
	assert.False(t, p.NextDisabled)
	assert.Equal(t, []PageItem{
		{Number: 1},
		{Ellipsis: true},
		{Number: 4},
		{Number: 5, Active: true},
		{Number: 6},
		{Ellipsis: true},
		{Number: 10},
	}, p.Items)

	p = BuildPagination(1, 3)
	assert.True(t, p.PrevDisabled)
	assert.Equal(t, []PageItem{{Number: 1, Active: true}, {Number: 2}, {Number: 3}}, p.Items)

	p = BuildPagination(3, 3)
	assert.True(t, p.NextDisabled)
	assert.Equal(t, 2, p.Prev)
}

func TestRelated(t *testing.T) {
	all := phones()
	current := all[0] // Samsung

	got := Related(all, current, 3)
	assert.Equal(t, []uint{2, 4, 3}, ids(got))

	got = Related(all[:1], current, 3)
	assert.Empty(t, got)
}

func TestLoadNavigation(t *testing.T) {
	nav, err := LoadNavigation(map[string]json.RawMessage{})
	require.NoError(t, err)
	require.Len(t, nav.Items, 3)
	assert.Equal(t, "Inicio", nav.Items[0].Label)

	nav, err = LoadNavigation(map[string]json.RawMessage{
		"navigation": json.RawMessage(`{"items":[
			{"label":"Inicio","url":"/","active":true},
			{"spacer":true},
			{"label":"Marcas","url":"#","dropdown":[{"label":"Apple","url":"/?category=Apple"}]},
			{"label":"Vacío","url":"#","dropdown":[]}
		]}`),
	})
	require.NoError(t, err)
	require.Len(t, nav.Items, 4)
	assert.True(t, nav.Items[1].Spacer)
	assert.True(t, nav.Items[2].HasDropdown)
	assert.Equal(t, "Apple", nav.Items[2].Dropdown[0].Label)
	assert.True(t, nav.Items[3].HasDropdown)
	assert.False(t, nav.Items[0].HasDropdown)

	nav, err = LoadNavigation(map[string]json.RawMessage{"navigation": json.RawMessage(`{"items":[]}`)})
	require.NoError(t, err)
	assert.Len(t, nav.Items, 3)
}

func TestTheme(t *testing.T) {
	theme, err := LoadTheme(map[string]json.RawMessage{
		"theme": json.RawMessage(`{"current":"dark-blue","headerBackground":"#000"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "assets/css/themes/dark-blue.css", theme.Stylesheet())
	assert.Equal(t, "#000", theme.HeaderBackground)

	assert.Equal(t, "", Theme{Current: "../etc/passwd"}.Stylesheet())
	assert.Equal(t, "", Theme{}.Stylesheet())
}

func TestLoadSocials(t *testing.T) {
	cfg := map[string]json.RawMessage{
		"socials_data": json.RawMessage(`[
			{"name":"Instagram","url":"https://instagram.com/x","icon":"instagram","enabled":true},
			{"name":"TikTok","url":"https://tiktok.com/@x","icon":"tiktok","enabled":false}
		]`),
	}

	socials, err := LoadSocials(cfg, DefaultSettings())
	require.NoError(t, err)
	require.Len(t, socials, 1)
	assert.Equal(t, "Instagram", socials[0].Name)

	hidden := DefaultSettings()
	hidden.Socials.ShowInFooter = false
	socials, err = LoadSocials(cfg, hidden)
	require.NoError(t, err)
	assert.Nil(t, socials)
}

func TestLoadAboutAndServices(t *testing.T) {
	about, err := LoadAbout(map[string]json.RawMessage{})
	require.NoError(t, err)
	assert.Equal(t, "Sobre Nosotros", about.Title)

	about, err = LoadAbout(map[string]json.RawMessage{
		"aboutUs": json.RawMessage(`{"title":"Quiénes somos","stats":[{"number":"10+","label":"Años"}],"location":{"address":"Asunción"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Quiénes somos", about.Title)
	assert.Equal(t, "10+", about.Stats[0].Number)
	assert.Equal(t, "Asunción", about.Location.Address)

	services, err := LoadServices(map[string]json.RawMessage{
		"services": json.RawMessage(`{"subtitle":"Reparaciones","sections":[{"icon":"🔧","title":"Pantallas","content":"Cambio en el día"}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Servicios", services.Title)
	assert.Equal(t, "Pantallas", services.Sections[0].Title)
}

func newTestSite(t *testing.T, products *fakeProducts, cfg fakeConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	site, err := NewSite(products, cfg, "+595 981 123456")
	require.NoError(t, err)
	r := gin.New()
	site.Register(r)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestCatalogPage(t *testing.T) {
	r := newTestSite(t, &fakeProducts{items: phones()}, fakeConfig{
		"site":       `{"name":"Central Celulares"}`,
		"pagination": `{"itemsPerPage":2}`,
		"theme":      `{"current":"dark"}`,
	})

	w := get(r, "/?sort=price-asc")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>Central Celulares</title>")
	assert.Contains(t, body, "/assets/css/themes/dark.css")
	assert.Contains(t, body, "Galaxy A15")
	assert.Contains(t, body, "1.450.000 PYG")
	assert.NotContains(t, body, "iPhone 15")
	assert.Contains(t, body, `class="pagination"`)

	w = get(r, "/?q=iphone")
	body = w.Body.String()
	assert.Contains(t, body, "iPhone 15")
	assert.Contains(t, body, "10.500.000 PYG")
	assert.NotContains(t, body, `class="pagination"`)

	w = get(r, "/?q=nokia")
	assert.Contains(t, w.Body.String(), "No se encontraron productos con")
}

func TestCatalogPageLoadError(t *testing.T) {
	r := newTestSite(t, &fakeProducts{err: errors.New("db down")}, fakeConfig{})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error al cargar los productos")
}

func TestProductPage(t *testing.T) {
	r := newTestSite(t, &fakeProducts{items: phones()}, fakeConfig{
		"display": `{"showOldPrices":false}`,
	})

	w := get(r, "/product/4")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>iPhone 15 - Central Celulares</title>")
	// the old price shows on the detail page regardless of the catalog setting
	assert.Contains(t, body, "10.500.000 PYG")
	assert.Contains(t, body, "En Stock")
	assert.Contains(t, body, "https://wa.me/595981123456?text=Hola%2C%20me%20interesa%20iPhone%2015")
	assert.Contains(t, body, "No hay especificaciones disponibles.")
	assert.Contains(t, body, "Productos relacionados")
}

func TestProductPageRedirects(t *testing.T) {
	r := newTestSite(t, &fakeProducts{items: phones()}, fakeConfig{})

	for _, target := range []string{"/product/abc", "/product/999"} {
		w := get(r, target)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/", w.Header().Get("Location"), target)
	}
}

func TestInfoPages(t *testing.T) {
	r := newTestSite(t, &fakeProducts{}, fakeConfig{
		"services":     `{"sections":[{"icon":"🔧","title":"Pantallas","content":"Cambio en el día"}]}`,
		"aboutUs":      `{"title":"Quiénes somos","history":{"title":"Historia","content":"Desde 2010"}}`,
		"socials_data": `[{"name":"Instagram","url":"https://instagram.com/cc","icon":"instagram","enabled":true}]`,
		"navigation":   `{"items":[{"label":"Inicio","url":"/"},{"label":"Marcas","url":"#","dropdown":[{"label":"Apple","url":"/?category=Apple"}]}]}`,
	})

	w := get(r, "/services")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Pantallas")
	assert.Contains(t, body, "https://instagram.com/cc")
	assert.Contains(t, body, "dropdown-menu")

	w = get(r, "/about")
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.True(t, strings.Contains(body, "Quiénes somos"))
	assert.Contains(t, body, "Desde 2010")
}
