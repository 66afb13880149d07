package storefront

import (
	"catalog/models"
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ProductSource returns the full product list, newest first.
type ProductSource interface {
	List(ctx context.Context) ([]models.Product, error)
}

type SortMode string

const (
	SortDefault   SortMode = "default"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortNewest    SortMode = "newest"
)

// ParseSortMode maps unknown values to SortDefault.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(strings.TrimSpace(s)); mode {
	case SortPriceAsc, SortPriceDesc, SortNewest:
		return mode
	}
	return SortDefault
}

const (
	MsgNoProducts    = "No hay productos en esta categoría."
	MsgLoadError     = "Error al cargar los productos. Por favor, recarga la página."
	noResultsMessage = `No se encontraron productos con "%s"`
)

// Catalog owns the listing state of one catalog page: the last fetched products
// after filtering and sorting, and the current page.
type Catalog struct {
	source   ProductSource
	settings Settings

	products   []models.Product
	categories []string
	page       int
	sort       SortMode
	query      string
	category   string
}

func NewCatalog(source ProductSource, settings Settings) *Catalog {
	return &Catalog{source: source, settings: settings, page: 1, sort: SortDefault}
}

// Load fetches the product list with no search or category filter.
func (c *Catalog) Load(ctx context.Context) error {
	c.query = ""
	c.category = ""
	return c.refresh(ctx)
}

// Search re-fetches and keeps products whose name or category contains term.
// A term shorter than the configured minimum restores the full list.
func (c *Catalog) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < c.settings.Search.MinCharacters {
		term = ""
	}
	c.query = term
	return c.refresh(ctx)
}

// FilterCategory re-fetches and keeps one category; "" clears the filter.
func (c *Catalog) FilterCategory(ctx context.Context, category string) error {
	c.category = strings.TrimSpace(category)
	return c.refresh(ctx)
}

// Sort reorders the current list in place and returns to page 1.
func (c *Catalog) Sort(mode SortMode) {
	c.sort = mode
	sortProducts(c.products, mode)
	c.page = 1
}

// GoToPage moves to page, clamped to the available range.
func (c *Catalog) GoToPage(page int) {
	total := c.TotalPages()
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	c.page = page
}

func (c *Catalog) Page() int { return c.page }

func (c *Catalog) Products() []models.Product { return c.products }

func (c *Catalog) TotalPages() int {
	size := c.settings.Pagination.ItemsPerPage
	return (len(c.products) + size - 1) / size
}

// PageItems returns the slice [(page-1)*size, page*size) of the current list.
func (c *Catalog) PageItems() []models.Product {
	size := c.settings.Pagination.ItemsPerPage
	start := (c.page - 1) * size
	if start >= len(c.products) {
		return nil
	}
	end := start + size
	if end > len(c.products) {
		end = len(c.products)
	}
	return c.products[start:end]
}

func (c *Catalog) refresh(ctx context.Context) error {
	all, err := c.source.List(ctx)
	if err != nil {
		return err
	}

	c.categories = distinctCategories(all)

	needle := strings.ToLower(c.query)
	filtered := make([]models.Product, 0, len(all))
	for _, p := range all {
		if c.category != "" && !strings.EqualFold(p.Category, c.category) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, c.sort)
	c.products = filtered
	c.page = 1
	return nil
}

func sortProducts(products []models.Product, mode SortMode) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	}
}

func distinctCategories(products []models.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// CatalogView is what the catalog template renders.
type CatalogView struct {
	Cards       []ProductCard
	Pagination  Pagination
	Empty       string
	Total       int
	Query       string
	Category    string
	Sort        SortMode
	Categories  []string
	ColumnWidth string
}

func (c *Catalog) View() CatalogView {
	v := CatalogView{
		Pagination:  BuildPagination(c.page, c.TotalPages()),
		Total:       len(c.products),
		Query:       c.query,
		Category:    c.category,
		Sort:        c.sort,
		Categories:  c.categories,
		ColumnWidth: c.settings.ColumnWidth(),
	}
	for _, p := range c.PageItems() {
		v.Cards = append(v.Cards, NewProductCard(p, c.settings))
	}

	if len(c.products) == 0 {
		v.Pagination.Visible = false
		if c.query != "" {
			v.Empty = fmt.Sprintf(noResultsMessage, c.query)
		} else {
			v.Empty = MsgNoProducts
		}
	}
	return v
}

// ProductCard is a product formatted for display.
type ProductCard struct {
	ID          uint
	URL         string
	Name        string
	Category    string
	Price       string
	OldPrice    string
	Image       string
	Placeholder string
	InStock     bool
	StockLabel  string
	Badges      []string
}

func NewProductCard(p models.Product, s Settings) ProductCard {
	card := ProductCard{
		ID:          p.ID,
		URL:         fmt.Sprintf("/product/%d", p.ID),
		Name:        p.Name,
		Category:    p.Category,
		Price:       FormatPrice(p.Price, s.Site.Locale, s.Site.Currency),
		Image:       p.ImageURL(),
		Placeholder: s.Display.ProductImagePlaceholder,
		InStock:     p.InStock,
		Badges:      p.Badges,
	}
	if p.OldPrice != nil && *p.OldPrice > 0 && s.Display.ShowOldPrices {
		card.OldPrice = FormatPrice(*p.OldPrice, s.Site.Locale, s.Site.Currency)
	}
	if s.Display.ShowStockBadge {
		card.StockLabel = StockLabel(p.InStock)
	}
	return card
}

// StockLabel is the storefront wording for the stock flag.
func StockLabel(inStock bool) string {
	if inStock {
		return "En Stock"
	}
	return "Agotado"
}

// PageItem is one entry of the pagination control: a page button or an ellipsis.
type PageItem struct {
	Number   int
	Active   bool
	Ellipsis bool
}

type Pagination struct {
	Visible      bool
	Page         int
	TotalPages   int
	PrevDisabled bool
	NextDisabled bool
	Prev         int
	Next         int
	Items        []PageItem
}

// BuildPagination shows the first and last pages, the pages next to the current one,
// and an ellipsis two pages away. It is hidden when there is at most one page.
func BuildPagination(page, totalPages int) Pagination {
	p := Pagination{Page: page, TotalPages: totalPages}
	if totalPages <= 1 {
		return p
	}

	p.Visible = true
	p.PrevDisabled = page <= 1
	p.NextDisabled = page >= totalPages
	p.Prev = page - 1
	p.Next = page + 1

	for i := 1; i <= totalPages; i++ {
		switch {
		case i == 1 || i == totalPages || (i >= page-1 && i <= page+1):
			p.Items = append(p.Items, PageItem{Number: i, Active: i == page})
		case i == page-2 || i == page+2:
			p.Items = append(p.Items, PageItem{Ellipsis: true})
		}
	}
	return p
}

// Related picks up to n other products, same category first, then the rest in list order.
func Related(products []models.Product, current models.Product, n int) []models.Product {
	out := make([]models.Product, 0, n)
	for _, p := range products {
		if len(out) == n {
			return out
		}
		if p.ID != current.ID && p.Category == current.Category {
			out = append(out, p)
		}
	}
	for _, p := range products {
		if len(out) == n {
			break
		}
		if p.ID != current.ID && p.Category != current.Category {
			out = append(out, p)
		}
	}
	return out
}
