package storefront

import (
	"bytes"
	"catalog/models"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const relatedCount = 3

// Site serves the public storefront pages.
type Site struct {
	products ProductSource
	config   ConfigSource
	whatsapp string
	tmpl     *template.Template
}

func NewSite(products ProductSource, config ConfigSource, whatsAppNumber string) (*Site, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Site{products: products, config: config, whatsapp: whatsAppNumber, tmpl: tmpl}, nil
}

// Register mounts the page routes.
func (s *Site) Register(r gin.IRoutes) {
	r.GET("/", s.CatalogPage)
	r.GET("/product/:id", s.ProductPage)
	r.GET("/services", s.ServicesPage)
	r.GET("/about", s.AboutPage)
}

// Chrome is the header and footer shared by every page.
type Chrome struct {
	Title      string
	Site       SiteSettings
	Theme      Theme
	Navigation Navigation
	Socials    []Social
}

type catalogPage struct {
	Chrome
	Catalog CatalogView
	Error   string
}

type productPage struct {
	Chrome
	Product     ProductCard
	Specs       []string
	Badges      []string
	WhatsAppURL string
	Related     []ProductCard
}

type servicesPage struct {
	Chrome
	Services Services
}

type aboutPage struct {
	Chrome
	About About
}

// chrome loads the config once and builds the shared layout. Loader failures fall back to defaults.
func (s *Site) chrome(ctx context.Context, title string) (Chrome, Settings, map[string]json.RawMessage) {
	log := zap.S().Named("storefront")

	cfg, err := s.config.GetAll(ctx)
	if err != nil {
		log.Warnw("config unavailable, using defaults", "error", err)
		cfg = map[string]json.RawMessage{}
	}

	settings, err := LoadSettings(cfg)
	if err != nil {
		log.Warnw("invalid settings", "error", err)
	}
	nav, err := LoadNavigation(cfg)
	if err != nil {
		log.Warnw("invalid navigation", "error", err)
	}
	theme, err := LoadTheme(cfg)
	if err != nil {
		log.Warnw("invalid theme", "error", err)
	}
	socials, err := LoadSocials(cfg, settings)
	if err != nil {
		log.Warnw("invalid socials", "error", err)
	}

	if title == "" {
		title = settings.Site.Name
	} else {
		title += " - " + settings.Site.Name
	}
	return Chrome{Title: title, Site: settings.Site, Theme: theme, Navigation: nav, Socials: socials}, settings, cfg
}

// CatalogPage renders the listing for ?q=&category=&sort=&page=.
func (s *Site) CatalogPage(c *gin.Context) {
	ctx := c.Request.Context()
	chrome, settings, _ := s.chrome(ctx, "")

	catalog := NewCatalog(s.products, settings)
	catalog.sort = ParseSortMode(c.Query("sort"))
	catalog.category = c.Query("category")

	page := catalogPage{Chrome: chrome}
	if err := catalog.Search(ctx, c.Query("q")); err != nil {
		zap.S().Named("storefront").Errorw("failed to load products", "error", err)
		page.Error = MsgLoadError
		s.render(c, http.StatusOK, "catalog.html", page)
		return
	}
	catalog.GoToPage(cast.ToInt(c.DefaultQuery("page", "1")))
	page.Catalog = catalog.View()

	s.render(c, http.StatusOK, "catalog.html", page)
}

// ProductPage renders one product with related products. Unknown ids go back to the catalog.
func (s *Site) ProductPage(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	all, err := s.products.List(ctx)
	if err != nil {
		zap.S().Named("storefront").Errorw("failed to load product", "id", id, "error", err)
		c.Redirect(http.StatusFound, "/")
		return
	}

	var product *models.Product
	for i := range all {
		if all[i].ID == uint(id) {
			product = &all[i]
			break
		}
	}
	if product == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	chrome, settings, _ := s.chrome(ctx, product.Name)
	page := productPage{
		Chrome:  chrome,
		Product: NewProductCard(*product, settings),
		Specs:   product.Specifications,
		Badges:  product.Badges,
	}
	// the detail page always shows the strike-through price
	if product.OldPrice != nil && *product.OldPrice > 0 {
		page.Product.OldPrice = FormatPrice(*product.OldPrice, settings.Site.Locale, settings.Site.Currency)
	}
	if len(page.Badges) == 0 && product.InStock {
		page.Badges = []string{StockLabel(true)}
	}
	if ValidWhatsAppNumber(s.whatsapp) {
		page.WhatsAppURL = WhatsAppURL(s.whatsapp, "Hola, me interesa "+product.Name)
	}
	for _, p := range Related(all, *product, relatedCount) {
		page.Related = append(page.Related, NewProductCard(p, settings))
	}

	s.render(c, http.StatusOK, "product.html", page)
}

func (s *Site) ServicesPage(c *gin.Context) {
	chrome, _, cfg := s.chrome(c.Request.Context(), "Servicios")
	services, err := LoadServices(cfg)
	if err != nil {
		zap.S().Named("storefront").Warnw("invalid services", "error", err)
	}
	s.render(c, http.StatusOK, "services.html", servicesPage{Chrome: chrome, Services: services})
}

func (s *Site) AboutPage(c *gin.Context) {
	chrome, _, cfg := s.chrome(c.Request.Context(), "Sobre Nosotros")
	about, err := LoadAbout(cfg)
	if err != nil {
		zap.S().Named("storefront").Warnw("invalid aboutUs", "error", err)
	}
	s.render(c, http.StatusOK, "about.html", aboutPage{Chrome: chrome, About: about})
}

func (s *Site) render(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		zap.S().Named("storefront").Errorw("template failed", "template", name, "error", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
