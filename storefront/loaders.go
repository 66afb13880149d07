package storefront

import (
	"encoding/json"
	"fmt"
	"regexp"
)

type NavLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// NavItem is a link, a spacer, or a link with a dropdown. HasDropdown is set
// when the item declares a dropdown, even an empty one.
type NavItem struct {
	Label        string    `json:"label"`
	URL          string    `json:"url"`
	Active       bool      `json:"active"`
	Spacer       bool      `json:"spacer"`
	Dropdown     []NavLink `json:"dropdown"`
	HideDropdown bool      `json:"hideDropdown"`
	HasDropdown  bool      `json:"-"`
}

type Navigation struct {
	Items []NavItem `json:"items"`
}

func defaultNavigation() Navigation {
	return Navigation{Items: []NavItem{
		{Label: "Inicio", URL: "/", Active: true},
		{Label: "Servicios", URL: "/services"},
		{Label: "Nosotros", URL: "/about"},
	}}
}

// LoadNavigation decodes the "navigation" key. Without items the default menu is used.
func LoadNavigation(cfg map[string]json.RawMessage) (Navigation, error) {
	raw, ok := cfg["navigation"]
	if !ok || string(raw) == "null" {
		return defaultNavigation(), nil
	}

	var generic struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return defaultNavigation(), fmt.Errorf("config %q: %w", "navigation", err)
	}
	if len(generic.Items) == 0 {
		return defaultNavigation(), nil
	}

	nav := Navigation{Items: make([]NavItem, 0, len(generic.Items))}
	for i, rawItem := range generic.Items {
		var item NavItem
		if err := decodeValue(rawItem, &item); err != nil {
			return defaultNavigation(), fmt.Errorf("config %q item %d: %w", "navigation", i, err)
		}
		_, item.HasDropdown = rawItem["dropdown"]
		nav.Items = append(nav.Items, item)
	}
	return nav, nil
}

var themeName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type Theme struct {
	Current                 string `json:"current"`
	HeaderBackground        string `json:"headerBackground"`
	HeaderActionsBackground string `json:"headerActionsBackground"`
}

// Stylesheet is the theme CSS path, or "" when no usable theme is configured.
func (t Theme) Stylesheet() string {
	if !themeName.MatchString(t.Current) {
		return ""
	}
	return "assets/css/themes/" + t.Current + ".css"
}

func LoadTheme(cfg map[string]json.RawMessage) (Theme, error) {
	var t Theme
	if err := decodeSection(cfg, "theme", &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

type Social struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Icon    string `json:"icon"`
	Enabled bool   `json:"enabled"`
}

// LoadSocials returns the enabled entries of "socials_data", or none when the
// footer links are switched off.
func LoadSocials(cfg map[string]json.RawMessage, settings Settings) ([]Social, error) {
	if !settings.Socials.ShowInFooter {
		return nil, nil
	}

	var all []Social
	if err := decodeSection(cfg, "socials_data", &all); err != nil {
		return nil, err
	}

	enabled := make([]Social, 0, len(all))
	for _, s := range all {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled, nil
}

type Stat struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

type Feature struct {
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type History struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Location struct {
	Title   string `json:"title"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Hours   string `json:"hours"`
}

type About struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Stats       []Stat    `json:"stats"`
	Sections    []Feature `json:"sections"`
	History     History   `json:"history"`
	Location    Location  `json:"location"`
}

func LoadAbout(cfg map[string]json.RawMessage) (About, error) {
	a := About{Title: "Sobre Nosotros"}
	if err := decodeSection(cfg, "aboutUs", &a); err != nil {
		return About{Title: "Sobre Nosotros"}, err
	}
	return a, nil
}

type Services struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Sections    []Feature `json:"sections"`
}

func LoadServices(cfg map[string]json.RawMessage) (Services, error) {
	s := Services{Title: "Servicios"}
	if err := decodeSection(cfg, "services", &s); err != nil {
		return Services{Title: "Servicios"}, err
	}
	if s.Title == "" {
		s.Title = "Servicios"
	}
	return s, nil
}
