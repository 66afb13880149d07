package console

import (
	"catalog/models"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ProductUpdater sends a partial product update in one request. The patch uses
// the API field names.
type ProductUpdater interface {
	UpdateProduct(ctx context.Context, id uint, patch map[string]interface{}) (*models.Product, error)
}

const specPrefix = "spec_"

// Session is the inline-edit state for one product: its fields, the field
// being edited (at most one), and the changes staged since the last save.
type Session struct {
	product models.Product
	fields  map[string]*Field
	editing string
	pending map[string]string
}

func NewSession(p models.Product) *Session {
	s := &Session{pending: make(map[string]string)}
	s.reload(p)
	return s
}

func (s *Session) reload(p models.Product) {
	s.product = p
	s.editing = ""
	s.fields = map[string]*Field{
		"name":     {Name: "name", Kind: KindText, Value: p.Name},
		"price":    {Name: "price", Kind: KindPrice, Value: strconv.FormatInt(p.Price, 10)},
		"oldPrice": {Name: "oldPrice", Kind: KindPrice, Optional: true},
		"category": {Name: "category", Kind: KindCategory, Value: p.Category},
		"stock":    {Name: "stock", Kind: KindStock, Value: StockSoldOut},
	}
	if p.OldPrice != nil {
		s.fields["oldPrice"].Value = strconv.FormatInt(*p.OldPrice, 10)
	}
	if p.InStock {
		s.fields["stock"].Value = StockAvailable
	}
	for i, spec := range p.Specifications {
		name := specPrefix + strconv.Itoa(i)
		s.fields[name] = &Field{Name: name, Kind: KindText, Value: spec, Optional: true}
	}
}

func (s *Session) Product() models.Product { return s.product }

// Editing returns the name of the field being edited, or "".
func (s *Session) Editing() string { return s.editing }

// Field looks a field up by name. "spec_<n>" one past the last specification
// opens a new, empty line.
func (s *Session) Field(name string) (*Field, error) {
	if f, ok := s.fields[name]; ok {
		return f, nil
	}
	if strings.HasPrefix(name, specPrefix) {
		n, err := strconv.Atoi(strings.TrimPrefix(name, specPrefix))
		if err == nil && n == s.specCount() {
			f := &Field{Name: name, Kind: KindText, Optional: true}
			s.fields[name] = f
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

func (s *Session) specCount() int {
	n := 0
	for name := range s.fields {
		if strings.HasPrefix(name, specPrefix) {
			n++
		}
	}
	return n
}

// Begin starts editing name. Only one field of the session can be editing.
func (s *Session) Begin(name string) error {
	if s.editing != "" {
		return fmt.Errorf("%s: %w", s.editing, ErrAlreadyEditing)
	}
	f, err := s.Field(name)
	if err != nil {
		return err
	}
	if err := f.Begin(); err != nil {
		return err
	}
	s.editing = name
	return nil
}

// Commit finishes the current edit and returns the field to Display. A Saved
// field is staged in the pending changes; nothing is sent until Save.
func (s *Session) Commit(value string) (FieldState, error) {
	if s.editing == "" {
		return Display, ErrNotEditing
	}
	f := s.fields[s.editing]
	state, err := f.Commit(value)
	if err != nil {
		return state, err
	}
	if state == Saved {
		s.pending[f.Name] = f.Value
	}
	f.Reset()
	s.editing = ""
	return state, nil
}

// Cancel abandons the current edit.
func (s *Session) Cancel() error {
	if s.editing == "" {
		return ErrNotEditing
	}
	f := s.fields[s.editing]
	if err := f.Cancel(); err != nil {
		return err
	}
	f.Reset()
	s.editing = ""
	return nil
}

// Set is Begin followed by Commit.
func (s *Session) Set(name, value string) (FieldState, error) {
	if err := s.Begin(name); err != nil {
		return Display, err
	}
	state, err := s.Commit(value)
	if err != nil {
		_ = s.Cancel()
	}
	return state, err
}

// Pending returns a copy of the staged changes keyed by field name.
func (s *Session) Pending() map[string]string {
	out := make(map[string]string, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}

func (s *Session) HasPending() bool { return len(s.pending) > 0 }

// Discard drops every staged change and restores the loaded product.
func (s *Session) Discard() {
	s.pending = make(map[string]string)
	s.reload(s.product)
}

// Patch converts the staged changes into an update payload.
func (s *Session) Patch() map[string]interface{} {
	patch := make(map[string]interface{})
	specsChanged := false
	for name, v := range s.pending {
		switch {
		case name == "name":
			patch["name"] = v
		case name == "price":
			patch["price"] = cast.ToInt64(v)
		case name == "oldPrice":
			if v == "" {
				patch["old_price"] = nil
			} else {
				patch["old_price"] = cast.ToInt64(v)
			}
		case name == "category":
			patch["category"] = v
		case name == "stock":
			patch["in_stock"] = v == StockAvailable
		case strings.HasPrefix(name, specPrefix):
			specsChanged = true
		}
	}
	if specsChanged {
		patch["specifications"] = s.specifications()
	}
	return patch
}

// specifications rebuilds the list from the spec fields in index order,
// dropping blank lines.
func (s *Session) specifications() []string {
	type line struct {
		index int
		text  string
	}
	var lines []line
	for name, f := range s.fields {
		if !strings.HasPrefix(name, specPrefix) {
			continue
		}
		i, _ := strconv.Atoi(strings.TrimPrefix(name, specPrefix))
		if f.Value != "" {
			lines = append(lines, line{i, f.Value})
		}
	}
	sort.Slice(lines, func(a, b int) bool { return lines[a].index < lines[b].index })

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.text)
	}
	return out
}

// Save flushes the staged changes in a single update. The staged changes are
// kept when the update fails and cleared once it succeeds.
func (s *Session) Save(ctx context.Context, u ProductUpdater) (*models.Product, error) {
	if len(s.pending) == 0 {
		return nil, ErrNoChanges
	}
	updated, err := u.UpdateProduct(ctx, s.product.ID, s.Patch())
	if err != nil {
		return nil, err
	}
	s.pending = make(map[string]string)
	s.reload(*updated)
	return updated, nil
}

// FieldView is a field as the console lists it.
type FieldView struct {
	Name    string
	Display string
	State   FieldState
	Pending bool
}

// Fields lists the fields in form order: the fixed fields, then specifications.
func (s *Session) Fields() []FieldView {
	names := []string{"name", "price", "oldPrice", "category", "stock"}
	var specs []string
	for name := range s.fields {
		if strings.HasPrefix(name, specPrefix) {
			specs = append(specs, name)
		}
	}
	sort.Slice(specs, func(a, b int) bool {
		i, _ := strconv.Atoi(strings.TrimPrefix(specs[a], specPrefix))
		j, _ := strconv.Atoi(strings.TrimPrefix(specs[b], specPrefix))
		return i < j
	})
	names = append(names, specs...)

	out := make([]FieldView, 0, len(names))
	for _, name := range names {
		f := s.fields[name]
		_, pending := s.pending[name]
		out = append(out, FieldView{Name: name, Display: f.Display(), State: f.State(), Pending: pending})
	}
	return out
}
