package console

import (
	"catalog/storefront"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	ErrAlreadyEditing = errors.New("another field is being edited")
	ErrNotEditing     = errors.New("no field is being edited")
	ErrUnknownField   = errors.New("unknown field")
	ErrInvalidValue   = errors.New("invalid value")
	ErrNoChanges      = errors.New("no pending changes")
)

// FieldState is the inline-edit state of one field.
type FieldState int

const (
	Display FieldState = iota
	Editing
	Saved
	Cancelled
)

func (s FieldState) String() string {
	switch s {
	case Display:
		return "display"
	case Editing:
		return "editing"
	case Saved:
		return "saved"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

type FieldKind int

const (
	KindText FieldKind = iota
	KindPrice
	KindCategory
	KindStock
)

// Brands is the category choice list offered by the editor.
var Brands = []string{"Apple", "Samsung", "Xiaomi", "Motorola", "Huawei", "Oppo", "Realme", "Nokia", "LG", "Sony", "Otro"}

const (
	StockAvailable = "Disponible"
	StockSoldOut   = "Agotado"
)

// Field is one click-to-edit value. Value is the raw text the editor works on;
// the displayed form is derived from it by kind.
type Field struct {
	Name     string
	Kind     FieldKind
	Value    string
	Optional bool

	state    FieldState
	original string
}

func (f *Field) State() FieldState { return f.state }

// Begin moves the field into Editing. A field that is already editing refuses.
func (f *Field) Begin() error {
	if f.state == Editing {
		return fmt.Errorf("%s: %w", f.Name, ErrAlreadyEditing)
	}
	f.original = f.Value
	f.state = Editing
	return nil
}

// Commit ends the edit with value. An unchanged value cancels the edit; a
// changed one is validated, stored and reported as Saved.
func (f *Field) Commit(value string) (FieldState, error) {
	if f.state != Editing {
		return f.state, fmt.Errorf("%s: %w", f.Name, ErrNotEditing)
	}
	value = strings.TrimSpace(value)
	if value == f.original {
		f.state = Cancelled
		return f.state, nil
	}
	normalized, err := f.normalize(value)
	if err != nil {
		return f.state, err
	}
	f.Value = normalized
	f.state = Saved
	return f.state, nil
}

// Cancel ends the edit and restores the value shown before Begin.
func (f *Field) Cancel() error {
	if f.state != Editing {
		return fmt.Errorf("%s: %w", f.Name, ErrNotEditing)
	}
	f.Value = f.original
	f.state = Cancelled
	return nil
}

// Reset returns a finished field to Display.
func (f *Field) Reset() {
	if f.state != Editing {
		f.state = Display
	}
}

func (f *Field) normalize(value string) (string, error) {
	switch f.Kind {
	case KindPrice:
		if value == "" && f.Optional {
			return "", nil
		}
		n, err := cast.ToInt64E(value)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%s: %w: %q is not a price", f.Name, ErrInvalidValue, value)
		}
		return strconv.FormatInt(n, 10), nil
	case KindCategory:
		for _, b := range Brands {
			if strings.EqualFold(b, value) {
				return b, nil
			}
		}
		return "", fmt.Errorf("%s: %w: choose one of %s", f.Name, ErrInvalidValue, strings.Join(Brands, ", "))
	case KindStock:
		switch {
		case strings.EqualFold(value, StockAvailable):
			return StockAvailable, nil
		case strings.EqualFold(value, StockSoldOut):
			return StockSoldOut, nil
		}
		return "", fmt.Errorf("%s: %w: use %s or %s", f.Name, ErrInvalidValue, StockAvailable, StockSoldOut)
	}
	if value == "" && !f.Optional {
		return "", fmt.Errorf("%s: %w: value is required", f.Name, ErrInvalidValue)
	}
	return value, nil
}

// Display formats the value the way the console shows it.
func (f *Field) Display() string {
	switch f.Kind {
	case KindPrice:
		if f.Value == "" {
			return "-"
		}
		return storefront.FormatPrice(cast.ToInt64(f.Value), "es-PY", "PYG")
	case KindStock:
		return StockDisplay(f.Value == StockAvailable)
	}
	return f.Value
}

// StockDisplay is the iconized stock label.
func StockDisplay(inStock bool) string {
	if inStock {
		return "✅ " + StockAvailable
	}
	return "❌ " + StockSoldOut
}
