package console

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ConfigWriter stores one config key.
type ConfigWriter interface {
	PutConfig(ctx context.Context, key string, value json.RawMessage) error
}

// SettingsSections are the config keys the settings form edits.
var SettingsSections = []string{"site", "pagination", "layout", "theme", "display", "socials_data", "navigation", "aboutUs", "services"}

func isSection(key string) bool {
	for _, s := range SettingsSections {
		if s == key {
			return true
		}
	}
	return false
}

// SettingsForm stages whole config sections and writes each one with its own PUT.
type SettingsForm struct {
	current map[string]json.RawMessage
	staged  map[string]json.RawMessage
}

func NewSettingsForm(current map[string]json.RawMessage) *SettingsForm {
	f := &SettingsForm{current: make(map[string]json.RawMessage), staged: make(map[string]json.RawMessage)}
	for k, v := range current {
		f.current[k] = v
	}
	return f
}

// Value is the staged value of key, or the stored one.
func (f *SettingsForm) Value(key string) (json.RawMessage, bool) {
	if v, ok := f.staged[key]; ok {
		return v, true
	}
	v, ok := f.current[key]
	return v, ok
}

// Stage replaces a whole section.
func (f *SettingsForm) Stage(key string, value json.RawMessage) error {
	if !isSection(key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if !json.Valid(value) {
		return fmt.Errorf("%s: %w: not JSON", key, ErrInvalidValue)
	}
	f.staged[key] = append(json.RawMessage(nil), value...)
	return nil
}

// StageField sets one dotted path such as "site.name" inside a section. The
// value is taken as JSON when it parses and as a string otherwise.
func (f *SettingsForm) StageField(path, value string) error {
	parts := strings.Split(path, ".")
	key := parts[0]
	if !isSection(key) {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if len(parts) < 2 {
		return f.Stage(key, literal(value))
	}

	doc := map[string]interface{}{}
	if raw, ok := f.Value(key); ok && len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("%s: %w: section is not an object", key, ErrInvalidValue)
		}
	}

	var v interface{}
	if err := json.Unmarshal(literal(value), &v); err != nil {
		return err
	}

	node := doc
	for _, p := range parts[1 : len(parts)-1] {
		child, ok := node[p].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = v

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f.staged[key] = raw
	return nil
}

func literal(value string) json.RawMessage {
	if json.Valid([]byte(value)) {
		return json.RawMessage(value)
	}
	raw, _ := json.Marshal(value)
	return raw
}

// Staged lists the staged section keys in order.
func (f *SettingsForm) Staged() []string {
	keys := make([]string, 0, len(f.staged))
	for k := range f.staged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *SettingsForm) Discard(key string) { delete(f.staged, key) }

// Save writes the staged sections in key order. It stops at the first failure;
// sections written before it are no longer staged, the rest stay staged.
func (f *SettingsForm) Save(ctx context.Context, w ConfigWriter) ([]string, error) {
	if len(f.staged) == 0 {
		return nil, ErrNoChanges
	}
	var saved []string
	for _, key := range f.Staged() {
		if err := w.PutConfig(ctx, key, f.staged[key]); err != nil {
			return saved, fmt.Errorf("save %s: %w", key, err)
		}
		f.current[key] = f.staged[key]
		delete(f.staged, key)
		saved = append(saved, key)
	}
	return saved, nil
}
