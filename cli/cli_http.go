package cli

import (
	"catalog/console"
	"catalog/state"
	"catalog/storefront"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// CLIHttp is the admin console REPL over the catalog HTTP API
type CLIHttp struct {
	rl      *readline.Instance
	out     io.Writer
	running bool
	client  *Client

	edits      *state.EditSessions
	current    *console.Session
	settings   *console.SettingsForm
	browse     *storefront.Catalog
	exitWarned bool
}

// NewCLIHttp creates a console for client. Output goes to out; Start attaches readline.
func NewCLIHttp(client *Client, out io.Writer) *CLIHttp {
	return &CLIHttp{
		out:     out,
		running: true,
		client:  client,
		edits:   state.NewEditSessions(),
	}
}

// Start checks the server and runs the CLI loop
func (c *CLIHttp) Start() error {
	if _, err := c.client.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("cannot connect to server: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "catalog> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          c.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	c.rl = rl
	defer c.rl.Close()

	c.printWelcome()
	for c.running {
		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				printWarn(c.out, "Ctrl+C detected. Use 'exit' to leave.")
				continue
			}
			break
		}
		c.Handle(context.Background(), line)
	}
	return nil
}

func (c *CLIHttp) printWelcome() {
	PrintBanner(c.out, "Central Celulares - Admin Console")
	writeLine(c.out, "\nConnected to: %s", c.client.BaseURL())
	writeLine(c.out, "Type 'help' for available commands")
}

func (c *CLIHttp) setPrompt() {
	if c.rl == nil {
		return
	}
	if c.current != nil {
		c.rl.SetPrompt(fmt.Sprintf("edit #%d> ", c.current.Product().ID))
		return
	}
	c.rl.SetPrompt("catalog> ")
}

// Handle runs one command line.
func (c *CLIHttp) Handle(ctx context.Context, input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	cmd, rest, _ := strings.Cut(input, " ")
	cmd = strings.ToLower(cmd)
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	if cmd != "exit" && cmd != "quit" && cmd != "q" {
		c.exitWarned = false
	}

	switch cmd {
	case "help", "h", "?":
		c.showHelp()
	case "health":
		c.health(ctx)
	case "products", "product", "p":
		c.handleProducts(ctx, args)
	case "edit":
		c.openEdit(ctx, args)
	case "fields", "begin", "commit", "cancel", "set", "pending", "save", "discard", "done":
		c.handleEdit(ctx, cmd, args, rest)
	case "config", "cfg":
		c.handleConfig(ctx, args, rest)
	case "settings":
		c.handleSettings(ctx, args, rest)
	case "browse":
		c.handleBrowse(ctx, args)
	case "audit":
		c.handleAudit(ctx, args)
	case "errors":
		c.handleErrors(ctx, args)
	case "admins":
		c.handleAdmins(ctx, args)
	case "clear":
		fmt.Fprint(c.out, "\033[H\033[2J")
	case "exit", "quit", "q":
		c.handleExit()
	default:
		writeLine(c.out, "Unknown command: %s. Type 'help' for available commands.", cmd)
	}
}

func (c *CLIHttp) showHelp() {
	writeLine(c.out, "")
	PrintBanner(c.out, "Available Commands")

	commands := [][]string{
		{"PRODUCTS:", ""},
		{"products list", "List all products"},
		{"products show <id>", "Show product details"},
		{"products add name=.. price=.. category=.. [image=path]", "Create a product"},
		{"products delete <id>", "Delete a product and its image"},
		{"", ""},
		{"INLINE EDIT:", ""},
		{"edit <id>", "Open (or resume) an edit session"},
		{"fields", "Show the fields of the session"},
		{"set <field> <value>", "Edit and commit a field in one step"},
		{"begin <field> / commit <value> / cancel", "Step through an edit"},
		{"pending", "Show staged changes"},
		{"save", "Send staged changes in one update"},
		{"discard", "Drop staged changes"},
		{"done", "Close the session"},
		{"", ""},
		{"CONFIG:", ""},
		{"config list", "List config keys"},
		{"config get <key>", "Show a config value"},
		{"config set <key> <json>", "Write a config value"},
		{"config bulk <json object>", "Write several keys at once"},
		{"config delete <key>", "Delete a config key"},
		{"settings show|set <path> <value>|staged|discard <key>|save", "Staged settings form"},
		{"", ""},
		{"STOREFRONT:", ""},
		{"browse [q=..] [category=..] [sort=..] [page=..]", "Browse the catalog as shoppers see it"},
		{"", ""},
		{"OPERATIONS:", ""},
		{"audit [entity_type=..] [entity_id=..] [action=..] [page=..]", "Show the audit trail"},
		{"errors list|clear", "Show or clear server error logs"},
		{"admins list|add <email>|disable <email>", "Manage the admin allow-list"},
		{"health", "Check the server"},
		{"clear", "Clear screen"},
		{"exit, quit, q", "Exit the program"},
	}
	for _, cmd := range commands {
		if cmd[0] == "" {
			writeLine(c.out, "")
			continue
		}
		writeLine(c.out, "  %-58s %s", cmd[0], cmd[1])
	}
}

func (c *CLIHttp) health(ctx context.Context) {
	h, err := c.client.HealthCheck(ctx)
	if err != nil {
		printErr(c.out, err)
		return
	}
	printOK(c.out, "%s (%s) %s", h.Message, h.Version, h.Timestamp)
}

func (c *CLIHttp) newTable(header ...any) *tablewriter.Table {
	t := tablewriter.NewWriter(c.out)
	t.Header(header...)
	return t
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return uint(id), nil
}

// keyValues parses "k=v" arguments; values may not contain spaces.
func keyValues(args []string) map[string]string {
	out := make(map[string]string, len(args))
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok {
			out[k] = v
		}
	}
	return out
}

func formatPrice(amount int64) string {
	return storefront.FormatPrice(amount, "es-PY", "PYG")
}

func (c *CLIHttp) handleProducts(ctx context.Context, args []string) {
	if len(args) == 0 {
		writeLine(c.out, "Usage: products <list|show|add|delete> [args]")
		return
	}

	switch args[0] {
	case "list", "ls":
		c.listProducts(ctx)
	case "show", "get":
		if len(args) < 2 {
			writeLine(c.out, "Usage: products show <id>")
			return
		}
		c.showProduct(ctx, args[1])
	case "add", "create":
		c.addProduct(ctx, args[1:])
	case "delete", "del", "rm":
		if len(args) < 2 {
			writeLine(c.out, "Usage: products delete <id>")
			return
		}
		c.deleteProduct(ctx, args[1])
	default:
		writeLine(c.out, "Unknown products command: %s", args[0])
	}
}

func (c *CLIHttp) listProducts(ctx context.Context) {
	products, err := c.client.ListProducts(ctx)
	if err != nil {
		printErr(c.out, err)
		return
	}
	if len(products) == 0 {
		writeLine(c.out, "No products yet.")
		return
	}

	t := c.newTable("ID", "Name", "Category", "Price", "Stock", "Updated")
	for _, p := range products {
		_ = t.Append([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			truncate(p.Name, 30),
			p.Category,
			formatPrice(p.Price),
			console.StockDisplay(p.InStock),
			humanize.Time(p.UpdatedAt),
		})
	}
	_ = t.Render()
	writeLine(c.out, "Total: %d", len(products))
}

func (c *CLIHttp) showProduct(ctx context.Context, idStr string) {
	id, err := parseID(idStr)
	if err != nil {
		printErr(c.out, err)
		return
	}
	p, err := c.client.GetProduct(ctx, id)
	if err != nil {
		printErr(c.out, err)
		return
	}

	writeLine(c.out, "")
	PrintBanner(c.out, fmt.Sprintf("#%d %s", p.ID, p.Name))
	writeLine(c.out, "Category:  %s", p.Category)
	writeLine(c.out, "Price:     %s", formatPrice(p.Price))
	if p.OldPrice != nil {
		writeLine(c.out, "Old price: %s", formatPrice(*p.OldPrice))
	}
	writeLine(c.out, "Stock:     %s", console.StockDisplay(p.InStock))
	if img := p.ImageURL(); img != "" {
		writeLine(c.out, "Image:     %s", img)
	}
	if len(p.Badges) > 0 {
		writeLine(c.out, "Badges:    %s", strings.Join(p.Badges, ", "))
	}
	for i, s := range p.Specifications {
		writeLine(c.out, "  spec_%d   %s", i, s)
	}
	writeLine(c.out, "Created %s, updated %s", humanize.Time(p.CreatedAt), humanize.Time(p.UpdatedAt))
}

func (c *CLIHttp) addProduct(ctx context.Context, args []string) {
	fields := keyValues(args)
	if len(fields) == 0 && c.rl != nil {
		for _, f := range []string{"name", "price", "old_price", "category", "in_stock", "image"} {
			v, cancelled := c.readInputWithCancel(f, "")
			if cancelled {
				writeLine(c.out, "Operation cancelled")
				return
			}
			if v != "" {
				fields[f] = v
			}
		}
	}

	imagePath := fields["image"]
	delete(fields, "image")
	if imagePath != "" {
		info, err := os.Stat(imagePath)
		if err != nil {
			printErr(c.out, err)
			return
		}
		writeLine(c.out, "Uploading %s (%s)", imagePath, humanize.Bytes(uint64(info.Size())))
	}

	p, err := c.client.CreateProduct(ctx, fields, imagePath)
	if err != nil {
		printErr(c.out, err)
		return
	}
	printOK(c.out, "Created product #%d %s", p.ID, p.Name)
}

func (c *CLIHttp) deleteProduct(ctx context.Context, idStr string) {
	id, err := parseID(idStr)
	if err != nil {
		printErr(c.out, err)
		return
	}
	if err := c.client.DeleteProduct(ctx, id); err != nil {
		printErr(c.out, err)
		return
	}
	if c.edits.Remove(id) {
		printWarn(c.out, "Discarded unsaved edits of product #%d", id)
	}
	if c.current != nil && c.current.Product().ID == id {
		c.current = nil
		c.setPrompt()
	}
	printOK(c.out, "Product #%d deleted", id)
}

// openEdit starts an inline-edit session, resuming one with unsaved changes.
func (c *CLIHttp) openEdit(ctx context.Context, args []string) {
	if len(args) < 1 {
		writeLine(c.out, "Usage: edit <id>")
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		printErr(c.out, err)
		return
	}

	session, ok := c.edits.Get(id)
	if !ok {
		p, err := c.client.GetProduct(ctx, id)
		if err != nil {
			printErr(c.out, err)
			return
		}
		session = console.NewSession(*p)
		c.edits.Put(id, session)
	}
	c.current = session
	c.setPrompt()
	c.showFields()
}

func (c *CLIHttp) showFields() {
	t := c.newTable("Field", "Value", "State")
	for _, f := range c.current.Fields() {
		mark := f.State.String()
		if f.Pending {
			mark += " *"
		}
		_ = t.Append([]string{f.Name, f.Display, mark})
	}
	_ = t.Render()
}

func (c *CLIHttp) handleEdit(ctx context.Context, cmd string, args []string, rest string) {
	if c.current == nil {
		writeLine(c.out, "No edit session. Use 'edit <id>' first.")
		return
	}
	s := c.current

	switch cmd {
	case "fields":
		c.showFields()
	case "begin":
		if len(args) < 1 {
			writeLine(c.out, "Usage: begin <field>")
			return
		}
		if err := s.Begin(args[0]); err != nil {
			printErr(c.out, err)
			return
		}
		f, _ := s.Field(args[0])
		writeLine(c.out, "Editing %s (current: %s). Use 'commit <value>' or 'cancel'.", f.Name, f.Display())
	case "commit":
		c.reportCommit(s.Editing(), func() (console.FieldState, error) { return s.Commit(rest) })
	case "set":
		name, value, _ := strings.Cut(rest, " ")
		if name == "" {
			writeLine(c.out, "Usage: set <field> <value>")
			return
		}
		c.reportCommit(name, func() (console.FieldState, error) { return s.Set(name, strings.TrimSpace(value)) })
	case "cancel":
		if err := s.Cancel(); err != nil {
			printErr(c.out, err)
			return
		}
		writeLine(c.out, "Edit cancelled")
	case "pending":
		pending := s.Pending()
		if len(pending) == 0 {
			writeLine(c.out, "No pending changes")
			return
		}
		data, _ := json.MarshalIndent(s.Patch(), "", "  ")
		writeLine(c.out, "%s", data)
	case "save":
		updated, err := s.Save(ctx, c.client)
		if err != nil {
			printErr(c.out, err)
			return
		}
		printOK(c.out, "Saved product #%d", updated.ID)
		c.showFields()
	case "discard":
		s.Discard()
		writeLine(c.out, "Pending changes discarded")
	case "done":
		if s.HasPending() {
			printWarn(c.out, "Product #%d keeps %d unsaved change(s); 'edit %d' resumes them",
				s.Product().ID, len(s.Pending()), s.Product().ID)
		} else {
			c.edits.Remove(s.Product().ID)
		}
		c.current = nil
		c.setPrompt()
	}
}

func (c *CLIHttp) reportCommit(name string, commit func() (console.FieldState, error)) {
	st, err := commit()
	if err != nil {
		printErr(c.out, err)
		return
	}
	f, _ := c.current.Field(name)
	switch st {
	case console.Saved:
		printOK(c.out, "%s = %s (staged, use 'save' to send)", name, f.Display())
	case console.Cancelled:
		writeLine(c.out, "%s unchanged", name)
	}
}

func (c *CLIHttp) handleConfig(ctx context.Context, args []string, rest string) {
	if len(args) == 0 {
		writeLine(c.out, "Usage: config <list|get|set|bulk|delete> [args]")
		return
	}

	switch args[0] {
	case "list", "ls":
		cfg, err := c.client.GetConfig(ctx)
		if err != nil {
			printErr(c.out, err)
			return
		}
		t := c.newTable("Key", "Value")
		for _, k := range sortedKeys(cfg) {
			_ = t.Append([]string{k, truncate(string(cfg[k]), 60)})
		}
		_ = t.Render()
	case "get":
		if len(args) < 2 {
			writeLine(c.out, "Usage: config get <key>")
			return
		}
		v, err := c.client.GetConfigKey(ctx, args[1])
		if err != nil {
			printErr(c.out, err)
			return
		}
		writeLine(c.out, "%s", indentJSON(v))
	case "set":
		if len(args) < 3 {
			writeLine(c.out, "Usage: config set <key> <json>")
			return
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(rest, args[0]), " "+args[1]))
		if !json.Valid([]byte(value)) {
			printErr(c.out, errors.New("value must be JSON"))
			return
		}
		if err := c.client.PutConfig(ctx, args[1], json.RawMessage(value)); err != nil {
			printErr(c.out, err)
			return
		}
		printOK(c.out, "Config %s saved", args[1])
	case "bulk":
		raw := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		var updates map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &updates); err != nil {
			printErr(c.out, fmt.Errorf("updates must be a JSON object: %w", err))
			return
		}
		if err := c.client.BulkUpdateConfig(ctx, updates); err != nil {
			printErr(c.out, err)
			return
		}
		printOK(c.out, "%d config key(s) saved", len(updates))
	case "delete", "del", "rm":
		if len(args) < 2 {
			writeLine(c.out, "Usage: config delete <key>")
			return
		}
		if err := c.client.DeleteConfig(ctx, args[1]); err != nil {
			printErr(c.out, err)
			return
		}
		printOK(c.out, "Config %s deleted", args[1])
	default:
		writeLine(c.out, "Unknown config command: %s", args[0])
	}
}

func (c *CLIHttp) handleSettings(ctx context.Context, args []string, rest string) {
	if c.settings == nil {
		cfg, err := c.client.GetConfig(ctx)
		if err != nil {
			printErr(c.out, err)
			return
		}
		c.settings = console.NewSettingsForm(cfg)
	}
	if len(args) == 0 {
		args = []string{"show"}
	}

	switch args[0] {
	case "show":
		t := c.newTable("Section", "Value", "")
		staged := map[string]bool{}
		for _, k := range c.settings.Staged() {
			staged[k] = true
		}
		for _, k := range console.SettingsSections {
			v, _ := c.settings.Value(k)
			mark := ""
			if staged[k] {
				mark = "staged"
			}
			_ = t.Append([]string{k, truncate(string(v), 60), mark})
		}
		_ = t.Render()
	case "set":
		if len(args) < 3 {
			writeLine(c.out, "Usage: settings set <section.path> <value>")
			return
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(rest, args[0]), " "+args[1]))
		if err := c.settings.StageField(args[1], value); err != nil {
			printErr(c.out, err)
			return
		}
		writeLine(c.out, "Staged %s", args[1])
	case "staged":
		for _, k := range c.settings.Staged() {
			v, _ := c.settings.Value(k)
			writeLine(c.out, "%s = %s", k, v)
		}
	case "discard":
		if len(args) < 2 {
			writeLine(c.out, "Usage: settings discard <section>")
			return
		}
		c.settings.Discard(args[1])
	case "save":
		saved, err := c.settings.Save(ctx, c.client)
		for _, k := range saved {
			printOK(c.out, "Saved %s", k)
		}
		if err != nil {
			printErr(c.out, err)
		}
	default:
		writeLine(c.out, "Unknown settings command: %s", args[0])
	}
}

// handleBrowse renders the storefront catalog from the API the way a shopper sees it.
func (c *CLIHttp) handleBrowse(ctx context.Context, args []string) {
	cfg, err := c.client.GetConfig(ctx)
	if err != nil {
		printErr(c.out, err)
		return
	}
	settings, err := storefront.LoadSettings(cfg)
	if err != nil {
		printWarn(c.out, "%v", err)
	}

	opts := keyValues(args)
	if c.browse == nil || len(opts) == 0 {
		c.browse = storefront.NewCatalog(productSource{c.client}, settings)
		if err := c.browse.Load(ctx); err != nil {
			printErr(c.out, errors.New(storefront.MsgLoadError))
			return
		}
	}
	if cat, ok := opts["category"]; ok {
		if err := c.browse.FilterCategory(ctx, cat); err != nil {
			printErr(c.out, errors.New(storefront.MsgLoadError))
			return
		}
	}
	if q, ok := opts["q"]; ok {
		if err := c.browse.Search(ctx, q); err != nil {
			printErr(c.out, errors.New(storefront.MsgLoadError))
			return
		}
	}
	if s, ok := opts["sort"]; ok {
		c.browse.Sort(storefront.ParseSortMode(s))
	}
	if p, ok := opts["page"]; ok {
		n, _ := strconv.Atoi(p)
		c.browse.GoToPage(n)
	}

	view := c.browse.View()
	if view.Empty != "" {
		writeLine(c.out, "%s", view.Empty)
		return
	}
	t := c.newTable("ID", "Name", "Price", "Old price", "Stock")
	for _, card := range view.Cards {
		_ = t.Append([]string{strconv.FormatUint(uint64(card.ID), 10), card.Name, card.Price, card.OldPrice, card.StockLabel})
	}
	_ = t.Render()
	if view.Pagination.Visible {
		var pages []string
		for _, it := range view.Pagination.Items {
			switch {
			case it.Ellipsis:
				pages = append(pages, "...")
			case it.Active:
				pages = append(pages, fmt.Sprintf("[%d]", it.Number))
			default:
				pages = append(pages, strconv.Itoa(it.Number))
			}
		}
		writeLine(c.out, "Page %s  (%d products)", strings.Join(pages, " "), view.Total)
	}
}

func (c *CLIHttp) handleAudit(ctx context.Context, args []string) {
	opts := keyValues(args)
	filter := url.Values{}
	for _, k := range []string{"entity_type", "entity_id", "action"} {
		if v := opts[k]; v != "" {
			filter.Set(k, v)
		}
	}
	page, _ := strconv.Atoi(opts["page"])
	if page < 1 {
		page = 1
	}

	result, err := c.client.AuditLog(ctx, filter, page, 20)
	if err != nil {
		printErr(c.out, err)
		return
	}
	if len(result.Data) == 0 {
		writeLine(c.out, "No audit entries.")
		return
	}
	t := c.newTable("ID", "When", "Admin", "Action", "Entity", "Changes")
	for _, e := range result.Data {
		_ = t.Append([]string{
			strconv.FormatUint(uint64(e.ID), 10),
			humanize.Time(e.CreatedAt),
			strconv.FormatUint(uint64(e.AdminID), 10),
			e.Action,
			e.EntityType + ":" + e.EntityID,
			truncate(string(e.Changes), 50),
		})
	}
	_ = t.Render()
	writeLine(c.out, "Page %d, %s entries total", result.Page, humanize.Comma(result.Total))
}

func (c *CLIHttp) handleErrors(ctx context.Context, args []string) {
	if len(args) > 0 && args[0] == "clear" {
		if err := c.client.ClearErrorLogs(ctx); err != nil {
			printErr(c.out, err)
			return
		}
		printOK(c.out, "Error logs cleared")
		return
	}

	logs, err := c.client.ErrorLogs(ctx)
	if err != nil {
		printErr(c.out, err)
		return
	}
	if len(logs) == 0 {
		writeLine(c.out, "No errors recorded.")
		return
	}
	t := c.newTable("ID", "When", "Level", "Source", "Message", "Detail")
	for _, l := range logs {
		_ = t.Append([]string{
			strconv.Itoa(l.ID),
			humanize.Time(l.Timestamp),
			l.Level,
			l.Source,
			truncate(l.Message, 30),
			truncate(l.Detail, 40),
		})
	}
	_ = t.Render()
}

func (c *CLIHttp) handleAdmins(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] == "list" {
		admins, err := c.client.ListAdmins(ctx)
		if err != nil {
			printErr(c.out, err)
			return
		}
		t := c.newTable("ID", "Email", "Active", "Last login")
		for _, a := range admins {
			last := "never"
			if a.LastLogin != nil {
				last = humanize.Time(*a.LastLogin)
			}
			_ = t.Append([]string{strconv.FormatUint(uint64(a.ID), 10), a.Email, strconv.FormatBool(a.IsActive), last})
		}
		_ = t.Render()
		return
	}

	if len(args) < 2 || (args[0] != "add" && args[0] != "disable") {
		writeLine(c.out, "Usage: admins <list|add <email>|disable <email>>")
		return
	}
	admin, err := c.client.UpsertAdmin(ctx, args[1], args[0] == "add")
	if err != nil {
		printErr(c.out, err)
		return
	}
	printOK(c.out, "%s active=%t", admin.Email, admin.IsActive)
}

// handleExit warns once about unsaved inline edits before leaving.
func (c *CLIHttp) handleExit() {
	if ids := c.edits.WithPending(); len(ids) > 0 && !c.exitWarned {
		printWarn(c.out, "Unsaved edits on product(s) %v will be lost. Type 'exit' again to leave.", ids)
		c.exitWarned = true
		return
	}
	writeLine(c.out, "Goodbye!")
	c.running = false
}

func (c *CLIHttp) readInputWithCancel(prompt, defaultValue string) (string, bool) {
	p := prompt
	if defaultValue != "" {
		p = fmt.Sprintf("%s [%s]", prompt, defaultValue)
	}
	c.rl.SetPrompt(p + ": ")
	defer c.setPrompt()

	line, err := c.rl.Readline()
	if err != nil {
		return "", true
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, false
	}
	return line, false
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indentJSON(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// ensure the API client satisfies the console collaborators
var (
	_ console.ProductUpdater = (*Client)(nil)
	_ console.ConfigWriter   = (*Client)(nil)
)
