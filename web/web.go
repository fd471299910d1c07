// Package web serves the calculator page and the quick-reference guide.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/quickcalc/pkg/config"
	"github.com/lemonberrylabs/quickcalc/pkg/expr"
	"github.com/lemonberrylabs/quickcalc/pkg/format"
	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/pkg/theme"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Cookie names.
const (
	themeCookie   = "qc-theme"
	paletteCookie = "qc-palette"
)

// recentLimit is how many history entries the page shows.
const recentLimit = 5

// Examples shown in the guide.
var examples = []string{
	"2+3*4",
	"2(3+4)",
	"45% of 120",
	"-2^2",
	"sqrt(16) + 2^3",
	"2pi",
	"sin(pi/2)",
	"1.5e3 / 4",
	"log(1000)",
	"round(2.5)",
}

// Handler serves the web pages.
type Handler struct {
	store   store.Store
	display config.DisplayConfig
	funcMap template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	NavActive string
	Query     string
	Pref      theme.Preference
	NextPref  string
	NextLabel string
	Palette   *theme.Palette // nil: follow the mode defaults
	Palettes  []theme.Palette
	Dark      theme.Palette
	Light     theme.Palette
	Data      interface{}
}

// New creates a new web handler. Evaluations submitted through the page are
// recorded in s when it is non-nil.
func New(s store.Store, display config.DisplayConfig) *Handler {
	return &Handler{
		store:   s,
		display: display,
		funcMap: template.FuncMap{
			"paletteCSS": paletteCSS,
			"timeAgo":    timeAgo,
			"pageURL":    pageURL,
			"truncate":   truncate,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, navActive string, data interface{}) error {
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pref, palette := h.preferences(c)
	pd := pageData{
		NavActive: navActive,
		Query:     c.Query("q"),
		Pref:      pref,
		// The server cannot see the browser's color scheme; from "system"
		// the toggle goes to light, as it would on a dark desktop.
		NextPref:  string(pref.Next(theme.ModeDark)),
		NextLabel: pref.Next(theme.ModeDark).Label(),
		Palette:   palette,
		Palettes:  theme.All(),
		Dark:      theme.ForMode(theme.ModeDark),
		Light:     theme.ForMode(theme.ModeLight),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// preferences resolves the theme preference and palette from the query
// string, then cookies, then configured defaults. Query values are saved in
// cookies.
func (h *Handler) preferences(c *fiber.Ctx) (theme.Preference, *theme.Palette) {
	pref, err := theme.ParsePreference(h.display.Theme)
	if err != nil {
		pref = theme.PreferSystem
	}
	if v := c.Cookies(themeCookie); v != "" {
		if p, err := theme.ParsePreference(v); err == nil {
			pref = p
		}
	}
	if v := c.Query("theme"); v != "" {
		if p, err := theme.ParsePreference(v); err == nil {
			pref = p
			setCookie(c, themeCookie, string(p))
		}
	}

	// The default dark palette in config means "follow the mode".
	var palette *theme.Palette
	if p, ok := theme.Lookup(h.display.Palette); ok && h.display.Palette != theme.DefaultDark {
		palette = &p
	}
	if v := c.Cookies(paletteCookie); v != "" {
		if p, ok := theme.Lookup(v); ok {
			palette = &p
		}
	}
	if v := c.Query("palette"); v != "" {
		if p, ok := theme.Lookup(v); ok {
			palette = &p
			setCookie(c, paletteCookie, p.ID)
		}
	}
	return pref, palette
}

func setCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register adds web routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.index)
	app.Get("/guide", h.guide)
}

// --- Page Data Types ---

type indexContent struct {
	Input     string
	Empty     bool
	OK        bool
	Formatted string
	Recent    []*store.Entry
}

type guideEntry struct {
	Name        string
	Description string
	Value       string
}

type guideExample struct {
	Expression string
	Result     string
}

type guideContent struct {
	Constants []guideEntry
	Functions []guideEntry
	Examples  []guideExample
}

// --- Handlers ---

func (h *Handler) index(c *fiber.Ctx) error {
	input := c.Query("q")
	content := indexContent{Input: input, Empty: expr.Normalize(input) == ""}

	if !content.Empty {
		v, err := expr.Evaluate(input)
		if err == nil {
			content.OK = true
			content.Formatted = format.Result(v)
		}
		h.record(c.UserContext(), input, v, content.Formatted, err)
	}

	if h.store != nil {
		recent, err := h.store.List(c.UserContext(), recentLimit)
		if err != nil {
			log.Printf("Failed to list history: %v", err)
		}
		content.Recent = recent
	}

	return h.render(c, "index.html", "calc", content)
}

func (h *Handler) guide(c *fiber.Ctx) error {
	var content guideContent
	for _, name := range stdlib.ConstantNames() {
		v, _ := stdlib.Constant(name)
		content.Constants = append(content.Constants, guideEntry{
			Name:        name,
			Description: stdlib.Describe(name),
			Value:       format.Result(v),
		})
	}
	for _, name := range stdlib.FunctionNames() {
		content.Functions = append(content.Functions, guideEntry{
			Name:        name,
			Description: stdlib.Describe(name),
		})
	}
	for _, e := range examples {
		ex := guideExample{Expression: e}
		if v, err := expr.Evaluate(e); err == nil {
			ex.Result = format.Result(v)
		} else {
			ex.Result = string(types.KindOf(err))
		}
		content.Examples = append(content.Examples, ex)
	}
	return h.render(c, "guide.html", "guide", content)
}

func (h *Handler) record(ctx context.Context, input string, v float64, formatted string, err error) {
	if h.store == nil {
		return
	}
	if _, serr := h.store.Add(ctx, types.NewResult(input, v, formatted, err)); serr != nil {
		log.Printf("Failed to record %q in history: %v", input, serr)
	}
}

// --- Template Helpers ---

// paletteCSS renders a palette as CSS custom properties. Palettes come from
// the embedded theme file, so the output is trusted.
func paletteCSS(p theme.Palette) template.CSS {
	var b strings.Builder
	for _, kv := range [][2]string{
		{"bg", p.Bg}, {"fg", p.Fg}, {"muted", p.Muted},
		{"accent", p.Accent}, {"accent2", p.Accent2}, {"error", p.Error},
		{"surface", p.Surface}, {"border", p.Border},
	} {
		fmt.Fprintf(&b, "--%s:%s;", kv[0], kv[1])
	}
	return template.CSS(b.String())
}

// pageURL builds a link to path with the given query parameters; empty
// values are dropped.
func pageURL(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
