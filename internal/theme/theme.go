package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Appearance groups palettes for the theme picker's dropdown.
type Appearance string

const (
	Dark  Appearance = "dark"
	Light Appearance = "light"
)

// Palette is a named colour set. Colours are lipgloss colour strings (ANSI
// 256 indices or hex).
type Palette struct {
	ID         string
	Name       string
	Appearance Appearance
	Text       string
	Subtle     string
	Muted      string
	Accent     string
	Surface    string
	Selection  string
	Error      string
	Success    string
	Warning    string
}

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	ItemSubtitle          *lipgloss.Style
	ItemTag               *lipgloss.Style
	Error                 *lipgloss.Style
	Success               *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	FooterKey             *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	Dropdown              *lipgloss.Style
	Menu                  *lipgloss.Style
	MenuTitle             *lipgloss.Style
}

// Build derives the style set for p.
func Build(p Palette) *Styles {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return &Styles{
		Loading:               ptr(lipgloss.NewStyle().Foreground(c(p.Accent)).Italic(true)),
		Item:                  ptr(lipgloss.NewStyle().Foreground(c(p.Text))),
		ItemIndicator:         ptr(lipgloss.NewStyle().Foreground(c(p.Selection))),
		SelectedItemIndicator: ptr(lipgloss.NewStyle().Foreground(c(p.Accent)).Background(c(p.Selection))),
		SelectedItem:          ptr(lipgloss.NewStyle().Foreground(c(p.Text)).Background(c(p.Selection)).Bold(true)),
		ItemSubtitle:          ptr(lipgloss.NewStyle().Foreground(c(p.Muted))),
		ItemTag:               ptr(lipgloss.NewStyle().Foreground(c(p.Subtle)).Italic(true)),
		Error:                 ptr(lipgloss.NewStyle().Foreground(c(p.Error)).Bold(true)),
		Success:               ptr(lipgloss.NewStyle().Foreground(c(p.Success)).Bold(true)),
		Info:                  ptr(lipgloss.NewStyle().Foreground(c(p.Subtle))),
		Header:                ptr(lipgloss.NewStyle().Foreground(c(p.Subtle)).Bold(true)),
		Footer:                ptr(lipgloss.NewStyle().Foreground(c(p.Muted))),
		FooterKey:             ptr(lipgloss.NewStyle().Foreground(c(p.Accent)).Bold(true)),
		Filter:                ptr(lipgloss.NewStyle().Foreground(c(p.Text))),
		FilterPrompt:          ptr(lipgloss.NewStyle().Foreground(c(p.Success)).Bold(true)),
		FilterPlaceholder:     ptr(lipgloss.NewStyle().Foreground(c(p.Muted))),
		Cursor:                ptr(lipgloss.NewStyle().Foreground(c(p.Surface)).Background(c(p.Accent))),
		Dropdown:              ptr(lipgloss.NewStyle().Foreground(c(p.Accent))),
		Menu:                  ptr(lipgloss.NewStyle().Foreground(c(p.Text))),
		MenuTitle:             ptr(lipgloss.NewStyle().Foreground(c(p.Warning)).Bold(true)),
	}
}

var palettes = []Palette{
	{ID: "default", Name: "Terminal", Appearance: Dark, Text: "249", Subtle: "245", Muted: "241", Accent: "33", Surface: "0", Selection: "238", Error: "196", Success: "34", Warning: "214"},
	{ID: "catppuccin-mocha", Name: "Catppuccin Mocha", Appearance: Dark, Text: "#cdd6f4", Subtle: "#a6adc8", Muted: "#6c7086", Accent: "#89b4fa", Surface: "#1e1e2e", Selection: "#45475a", Error: "#f38ba8", Success: "#a6e3a1", Warning: "#f9e2af"},
	{ID: "dracula", Name: "Dracula", Appearance: Dark, Text: "#f8f8f2", Subtle: "#bfbfbf", Muted: "#6272a4", Accent: "#bd93f9", Surface: "#282a36", Selection: "#44475a", Error: "#ff5555", Success: "#50fa7b", Warning: "#f1fa8c"},
	{ID: "gruvbox-dark", Name: "Gruvbox Dark", Appearance: Dark, Text: "#ebdbb2", Subtle: "#d5c4a1", Muted: "#928374", Accent: "#fabd2f", Surface: "#282828", Selection: "#504945", Error: "#fb4934", Success: "#b8bb26", Warning: "#fe8019"},
	{ID: "catppuccin-latte", Name: "Catppuccin Latte", Appearance: Light, Text: "#4c4f69", Subtle: "#6c6f85", Muted: "#9ca0b0", Accent: "#1e66f5", Surface: "#eff1f5", Selection: "#ccd0da", Error: "#d20f39", Success: "#40a02b", Warning: "#df8e1d"},
	{ID: "solarized-light", Name: "Solarized Light", Appearance: Light, Text: "#586e75", Subtle: "#657b83", Muted: "#93a1a1", Accent: "#268bd2", Surface: "#fdf6e3", Selection: "#eee8d5", Error: "#dc322f", Success: "#859900", Warning: "#b58900"},
}

// DefaultID is the palette used when none is configured.
const DefaultID = "default"

// Palettes lists the built-in palettes.
func Palettes() []Palette {
	return append([]Palette(nil), palettes...)
}

// Lookup finds a palette by id.
func Lookup(id string) (Palette, bool) {
	for _, p := range palettes {
		if p.ID == id {
			return p, true
		}
	}
	return Palette{}, false
}

// Catalog tracks the active palette and its derived styles. It is mutated on
// the owner only.
type Catalog struct {
	active Palette
	styles *Styles
}

// NewCatalog starts on palette id, falling back to the default palette.
func NewCatalog(id string) *Catalog {
	p, ok := Lookup(id)
	if !ok {
		p = palettes[0]
	}
	return &Catalog{active: p, styles: Build(p)}
}

// Active returns the palette in use.
func (c *Catalog) Active() Palette { return c.active }

// Styles returns the styles for the active palette.
func (c *Catalog) Styles() *Styles { return c.styles }

// Select switches palettes.
func (c *Catalog) Select(id string) (Palette, error) {
	p, ok := Lookup(id)
	if !ok {
		return Palette{}, fmt.Errorf("unknown theme %q", id)
	}
	c.active = p
	c.styles = Build(p)
	return p, nil
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return Build(palettes[0])
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
