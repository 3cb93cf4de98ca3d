// Package config resolves the run settings from defaults, the environment,
// an optional YAML layout file and command line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"roomviz/internal/palette"
)

type Sort string

const (
	SortDocument Sort = "document"
	SortPrice    Sort = "price"
	SortName     Sort = "name"
)

func (s Sort) Valid() bool {
	switch s {
	case SortDocument, SortPrice, SortName:
		return true
	default:
		return false
	}
}

// Next cycles document -> price -> name -> document.
func (s Sort) Next() Sort {
	switch s {
	case SortDocument:
		return SortPrice
	case SortPrice:
		return SortName
	default:
		return SortDocument
	}
}

// Layout is the part of the configuration a YAML file may set.
type Layout struct {
	ContentWidth  float64    `yaml:"content_width"`
	ColorDomain   [2]float64 `yaml:"color_domain"`
	Palette       []string   `yaml:"palette"`
	PaletteSteps  int        `yaml:"palette_steps"`
	MissingColor  string     `yaml:"missing_color"`
	HistogramSort Sort       `yaml:"histogram_sort"`
	PNG           bool       `yaml:"png"`
	PNGScale      float64    `yaml:"png_scale"`
}

type Config struct {
	Source      string
	Out         string
	LogLevel    string
	Addr        string
	CORSOrigins []string

	Layout
}

const (
	DefaultSource = "public/post_resources/room_prices_vancouver"
	DefaultOut    = "out"
	DefaultAddr   = ":8080"
	DefaultWidth  = 1140
)

func Default() Config {
	return Config{
		Source:      DefaultSource,
		Out:         DefaultOut,
		LogLevel:    "info",
		Addr:        DefaultAddr,
		CORSOrigins: []string{"*"},
		Layout: Layout{
			ContentWidth:  DefaultWidth,
			ColorDomain:   [2]float64{400, 800},
			Palette:       append([]string(nil), palette.Greens9...),
			MissingColor:  palette.Missing,
			HistogramSort: SortDocument,
			PNGScale:      1,
		},
	}
}

// FromEnv applies the ROOMVIZ_* variables over c.
func FromEnv(c Config) Config {
	c.Source = envOr("ROOMVIZ_SOURCE", c.Source)
	c.Out = envOr("ROOMVIZ_OUT", c.Out)
	c.LogLevel = envOr("ROOMVIZ_LOG_LEVEL", c.LogLevel)
	c.Addr = envOr("ROOMVIZ_ADDR", c.Addr)
	c.CORSOrigins = csvOr("ROOMVIZ_CORS_ORIGINS", strings.Join(c.CORSOrigins, ","))
	c.ContentWidth = envFloat("ROOMVIZ_WIDTH", c.ContentWidth)
	c.PNG = envBool("ROOMVIZ_PNG", c.PNG)
	return c
}

// LoadFile applies the layout file at path over c. An empty path is a no-op.
func LoadFile(c Config, path string) (Config, error) {
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("error reading config file: %w", err)
	}
	layout := c.Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return c, fmt.Errorf("error parsing config file: %w", err)
	}
	c.Layout = layout
	return c, nil
}

// Flags registers the command line overrides on fs.
func (c *Config) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.Source, "source", c.Source, "directory or http(s) base URL of the post resources")
	fs.StringVar(&c.Out, "out", c.Out, "output directory")
	fs.Float64Var(&c.ContentWidth, "width", c.ContentWidth, "content width in pixels")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.PNG, "png", c.PNG, "also write a PNG snapshot of every chart")
	fs.Func("sort", "histogram order: document, price or name", func(s string) error {
		sort := Sort(strings.ToLower(s))
		if !sort.Valid() {
			return fmt.Errorf("unknown sort %q", s)
		}
		c.HistogramSort = sort
		return nil
	})
}

// Validate checks the settings and normalizes the palette. A palette of one
// name is replaced by the named ramp; a palette of two colours with
// palette_steps set is interpolated into that many colours.
func (c *Config) Validate() error {
	var errs []error
	if c.Source == "" {
		errs = append(errs, errors.New("source is empty"))
	}
	if c.ContentWidth <= 0 {
		errs = append(errs, fmt.Errorf("content width must be positive, got %v", c.ContentWidth))
	}
	if c.ColorDomain[0] >= c.ColorDomain[1] {
		errs = append(errs, fmt.Errorf("invalid colour domain %v", c.ColorDomain))
	}
	if len(c.Palette) == 1 {
		if list, ok := palette.Lookup(strings.ToLower(c.Palette[0])); ok {
			c.Palette = list
		}
	}
	if c.PaletteSteps > 2 && len(c.Palette) == 2 {
		if list, err := palette.Interpolate(c.Palette[0], c.Palette[1], c.PaletteSteps); err == nil {
			c.Palette = list
		}
	}
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette is empty"))
	} else if list, err := palette.Parse(c.Palette); err != nil {
		errs = append(errs, err)
	} else {
		c.Palette = list
	}
	if _, err := palette.Parse([]string{c.MissingColor}); err != nil {
		errs = append(errs, fmt.Errorf("missing colour: %w", err))
	}
	if c.HistogramSort == "" {
		c.HistogramSort = SortDocument
	}
	if !c.HistogramSort.Valid() {
		errs = append(errs, fmt.Errorf("unknown histogram sort %q", c.HistogramSort))
	}
	if c.PNGScale <= 0 {
		c.PNGScale = 1
	}
	return errors.Join(errs...)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
