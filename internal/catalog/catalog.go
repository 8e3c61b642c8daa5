// Package catalog holds the subsidy definitions an analysis runs against.
//
// A Catalog is immutable once built. The builtin 2026 catalog is compiled
// into the binary; an external JSON file may override it, and a file that
// fails validation never replaces a working catalog.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"subsidyopt/internal/calc"
	"subsidyopt/internal/models"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.json
var builtinJSON []byte

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrNotFound       = errors.New("subsidy not found")
)

const builtinSuffix = "-builtin"

// Source names the publisher of the catalog data.
type Source struct {
	Name      string   `json:"name"`
	Documents []string `json:"documents,omitempty"`
}

// File is the on-disk catalog format.
type File struct {
	Version     string                     `json:"version"`
	LastUpdated string                     `json:"last_updated"`
	Source      Source                     `json:"source"`
	Subsidies   []models.SubsidyDefinition `json:"subsidies"`
}

// Catalog is a validated, read-only list of subsidy definitions.
type Catalog struct {
	file     File
	byID     map[string]int
	external bool
	path     string
	loadedAt time.Time
}

// VersionInfo describes where the active catalog came from.
type VersionInfo struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"last_updated"`
	Source      Source    `json:"source"`
	IsExternal  bool      `json:"is_external"`
	Path        string    `json:"path,omitempty"`
	LoadedAt    time.Time `json:"loaded_at"`
	Count       int       `json:"count"`
}

// Parse decodes and validates catalog JSON. A catalog must carry a non-empty
// subsidies list with unique, non-empty ids.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f)
}

// New validates f and builds a Catalog from it.
func New(f File) (*Catalog, error) {
	if len(f.Subsidies) == 0 {
		return nil, fmt.Errorf("%w: no subsidies", ErrInvalidCatalog)
	}
	byID := make(map[string]int, len(f.Subsidies))
	for i, s := range f.Subsidies {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: subsidy %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, s.ID)
		}
		byID[s.ID] = i
	}
	return &Catalog{file: f, byID: byID, loadedAt: time.Now().UTC()}, nil
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		c, err := Parse(builtinJSON)
		if err != nil {
			panic("catalog: builtin data is invalid: " + err.Error())
		}
		c.file.Version += builtinSuffix
		builtin = c
	})
	return builtin
}

// LoadFile reads and validates an external catalog file. Files ending in
// .yaml or .yml are read as YAML with the same field names.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if isYAML(path) {
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	c.external = true
	c.path = path
	return c, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return out, nil
}

// Load returns the catalog at path, or fallback when the file is missing or
// invalid. A nil fallback means the builtin catalog. The returned error
// explains why the fallback was used and is nil when path loaded.
func Load(path string, fallback *Catalog) (*Catalog, error) {
	if fallback == nil {
		fallback = Builtin()
	}
	if path == "" {
		return fallback, nil
	}
	c, err := LoadFile(path)
	if err != nil {
		return fallback, err
	}
	return c, nil
}

// Subsidies returns the definitions in catalog order. The slice is a copy;
// the definitions themselves must be treated as read-only.
func (c *Catalog) Subsidies() []models.SubsidyDefinition {
	out := make([]models.SubsidyDefinition, len(c.file.Subsidies))
	copy(out, c.file.Subsidies)
	return out
}

func (c *Catalog) Version() string { return c.file.Version }

func (c *Catalog) Len() int { return len(c.file.Subsidies) }

// IsExternal reports whether the catalog came from a file rather than the binary.
func (c *Catalog) IsExternal() bool { return c.external }

func (c *Catalog) Info() VersionInfo {
	return VersionInfo{
		Version:     c.file.Version,
		LastUpdated: c.file.LastUpdated,
		Source:      c.file.Source,
		IsExternal:  c.external,
		Path:        c.path,
		LoadedAt:    c.loadedAt,
		Count:       len(c.file.Subsidies),
	}
}

// ByID returns the definition with the given id.
func (c *Catalog) ByID(id string) (models.SubsidyDefinition, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.SubsidyDefinition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.file.Subsidies[i], nil
}

func (c *Catalog) ByCategory(category string) []models.SubsidyDefinition {
	return c.filter(func(s models.SubsidyDefinition) bool { return s.Category == category })
}

func (c *Catalog) ByTargetType(t models.TargetType) []models.SubsidyDefinition {
	return c.filter(func(s models.SubsidyDefinition) bool { return s.TargetType == t })
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range c.file.Subsidies {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

func (c *Catalog) filter(keep func(models.SubsidyDefinition) bool) []models.SubsidyDefinition {
	out := []models.SubsidyDefinition{}
	for _, s := range c.file.Subsidies {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Fault is a calculation descriptor that cannot be evaluated.
type Fault struct {
	SubsidyID string `json:"subsidy_id"`
	Type      string `json:"type"`
	Error     string `json:"error"`
}

// Audit decodes every calculation descriptor and lists the ones that fail.
// Faulty entries still load; they evaluate to zero at analysis time.
func (c *Catalog) Audit() []Fault {
	var out []Fault
	for _, s := range c.file.Subsidies {
		if _, err := calc.Decode(s.Calculation); err != nil {
			out = append(out, Fault{SubsidyID: s.ID, Type: s.Calculation.Type, Error: err.Error()})
		}
	}
	return out
}

// Marshal encodes the catalog in its file format.
func (c *Catalog) Marshal() ([]byte, error) {
	return json.MarshalIndent(c.file, "", "  ")
}
