package builtin

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Platform answers which symbols the host runtime declares natively
type Platform interface {
	Class(name string) (*ClassInfo, bool)
	Function(name string) (*FunctionInfo, bool)
	Constant(name string) (*ConstantInfo, bool)
}

// ClassInfo describes a class, interface or trait known to the runtime
type ClassInfo struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"` // class (default), interface or trait
	Parent     string         `yaml:"parent"`
	Interfaces []string       `yaml:"interfaces"`
	Abstract   bool           `yaml:"abstract"`
	Final      bool           `yaml:"final"`
	Constants  []ConstantInfo `yaml:"constants"`
	Methods    []string       `yaml:"methods"`
	Extension  string         `yaml:"extension"`

	// UserDefined marks a name the runtime knows without declaring it
	// natively, such as a class loaded by an extension from PHP source
	UserDefined bool `yaml:"user_defined"`
}

// IsInterface returns true for interfaces
func (c *ClassInfo) IsInterface() bool {
	return c.Kind == "interface"
}

// IsTrait returns true for traits
func (c *ClassInfo) IsTrait() bool {
	return c.Kind == "trait"
}

// FunctionInfo describes a function known to the runtime
type FunctionInfo struct {
	Name             string   `yaml:"name"`
	Parameters       []string `yaml:"parameters"`
	ReturnsReference bool     `yaml:"returns_reference"`
	Extension        string   `yaml:"extension"`
	UserDefined      bool     `yaml:"user_defined"`
}

// ConstantInfo describes a constant known to the runtime. Value is a PHP
// literal expression.
type ConstantInfo struct {
	Name      string `yaml:"name"`
	Value     string `yaml:"value"`
	Extension string `yaml:"extension"`
}

type catalogFile struct {
	Classes   []ClassInfo    `yaml:"classes"`
	Functions []FunctionInfo `yaml:"functions"`
	Constants []ConstantInfo `yaml:"constants"`
}

// Catalog is an immutable Platform built from a symbol list
type Catalog struct {
	classes   map[string]*ClassInfo
	functions map[string]*FunctionInfo
	constants map[string]*ConstantInfo
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog of the PHP runtime. It is built once per
// process and shared by every registry.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("builtin: invalid embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from its YAML form
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(file.Classes, file.Functions, file.Constants)
}

// NewCatalog builds a catalog from explicit entries
func NewCatalog(classes []ClassInfo, functions []FunctionInfo, constants []ConstantInfo) (*Catalog, error) {
	c := &Catalog{
		classes:   make(map[string]*ClassInfo, len(classes)),
		functions: make(map[string]*FunctionInfo, len(functions)),
		constants: make(map[string]*ConstantInfo, len(constants)),
	}

	for i := range classes {
		info := classes[i]
		if info.Name == "" {
			return nil, fmt.Errorf("class %d: name is required", i)
		}
		switch info.Kind {
		case "":
			info.Kind = "class"
		case "class", "interface", "trait":
		default:
			return nil, fmt.Errorf("class %s: invalid kind %q", info.Name, info.Kind)
		}
		key := strings.ToLower(info.Name)
		if _, exists := c.classes[key]; exists {
			return nil, fmt.Errorf("class %s: declared twice", info.Name)
		}
		c.classes[key] = &info
	}

	for i := range functions {
		info := functions[i]
		if info.Name == "" {
			return nil, fmt.Errorf("function %d: name is required", i)
		}
		key := strings.ToLower(info.Name)
		if _, exists := c.functions[key]; exists {
			return nil, fmt.Errorf("function %s: declared twice", info.Name)
		}
		c.functions[key] = &info
	}

	for i := range constants {
		info := constants[i]
		if info.Name == "" {
			return nil, fmt.Errorf("constant %d: name is required", i)
		}
		if _, exists := c.constants[info.Name]; exists {
			return nil, fmt.Errorf("constant %s: declared twice", info.Name)
		}
		c.constants[info.Name] = &info
	}

	return c, nil
}

// Class looks up a class by case-insensitive name. A leading namespace
// separator is ignored.
func (c *Catalog) Class(name string) (*ClassInfo, bool) {
	info, ok := c.classes[strings.ToLower(strings.TrimLeft(name, `\`))]
	return info, ok
}

// Function looks up a function by case-insensitive name
func (c *Catalog) Function(name string) (*FunctionInfo, bool) {
	info, ok := c.functions[strings.ToLower(strings.TrimLeft(name, `\`))]
	return info, ok
}

// Constant looks up a constant by exact name
func (c *Catalog) Constant(name string) (*ConstantInfo, bool) {
	info, ok := c.constants[strings.TrimLeft(name, `\`)]
	return info, ok
}

// ClassNames returns the declared class names in sorted order
func (c *Catalog) ClassNames() []string {
	names := make([]string, 0, len(c.classes))
	for _, info := range c.classes {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names
}

// FunctionNames returns the declared function names in sorted order
func (c *Catalog) FunctionNames() []string {
	names := make([]string, 0, len(c.functions))
	for _, info := range c.functions {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names
}

// ConstantNames returns the declared constant names in sorted order
func (c *Catalog) ConstantNames() []string {
	names := make([]string, 0, len(c.constants))
	for name := range c.constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
