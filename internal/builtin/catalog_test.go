package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Same(t, c, Default())

	fn, ok := c.Function("strlen")
	require.True(t, ok)
	assert.Equal(t, []string{"string"}, fn.Parameters)

	_, ok = c.Function(`\STRLEN`)
	assert.True(t, ok)

	exc, ok := c.Class("exception")
	require.True(t, ok)
	assert.Equal(t, "Exception", exc.Name)
	assert.Equal(t, "class", exc.Kind)
	assert.Contains(t, exc.Interfaces, "Throwable")

	iface, ok := c.Class("Traversable")
	require.True(t, ok)
	assert.True(t, iface.IsInterface())

	eol, ok := c.Constant("PHP_EOL")
	require.True(t, ok)
	assert.Equal(t, `"\n"`, eol.Value)

	_, ok = c.Constant("php_eol")
	assert.False(t, ok, "constants are case-sensitive")

	_, ok = c.Class("NoSuchClass")
	assert.False(t, ok)
}

func TestDefault_ReferencesResolve(t *testing.T) {
	c := Default()
	for _, name := range c.ClassNames() {
		info, ok := c.Class(name)
		require.True(t, ok)
		if info.Parent != "" {
			_, ok := c.Class(info.Parent)
			assert.True(t, ok, "%s: unknown parent %s", name, info.Parent)
		}
		for _, iface := range info.Interfaces {
			ref, ok := c.Class(iface)
			if assert.True(t, ok, "%s: unknown interface %s", name, iface) {
				assert.True(t, ref.IsInterface(), "%s: %s is not an interface", name, iface)
			}
		}
	}
}

func TestDefault_Names(t *testing.T) {
	c := Default()

	assert.IsIncreasing(t, c.ClassNames())
	assert.Contains(t, c.FunctionNames(), "array_map")
	assert.Contains(t, c.ConstantNames(), "E_ALL")
}

func TestParse(t *testing.T) {
	data := []byte(`
classes:
  - name: Foo
    kind: trait
  - name: Bar
    user_defined: true
functions:
  - name: baz
    returns_reference: true
constants:
  - name: QUX
    value: "42"
`)

	c, err := Parse(data)
	require.NoError(t, err)

	foo, ok := c.Class("foo")
	require.True(t, ok)
	assert.True(t, foo.IsTrait())

	bar, ok := c.Class("Bar")
	require.True(t, ok)
	assert.True(t, bar.UserDefined)
	assert.Equal(t, "class", bar.Kind)

	baz, ok := c.Function("baz")
	require.True(t, ok)
	assert.True(t, baz.ReturnsReference)

	qux, ok := c.Constant("QUX")
	require.True(t, ok)
	assert.Equal(t, "42", qux.Value)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("classes: [: bad"))
	assert.Error(t, err)
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name      string
		classes   []ClassInfo
		functions []FunctionInfo
		constants []ConstantInfo
	}{
		{name: "class without name", classes: []ClassInfo{{}}},
		{name: "invalid kind", classes: []ClassInfo{{Name: "A", Kind: "enumeration"}}},
		{name: "duplicate class", classes: []ClassInfo{{Name: "A"}, {Name: "a"}}},
		{name: "function without name", functions: []FunctionInfo{{}}},
		{name: "duplicate function", functions: []FunctionInfo{{Name: "f"}, {Name: "F"}}},
		{name: "constant without name", constants: []ConstantInfo{{}}},
		{name: "duplicate constant", constants: []ConstantInfo{{Name: "C"}, {Name: "C"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.classes, tt.functions, tt.constants)
			assert.Error(t, err)
		})
	}
}

func TestNewCatalog_ConstantsAreCaseSensitive(t *testing.T) {
	c, err := NewCatalog(nil, nil, []ConstantInfo{{Name: "A", Value: "1"}, {Name: "a", Value: "2"}})
	require.NoError(t, err)

	upper, ok := c.Constant("A")
	require.True(t, ok)
	lower, ok := c.Constant("a")
	require.True(t, ok)
	assert.NotEqual(t, upper.Value, lower.Value)
}
