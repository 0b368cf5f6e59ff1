package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/pkg/types"
)

func TestNamespace_AddAndGet(t *testing.T) {
	ns := NewNamespace("App", nil)
	assert.Equal(t, "App", ns.Name())

	class := reflection.NewTokenizedClass(types.ClassDecl{Name: "User", Namespace: "App", Kind: types.KindClass}, "/src/User.php", nil)
	require.NoError(t, ns.AddClass(class))
	assert.True(t, ns.HasClass("User"))
	assert.False(t, ns.HasClass("user"))

	got, err := ns.GetClass("User")
	require.NoError(t, err)
	assert.Same(t, class, got)

	_, err = ns.GetClass("Missing")
	assert.True(t, errors.Is(err, types.ErrNotFound))
	_, err = ns.GetFunction("missing")
	assert.True(t, errors.Is(err, types.ErrNotFound))
	_, err = ns.GetConstant("MISSING")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestNamespace_DuplicatesBecomeInvalid(t *testing.T) {
	ns := NewNamespace(types.NoNamespace, nil)
	first := reflection.NewTokenizedFunction(types.FunctionDecl{Name: "run"}, "/src/a.php", nil)
	second := reflection.NewTokenizedFunction(types.FunctionDecl{Name: "run"}, "/src/b.php", nil)

	require.NoError(t, ns.AddFunction(first))
	err := ns.AddFunction(second)
	require.Error(t, err)

	var dup *types.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, types.KindFunction, dup.Kind)
	assert.Equal(t, "run", dup.Name)
	assert.Equal(t, "/src/b.php", dup.FileName)
	assert.Equal(t, "/src/a.php", dup.PreviousFileName)
	assert.True(t, errors.Is(err, types.ErrAlreadyExists))

	fn, err := ns.GetFunction("run")
	require.NoError(t, err)
	assert.IsType(t, &reflection.InvalidFunction{}, fn)
	assert.False(t, fn.IsValid())
	assert.Len(t, fn.Reasons(), 1)
}

func TestNamespace_DuplicateConstant(t *testing.T) {
	ns := NewNamespace("Config", nil)
	decl := types.ConstantDecl{Name: "LIMIT", Namespace: "Config", Value: "10"}
	require.NoError(t, ns.AddConstant(reflection.NewTokenizedConstant(decl, "/a.php", nil)))
	require.Error(t, ns.AddConstant(reflection.NewTokenizedConstant(decl, "/b.php", nil)))

	c, err := ns.GetConstant("LIMIT")
	require.NoError(t, err)
	assert.False(t, c.IsValid())
	assert.Equal(t, `Config\LIMIT`, c.Name())
}

func TestNamespace_MapsAreCopies(t *testing.T) {
	ns := NewNamespace("App", nil)
	errs := ns.AddFileNamespace(types.NamespaceDecl{
		Name:      "App",
		Classes:   []types.ClassDecl{{Name: "A", Namespace: "App", Kind: types.KindClass}},
		Functions: []types.FunctionDecl{{Name: "f", Namespace: "App"}},
		Constants: []types.ConstantDecl{{Name: "C", Namespace: "App", Value: "1"}},
	}, "/src/a.php")
	require.Empty(t, errs)

	classes := ns.GetClasses()
	delete(classes, "A")
	assert.True(t, ns.HasClass("A"))

	functions := ns.GetFunctions()
	delete(functions, "f")
	assert.True(t, ns.HasFunction("f"))

	constants := ns.GetConstants()
	delete(constants, "C")
	assert.True(t, ns.HasConstant("C"))
}

func TestNamespace_AddFileNamespaceRejectsMalformed(t *testing.T) {
	ns := NewNamespace("App", nil)
	errs := ns.AddFileNamespace(types.NamespaceDecl{
		Classes: []types.ClassDecl{
			{Name: "Bad", Kind: "enum"},
			{Name: "Good", Namespace: "App", Kind: types.KindClass},
		},
	}, "/src/a.php")

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], types.ErrInvalidArgument))
	assert.False(t, ns.HasClass("Bad"))
	assert.True(t, ns.HasClass("Good"))
}
