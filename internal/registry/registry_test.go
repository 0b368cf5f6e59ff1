package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dshills/phpreflect/internal/builtin"
	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/internal/stream"
	"github.com/dshills/phpreflect/pkg/types"
)

func testCatalog(t *testing.T) *builtin.Catalog {
	t.Helper()
	catalog, err := builtin.NewCatalog(
		[]builtin.ClassInfo{
			{Name: "Throwable", Kind: "interface", Extension: "Core"},
			{Name: "Exception", Interfaces: []string{"Throwable"}, Extension: "Core"},
			{Name: "LegacyBase", UserDefined: true},
		},
		[]builtin.FunctionInfo{
			{Name: "strlen", Parameters: []string{"string"}, Extension: "Core"},
		},
		[]builtin.ConstantInfo{
			{Name: "E_ALL", Value: "32767", Extension: "Core"},
		},
	)
	require.NoError(t, err)
	return catalog
}

// source builds an in-memory token stream labelled name
func source(t *testing.T, name, code string) *stream.TokenStream {
	t.Helper()
	ts, err := stream.FromString(code, name)
	require.NoError(t, err)
	return ts
}

func fileDecl(name string, namespaces ...types.NamespaceDecl) *types.FileDecl {
	return &types.FileDecl{FileName: name, Namespaces: namespaces}
}

type RegistryTestSuite struct {
	suite.Suite
	reg *Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.reg = New(WithPlatform(testCatalog(s.T())), WithStoreTokenStreams(true))
}

func (s *RegistryTestSuite) add(name string, namespaces ...types.NamespaceDecl) error {
	return s.reg.AddFile(source(s.T(), name, "<?php\n"), fileDecl(name, namespaces...))
}

func (s *RegistryTestSuite) TestUndeclaredParentIsNonexistent() {
	err := s.add("/src/a.php", types.NamespaceDecl{
		Classes: []types.ClassDecl{{Name: "A", Kind: types.KindClass, Parent: "B"}},
	})
	s.Require().NoError(err)

	a := s.reg.GetClass("A")
	s.True(a.IsTokenized())
	s.False(a.IsComplete())

	b := s.reg.GetClass("B")
	s.IsType(&reflection.DummyClass{}, b)
	s.False(s.reg.HasClass("B"))

	nonexistent := s.reg.GetClasses(NonexistentClasses)
	s.Require().Len(nonexistent, 1)
	s.Equal("B", nonexistent[0].Name())
	s.Empty(s.reg.GetClasses(InternalClasses))
}

func (s *RegistryTestSuite) TestInternalAncestors() {
	err := s.add("/src/err.php", types.NamespaceDecl{
		Name:    "App",
		Classes: []types.ClassDecl{{Name: "Failure", Namespace: "App", Kind: types.KindClass, Parent: `\Exception`}},
	})
	s.Require().NoError(err)

	failure := s.reg.GetClass(`App\Failure`)
	s.True(failure.IsComplete())
	s.True(failure.ImplementsInterface("Throwable"))

	internal := s.reg.GetClasses(InternalClasses)
	var names []string
	for _, c := range internal {
		names = append(names, c.Name())
		s.True(c.IsInternal())
	}
	s.Equal([]string{"Exception", "Throwable"}, names)
}

func (s *RegistryTestSuite) TestDuplicateClassAcrossFiles() {
	decl := types.NamespaceDecl{Classes: []types.ClassDecl{{Name: "C", Kind: types.KindClass}}}
	s.Require().NoError(s.add("/src/one.php", decl))

	err := s.add("/src/two.php", decl)
	s.Require().Error(err)
	s.True(errors.Is(err, types.ErrFileProcessing))
	s.True(errors.Is(err, types.ErrAlreadyExists))

	var fpe *types.FileProcessingError
	s.Require().True(errors.As(err, &fpe))
	s.Equal("/src/two.php", fpe.FileName)
	s.Len(fpe.Reasons, 1)

	c := s.reg.GetClass("C")
	s.False(c.IsValid())
	s.GreaterOrEqual(len(c.Reasons()), 1)
	s.True(s.reg.IsFileProcessed("/src/one.php"))
	s.True(s.reg.IsFileProcessed("/src/two.php"))

	// a third copy extends the existing invalid entry
	s.Require().Error(s.add("/src/three.php", decl))
	s.Len(s.reg.GetClass("C").Reasons(), 2)
}

func (s *RegistryTestSuite) TestAddFileTwiceIsIdempotent() {
	decl := types.NamespaceDecl{
		Classes:   []types.ClassDecl{{Name: "C", Kind: types.KindClass}},
		Functions: []types.FunctionDecl{{Name: "helper"}},
	}
	s.Require().NoError(s.add("/src/a.php", decl))
	s.Require().NoError(s.add("/src/a.php", decl))

	c := s.reg.GetClass("C")
	s.True(c.IsValid())
	s.Empty(c.Reasons())
	s.Equal([]string{"/src/a.php"}, s.reg.Files())
	s.Len(s.reg.GetFunctions(), 1)
}

func (s *RegistryTestSuite) TestPartialMergeOnConflict() {
	s.Require().NoError(s.add("/src/one.php", types.NamespaceDecl{
		Functions: []types.FunctionDecl{{Name: "helper"}},
	}))

	err := s.add("/src/two.php", types.NamespaceDecl{
		Functions: []types.FunctionDecl{{Name: "helper"}, {Name: "other"}},
		Constants: []types.ConstantDecl{{Name: ""}},
	})
	s.Require().Error(err)
	s.True(errors.Is(err, types.ErrInvalidArgument))

	var fpe *types.FileProcessingError
	s.Require().True(errors.As(err, &fpe))
	s.Len(fpe.Reasons, 2)

	other, err := s.reg.GetFunction("other")
	s.Require().NoError(err)
	s.True(other.IsValid())

	helper, err := s.reg.GetFunction("helper")
	s.Require().NoError(err)
	s.False(helper.IsValid())
}

func (s *RegistryTestSuite) TestBuiltinFallbacks() {
	fn, err := s.reg.GetFunction("strlen")
	s.Require().NoError(err)
	s.True(fn.IsInternal())
	s.False(fn.IsTokenized())

	fn, err = s.reg.GetFunction(`\strlen`)
	s.Require().NoError(err)
	s.Equal("strlen", fn.Name())

	_, err = s.reg.GetFunction("no_such_function")
	s.True(errors.Is(err, types.ErrNotFound))

	c, err := s.reg.GetConstant("E_ALL")
	s.Require().NoError(err)
	s.True(c.IsInternal())
	s.Equal("32767", c.ValueDefinition())

	_, err = s.reg.GetConstant("NO_SUCH_CONSTANT")
	s.True(errors.Is(err, types.ErrNotFound))

	exception := s.reg.GetClass("exception")
	s.True(exception.IsInternal())
	s.IsType(&reflection.BuiltinClass{}, exception)
}

func (s *RegistryTestSuite) TestUserDefinedCatalogEntryIsDummy() {
	c := s.reg.GetClass("LegacyBase")
	s.IsType(&reflection.DummyClass{}, c)
	s.False(c.IsInternal())
}

func (s *RegistryTestSuite) TestClassConstants() {
	err := s.add("/src/a.php", types.NamespaceDecl{
		Name: "App",
		Classes: []types.ClassDecl{{
			Name:      "A",
			Namespace: "App",
			Kind:      types.KindClass,
			Constants: []types.ConstantDecl{{Name: "X", Value: "1"}},
		}},
	})
	s.Require().NoError(err)

	s.True(s.reg.HasConstant(`App\A::X`))
	s.False(s.reg.HasConstant(`App\A::Y`))

	c, err := s.reg.GetConstant(`\App\A::X`)
	s.Require().NoError(err)
	s.Equal("X", c.Name())
	s.Equal(`App\A`, c.DeclaringClassName())
	v, ok := c.Value()
	s.True(ok)
	s.Equal(int64(1), v)

	_, err = s.reg.GetConstant(`App\A::Y`)
	s.True(errors.Is(err, types.ErrNotFound))

	_, err = s.reg.GetConstant("::X")
	s.True(errors.Is(err, types.ErrInvalidArgument))
}

func (s *RegistryTestSuite) TestFunctionsKeyedByQualifiedName() {
	s.Require().NoError(s.add("/src/one.php", types.NamespaceDecl{
		Name:      "One",
		Functions: []types.FunctionDecl{{Name: "f", Namespace: "One"}},
		Constants: []types.ConstantDecl{{Name: "C", Namespace: "One", Value: "1"}},
	}))
	s.Require().NoError(s.add("/src/two.php", types.NamespaceDecl{
		Name:      "Two",
		Functions: []types.FunctionDecl{{Name: "f", Namespace: "Two"}},
		Constants: []types.ConstantDecl{{Name: "C", Namespace: "Two", Value: "2"}},
	}))

	functions := s.reg.GetFunctions()
	s.Require().Len(functions, 2)
	s.Equal(`One\f`, functions[0].Name())
	s.Equal(`Two\f`, functions[1].Name())

	constants := s.reg.GetConstants()
	s.Require().Len(constants, 2)
	s.Equal(`One\C`, constants[0].Name())
	s.Equal(`Two\C`, constants[1].Name())

	s.True(s.reg.HasFunction(`Two\f`))
	s.False(s.reg.HasFunction("f"))
}

func (s *RegistryTestSuite) TestClassMaskPartitions() {
	s.Require().NoError(s.add("/src/a.php", types.NamespaceDecl{
		Classes: []types.ClassDecl{
			{Name: "A", Kind: types.KindClass, Parent: "Missing", Interfaces: []string{"Throwable"}},
			{Name: "B", Kind: types.KindClass, Parent: "A"},
			{Name: "E", Kind: types.KindClass, Parent: "Exception"},
		},
	}))

	tokenized := s.reg.GetClasses(TokenizedClasses)
	internal := s.reg.GetClasses(InternalClasses)
	nonexistent := s.reg.GetClasses(NonexistentClasses)
	all := s.reg.GetClasses(AllClasses)

	s.Len(tokenized, 3)
	s.Len(internal, 2)
	s.Len(nonexistent, 1)
	s.Len(all, len(tokenized)+len(internal)+len(nonexistent))

	mixed := s.reg.GetClasses(TokenizedClasses | NonexistentClasses)
	s.Len(mixed, 4)
	s.Empty(s.reg.GetClasses(0))
}

func (s *RegistryTestSuite) TestCachesInvalidatedByAddFile() {
	s.Require().NoError(s.add("/src/a.php", types.NamespaceDecl{
		Classes:   []types.ClassDecl{{Name: "A", Kind: types.KindClass}},
		Functions: []types.FunctionDecl{{Name: "fa"}},
	}))
	s.Len(s.reg.GetClasses(TokenizedClasses), 1)
	s.Len(s.reg.GetFunctions(), 1)

	s.Require().NoError(s.add("/src/b.php", types.NamespaceDecl{
		Classes:   []types.ClassDecl{{Name: "B", Kind: types.KindClass}},
		Functions: []types.FunctionDecl{{Name: "fb"}},
	}))
	s.Len(s.reg.GetClasses(TokenizedClasses), 2)
	s.Len(s.reg.GetFunctions(), 2)
}

func (s *RegistryTestSuite) TestNamespaces() {
	s.True(s.reg.HasNamespace(""))
	s.True(s.reg.HasNamespace(types.NoNamespace))
	s.False(s.reg.HasNamespace("App"))

	_, err := s.reg.GetNamespace("App")
	s.True(errors.Is(err, types.ErrNotFound))

	s.Require().NoError(s.add("/src/a.php", types.NamespaceDecl{
		Name:    "App",
		Classes: []types.ClassDecl{{Name: "A", Namespace: "App", Kind: types.KindClass}},
	}))

	s.True(s.reg.HasNamespace("App"))
	s.True(s.reg.HasNamespace(`\App`))

	ns, err := s.reg.GetNamespace(`\App`)
	s.Require().NoError(err)
	s.Equal("App", ns.Name())
	s.True(ns.HasClass("A"))

	var names []string
	for _, ns := range s.reg.Namespaces() {
		names = append(names, ns.Name())
	}
	s.Equal([]string{"App", types.NoNamespace}, names)
}

func (s *RegistryTestSuite) TestAddFileRequiresStream() {
	err := s.reg.AddFile(nil, fileDecl("x.php"))
	s.True(errors.Is(err, types.ErrInvalidArgument))

	err = s.reg.AddFile(source(s.T(), "x.php", "<?php"), nil)
	s.True(errors.Is(err, types.ErrInvalidArgument))
	s.Empty(s.reg.Files())
}

func (s *RegistryTestSuite) TestGetFileTokensUnknown() {
	_, err := s.reg.GetFileTokens("/src/never.php")
	s.True(errors.Is(err, types.ErrNotFound))
}

func (s *RegistryTestSuite) TestWarmBuildsCaches() {
	s.Require().NoError(s.add("/src/w.php", types.NamespaceDecl{
		Name:      "App",
		Classes:   []types.ClassDecl{{Name: "W", Namespace: "App", Kind: types.KindClass, Parent: "Exception"}},
		Functions: []types.FunctionDecl{{Name: "f", Namespace: "App"}},
	}))

	s.reg.Warm()
	s.NotNil(s.reg.allClasses)
	s.NotNil(s.reg.allFunctions)
	s.NotNil(s.reg.allConstants)
	s.Contains(s.reg.namespaces, types.NoNamespace)
	s.Len(s.reg.GetClasses(InternalClasses), 2)
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func TestRegistry_TokenStreamRetention(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.php")
	code := "<?php\nclass D\n{\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))

	ts, err := stream.FromFile(path)
	require.NoError(t, err)
	last := ts.Len() - 1
	decl := fileDecl(ts.FileName(), types.NamespaceDecl{
		Classes: []types.ClassDecl{{
			Name: "D",
			Kind: types.KindClass,
			Span: types.Span{StartLine: 2, EndLine: 4, StartToken: 1, EndToken: last},
		}},
	})

	for _, store := range []bool{true, false} {
		reg := New(WithPlatform(testCatalog(t)), WithStoreTokenStreams(store))
		assert.Equal(t, store, reg.StoringTokenStreams())
		require.NoError(t, reg.AddFile(ts, decl))

		assert.True(t, reg.IsFileProcessed(path))
		assert.Equal(t, []string{ts.FileName()}, reg.Files())

		got, err := reg.GetFileTokens(path)
		require.NoError(t, err)
		assert.Equal(t, ts.Tokens(), got.Tokens())
		if store {
			assert.Same(t, ts, got)
		} else {
			assert.NotSame(t, ts, got)
		}

		src, err := reg.GetClass("D").Source()
		require.NoError(t, err)
		assert.Equal(t, ts.SourcePart(1, last), src)
	}
}

func TestRegistry_SetStoreTokenStreams(t *testing.T) {
	reg := New()
	assert.False(t, reg.StoringTokenStreams())
	reg.SetStoreTokenStreams(true)
	assert.True(t, reg.StoringTokenStreams())
}
