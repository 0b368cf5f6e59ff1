package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/phpreflect/internal/stream"
	"github.com/dshills/phpreflect/pkg/types"
)

func parse(t *testing.T, source string) (*stream.TokenStream, *types.FileDecl) {
	t.Helper()
	ts, file, err := New().ParseSource(source, "test.php")
	require.NoError(t, err)
	return ts, file
}

func namespace(t *testing.T, file *types.FileDecl, name string) types.NamespaceDecl {
	t.Helper()
	for _, ns := range file.Namespaces {
		if ns.Name == name {
			return ns
		}
	}
	require.Failf(t, "namespace not found", "%q", name)
	return types.NamespaceDecl{}
}

func methodNames(c types.ClassDecl) []string {
	var names []string
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	return names
}

const modelSource = `<?php
namespace App\Model;

use App\Contracts\Entity;
use App\Support\{Timestamps, SoftDeletes as Deletes};
use function App\helper;

/**
 * A user.
 */
abstract class User extends Base implements Entity, \JsonSerializable
{
    use Timestamps, Deletes;

    const TABLE = 'users', LIMIT = 10;

    private $name;

    /** Returns the name. */
    public static function &find(int $id, array $opts = []) { return null; }

    abstract protected function label(): string;
}

interface Named extends Entity, \Countable
{
    public function name();
}

function helper($a, $b = array(1, 2)) {}

const VERSION = "1.0";
define('GLOBAL_FLAG', true);
`

func TestNew(t *testing.T) {
	p := New()
	assert.NotNil(t, p)
	assert.NotNil(t, p.tokenizer)
}

func TestParseStream_Classes(t *testing.T) {
	ts, file := parse(t, modelSource)
	assert.False(t, file.HasErrors(), "%v", file.Errors)
	require.Len(t, file.Namespaces, 2)

	ns := namespace(t, file, `App\Model`)
	require.Len(t, ns.Classes, 2)

	user := ns.Classes[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, `App\Model`, user.Namespace)
	assert.Equal(t, `App\Model\User`, user.FQN())
	assert.Equal(t, types.KindClass, user.Kind)
	assert.True(t, user.Modifiers.Has(types.ModifierAbstract))
	assert.Equal(t, "/**\n * A user.\n */", user.DocComment)
	assert.Equal(t, `App\Model\Base`, user.Parent)
	assert.Equal(t, []string{`App\Contracts\Entity`, "JsonSerializable"}, user.Interfaces)
	assert.Equal(t, []string{`App\Support\Timestamps`, `App\Support\SoftDeletes`}, user.Traits)
	assert.Equal(t, 11, user.StartLine)
	assert.Equal(t, 23, user.EndLine)

	src := ts.SourcePart(user.StartToken, user.EndToken)
	assert.True(t, strings.HasPrefix(src, "abstract class User"))
	assert.True(t, strings.HasSuffix(src, "}"))

	named := ns.Classes[1]
	assert.Equal(t, types.KindInterface, named.Kind)
	assert.Empty(t, named.Parent)
	assert.Equal(t, []string{`App\Contracts\Entity`, "Countable"}, named.Interfaces)
	require.Len(t, named.Methods, 1)
	assert.True(t, named.Methods[0].Modifiers.Has(types.ModifierAbstract))
}

func TestParseStream_Members(t *testing.T) {
	_, file := parse(t, modelSource)
	user := namespace(t, file, `App\Model`).Classes[0]

	require.Len(t, user.Constants, 2)
	assert.Equal(t, "TABLE", user.Constants[0].Name)
	assert.Equal(t, "'users'", user.Constants[0].Value)
	assert.Equal(t, "LIMIT", user.Constants[1].Name)
	assert.Equal(t, "10", user.Constants[1].Value)
	assert.Equal(t, `App\Model\User`, user.Constants[1].Class)

	assert.Equal(t, []string{"find", "label"}, methodNames(user))

	find := user.Methods[0]
	assert.Equal(t, `App\Model\User`, find.Class)
	assert.Equal(t, []string{"id", "opts"}, find.Parameters)
	assert.True(t, find.ReturnsReference)
	assert.True(t, find.Modifiers.Has(types.ModifierStatic|types.ModifierPublic))
	assert.Equal(t, "/** Returns the name. */", find.DocComment)
	assert.Equal(t, 20, find.StartLine)

	label := user.Methods[1]
	assert.True(t, label.Modifiers.Has(types.ModifierAbstract|types.ModifierProtected))
	assert.Empty(t, label.DocComment)
	assert.Empty(t, label.Parameters)
}

func TestParseStream_FunctionsAndConstants(t *testing.T) {
	_, file := parse(t, modelSource)
	ns := namespace(t, file, `App\Model`)

	require.Len(t, ns.Functions, 1)
	helper := ns.Functions[0]
	assert.Equal(t, `App\Model\helper`, helper.FQN())
	assert.Equal(t, []string{"a", "b"}, helper.Parameters)
	assert.Empty(t, helper.Class)

	require.Len(t, ns.Constants, 1)
	assert.Equal(t, `App\Model\VERSION`, ns.Constants[0].FQN())
	assert.Equal(t, `"1.0"`, ns.Constants[0].Value)

	global := namespace(t, file, "")
	require.Len(t, global.Constants, 1)
	assert.Equal(t, "GLOBAL_FLAG", global.Constants[0].Name)
	assert.Equal(t, "true", global.Constants[0].Value)
}

func TestParseStream_BracedNamespaces(t *testing.T) {
	_, file := parse(t, `<?php
namespace First {
    class A {}
}
namespace {
    class B extends First\A {}
    function g() {}
}
`)
	assert.False(t, file.HasErrors())

	first := namespace(t, file, "First")
	require.Len(t, first.Classes, 1)
	assert.Equal(t, `First\A`, first.Classes[0].FQN())

	global := namespace(t, file, "")
	require.Len(t, global.Classes, 1)
	assert.Equal(t, `First\A`, global.Classes[0].Parent)
	require.Len(t, global.Functions, 1)
	assert.Equal(t, "g", global.Functions[0].FQN())
}

func TestParseStream_NotDeclarations(t *testing.T) {
	_, file := parse(t, `<?php
$f = function ($x) use ($y) { return function() {}; };
$o = new class(1) extends Foo { public function m() {} };
$n = Foo::class;
$g = fn($z) => $z;
$obj->define('NOPE', 1);
if (!function_exists('cond')) {
    function cond() {}
}
enum Suit: string { case H = 'h'; public function label() {} }
`)
	assert.False(t, file.HasErrors(), "%v", file.Errors)

	global := namespace(t, file, "")
	assert.Empty(t, global.Classes)
	assert.Empty(t, global.Constants)
	require.Len(t, global.Functions, 1)
	assert.Equal(t, "cond", global.Functions[0].Name)
}

func TestParseStream_TypedClassConstants(t *testing.T) {
	_, file := parse(t, "<?php\nfinal class T { const int A = 1; public const string B = 'b' . 'c'; }\n")
	class := namespace(t, file, "").Classes[0]
	assert.True(t, class.Modifiers.Has(types.ModifierFinal))
	require.Len(t, class.Constants, 2)
	assert.Equal(t, "A", class.Constants[0].Name)
	assert.Equal(t, "B", class.Constants[1].Name)
	assert.Equal(t, "'b' . 'c'", class.Constants[1].Value)
}

func TestParseStream_KeywordNames(t *testing.T) {
	_, file := parse(t, "<?php namespace Foo\\List;\nclass Each { function list() {} }\n")
	ns := namespace(t, file, `Foo\List`)
	require.Len(t, ns.Classes, 1)
	assert.Equal(t, []string{"list"}, methodNames(ns.Classes[0]))
}

func TestParseStream_Traits(t *testing.T) {
	_, file := parse(t, `<?php
trait Greets { public function hello() {} }
class Greeter {
    use Greets, Other { Greets::hello insteadof Other; }
    public function run() {}
}
`)
	global := namespace(t, file, "")
	require.Len(t, global.Classes, 2)
	assert.Equal(t, types.KindTrait, global.Classes[0].Kind)
	assert.Equal(t, []string{"Greets", "Other"}, global.Classes[1].Traits)
	assert.Equal(t, []string{"run"}, methodNames(global.Classes[1]))
}

func TestParseStream_UnmatchedBraces(t *testing.T) {
	_, file := parse(t, "<?php\nclass Broken {\n    public function a() {\n")
	assert.True(t, file.HasErrors())
	assert.Equal(t, "test.php", file.Errors[0].File)

	global := namespace(t, file, "")
	require.Len(t, global.Classes, 1)
	assert.Equal(t, "Broken", global.Classes[0].Name)
	assert.Equal(t, []string{"a"}, methodNames(global.Classes[0]))
}

func TestParseStream_RewindsCursor(t *testing.T) {
	ts, err := stream.New(modelSource, "model.php")
	require.NoError(t, err)
	ts.Seek(5)

	file := New().ParseStream(ts)
	assert.Equal(t, "model.php", file.FileName)
	assert.Equal(t, 0, ts.Key())
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "User.php")
	require.NoError(t, os.WriteFile(testFile, []byte(modelSource), 0644))

	ts, file, err := New().ParseFile(testFile)
	require.NoError(t, err)

	canonical, err := stream.CanonicalPath(testFile)
	require.NoError(t, err)
	assert.Equal(t, canonical, ts.FileName())
	assert.Equal(t, canonical, file.FileName)
	assert.Equal(t, 5, file.SymbolCount())
}

func TestParseFile_NonExistentFile(t *testing.T) {
	_, _, err := New().ParseFile("/nonexistent/file.php")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestParseFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "empty.php")
	require.NoError(t, os.WriteFile(testFile, nil, 0644))

	_, file, err := New().ParseFile(testFile)
	require.NoError(t, err)
	assert.Empty(t, file.Namespaces)
	assert.False(t, file.HasErrors())
}
