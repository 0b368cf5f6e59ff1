package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dshills/phpreflect/internal/builtin"
	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/internal/stream"
	"github.com/dshills/phpreflect/pkg/types"
)

var log = commonlog.GetLogger("phpreflect.registry")

// ClassMask selects class partitions in GetClasses
type ClassMask int

const (
	// TokenizedClasses are classes declared in analyzed source
	TokenizedClasses ClassMask = 1 << iota
	// InternalClasses are runtime classes referenced as ancestors or interfaces
	InternalClasses
	// NonexistentClasses are referenced classes that are neither declared nor internal
	NonexistentClasses

	AllClasses = TokenizedClasses | InternalClasses | NonexistentClasses
)

type classLists struct {
	tokenized   map[string]reflection.Class
	internal    map[string]reflection.Class
	nonexistent map[string]reflection.Class
}

// Registry is the in-memory database of every namespace, symbol and file
// processed in one analysis session. It is not safe for concurrent use:
// AddFile must not run alongside reads or another AddFile.
type Registry struct {
	platform          builtin.Platform
	storeTokenStreams bool

	namespaces map[string]*Namespace
	// files maps canonical paths to their token streams; a nil stream marks
	// a processed file whose tokens were not retained
	files map[string]*stream.TokenStream

	// Caches, nil until the first read after AddFile
	allClasses   *classLists
	allFunctions map[string]reflection.Function
	allConstants map[string]reflection.Constant
}

// Option configures a Registry
type Option func(*Registry)

// WithPlatform replaces the runtime catalog used for builtin fallbacks
func WithPlatform(p builtin.Platform) Option {
	return func(r *Registry) {
		r.platform = p
	}
}

// WithStoreTokenStreams controls whether AddFile retains token streams.
// Without retention GetFileTokens re-reads the file from disk.
func WithStoreTokenStreams(store bool) Option {
	return func(r *Registry) {
		r.storeTokenStreams = store
	}
}

// New creates an empty registry backed by the default runtime catalog
func New(opts ...Option) *Registry {
	r := &Registry{
		namespaces: make(map[string]*Namespace),
		files:      make(map[string]*stream.TokenStream),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.platform == nil {
		r.platform = builtin.Default()
	}
	return r
}

// SetStoreTokenStreams toggles token stream retention for files added later
func (r *Registry) SetStoreTokenStreams(store bool) {
	r.storeTokenStreams = store
}

// StoringTokenStreams reports whether AddFile retains token streams
func (r *Registry) StoringTokenStreams() bool {
	return r.storeTokenStreams
}

// normalizeNamespace strips leading separators; "" names the top level
func normalizeNamespace(name string) string {
	name = strings.TrimLeft(name, `\`)
	if name == "" {
		return types.NoNamespace
	}
	return name
}

// rootNamespace returns the top-level table, creating it on first touch
func (r *Registry) rootNamespace() *Namespace {
	ns, ok := r.namespaces[types.NoNamespace]
	if !ok {
		ns = NewNamespace(types.NoNamespace, r)
		r.namespaces[types.NoNamespace] = ns
	}
	return ns
}

// lookupNamespace finds a table without creating non-root namespaces
func (r *Registry) lookupNamespace(name string) (*Namespace, bool) {
	name = normalizeNamespace(name)
	if name == types.NoNamespace {
		return r.rootNamespace(), true
	}
	ns, ok := r.namespaces[name]
	return ns, ok
}

// HasNamespace reports whether a namespace has been declared. The top-level
// namespace always exists.
func (r *Registry) HasNamespace(name string) bool {
	_, ok := r.lookupNamespace(name)
	return ok
}

// GetNamespace returns the table of a declared namespace
func (r *Registry) GetNamespace(name string) (*Namespace, error) {
	ns, ok := r.lookupNamespace(name)
	if !ok {
		return nil, fmt.Errorf("%w: namespace %s", types.ErrNotFound, normalizeNamespace(name))
	}
	return ns, nil
}

// Namespaces returns every table sorted by name
func (r *Registry) Namespaces() []*Namespace {
	r.rootNamespace()
	out := make([]*Namespace, 0, len(r.namespaces))
	for _, ns := range r.namespaces {
		out = append(out, ns)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// HasClass reports whether a class is declared in analyzed source
func (r *Registry) HasClass(name string) bool {
	namespace, short := types.SplitName(name)
	ns, ok := r.lookupNamespace(namespace)
	return ok && ns.HasClass(short)
}

// GetClass resolves a class name. It never fails: undeclared names yield a
// BuiltinClass when the runtime declares the class natively and a
// DummyClass otherwise.
func (r *Registry) GetClass(name string) reflection.Class {
	name = strings.TrimLeft(name, `\`)
	namespace, short := types.SplitName(name)
	if ns, ok := r.lookupNamespace(namespace); ok {
		if c, err := ns.GetClass(short); err == nil {
			return c
		}
	}

	if info, ok := r.platform.Class(name); ok {
		if c := reflection.NewBuiltinClass(info, r); c.IsInternal() {
			return c
		}
	}
	return reflection.NewDummyClass(name)
}

// HasFunction reports whether a function is declared in analyzed source
func (r *Registry) HasFunction(name string) bool {
	namespace, short := types.SplitName(name)
	ns, ok := r.lookupNamespace(namespace)
	return ok && ns.HasFunction(short)
}

// GetFunction resolves a function name, falling back to runtime functions
func (r *Registry) GetFunction(name string) (reflection.Function, error) {
	name = strings.TrimLeft(name, `\`)
	namespace, short := types.SplitName(name)
	if ns, ok := r.lookupNamespace(namespace); ok {
		if f, err := ns.GetFunction(short); err == nil {
			return f, nil
		}
	}

	if info, ok := r.platform.Function(name); ok {
		return reflection.NewBuiltinFunction(info), nil
	}
	return nil, fmt.Errorf("%w: function %s", types.ErrNotFound, name)
}

// splitClassConstant splits Class::NAME
func splitClassConstant(name string) (class, constant string, ok bool) {
	i := strings.Index(name, "::")
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+2:], true
}

// HasConstant reports whether a constant is declared in analyzed source.
// Class constants use the Class::NAME form.
func (r *Registry) HasConstant(name string) bool {
	if class, constant, ok := splitClassConstant(name); ok {
		return r.GetClass(class).HasConstant(constant)
	}
	namespace, short := types.SplitName(name)
	ns, ok := r.lookupNamespace(namespace)
	return ok && ns.HasConstant(short)
}

// GetConstant resolves Class::NAME through the class and plain names
// through the namespace, then the runtime constants by exact name
func (r *Registry) GetConstant(name string) (reflection.Constant, error) {
	name = strings.TrimLeft(name, `\`)
	if class, constant, ok := splitClassConstant(name); ok {
		if class == "" || constant == "" {
			return nil, fmt.Errorf("%w: malformed class constant %q", types.ErrInvalidArgument, name)
		}
		return r.GetClass(class).Constant(constant)
	}

	namespace, short := types.SplitName(name)
	if ns, ok := r.lookupNamespace(namespace); ok {
		if c, err := ns.GetConstant(short); err == nil {
			return c, nil
		}
	}

	if info, ok := r.platform.Constant(name); ok {
		return reflection.NewBuiltinConstant(info, ""), nil
	}
	return nil, fmt.Errorf("%w: constant %s", types.ErrNotFound, name)
}

// GetClasses returns the classes of the selected partitions sorted by name.
// The partitions are disjoint.
func (r *Registry) GetClasses(mask ClassMask) []reflection.Class {
	lists := r.classLists()

	var out []reflection.Class
	if mask&TokenizedClasses != 0 {
		out = appendClasses(out, lists.tokenized)
	}
	if mask&InternalClasses != 0 {
		out = appendClasses(out, lists.internal)
	}
	if mask&NonexistentClasses != 0 {
		out = appendClasses(out, lists.nonexistent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func appendClasses(out []reflection.Class, classes map[string]reflection.Class) []reflection.Class {
	for _, c := range classes {
		out = append(out, c)
	}
	return out
}

func (r *Registry) classLists() *classLists {
	if r.allClasses != nil {
		return r.allClasses
	}

	lists := &classLists{
		tokenized:   make(map[string]reflection.Class),
		internal:    make(map[string]reflection.Class),
		nonexistent: make(map[string]reflection.Class),
	}
	for _, ns := range r.namespaces {
		for _, c := range ns.classes {
			lists.tokenized[c.Name()] = c
		}
	}

	for _, c := range lists.tokenized {
		related := append(c.ParentClassNames(), c.InterfaceNames()...)
		for _, name := range related {
			if _, ok := lists.tokenized[name]; ok {
				continue
			}
			ref := r.GetClass(name)
			switch {
			case ref.IsInternal():
				lists.internal[ref.Name()] = ref
			case !ref.IsTokenized():
				lists.nonexistent[ref.Name()] = ref
			}
		}
	}

	log.Debugf("built class lists: %d tokenized, %d internal, %d nonexistent",
		len(lists.tokenized), len(lists.internal), len(lists.nonexistent))
	r.allClasses = lists
	return lists
}

// GetFunctions returns every tokenized function sorted by FQN
func (r *Registry) GetFunctions() []reflection.Function {
	if r.allFunctions == nil {
		r.allFunctions = make(map[string]reflection.Function)
		for _, ns := range r.namespaces {
			for _, f := range ns.functions {
				r.allFunctions[f.Name()] = f
			}
		}
	}

	out := make([]reflection.Function, 0, len(r.allFunctions))
	for _, f := range r.allFunctions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// GetConstants returns every tokenized namespace constant sorted by FQN
func (r *Registry) GetConstants() []reflection.Constant {
	if r.allConstants == nil {
		r.allConstants = make(map[string]reflection.Constant)
		for _, ns := range r.namespaces {
			for _, c := range ns.constants {
				r.allConstants[c.Name()] = c
			}
		}
	}

	out := make([]reflection.Constant, 0, len(r.allConstants))
	for _, c := range r.allConstants {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// fileKey canonicalizes path, falling back to the cleaned path for labels
// that do not exist on disk
func fileKey(path string) string {
	if canonical, err := stream.CanonicalPath(path); err == nil {
		return canonical
	}
	return filepath.Clean(path)
}

// AddFile registers a processed file and merges its declarations. Conflicts
// do not stop the merge: every non-conflicting symbol is registered and the
// conflicts are returned together as a *types.FileProcessingError.
// Adding a file that was already processed is a no-op.
func (r *Registry) AddFile(ts *stream.TokenStream, file *types.FileDecl) error {
	if ts == nil || file == nil {
		return fmt.Errorf("%w: token stream and declarations are required", types.ErrInvalidArgument)
	}

	key := fileKey(ts.FileName())
	if _, ok := r.files[key]; ok {
		log.Debugf("skipping %s: already processed", key)
		return nil
	}
	if r.storeTokenStreams {
		r.files[key] = ts
	} else {
		r.files[key] = nil
	}

	var reasons []error
	for _, decl := range file.Namespaces {
		name := normalizeNamespace(decl.Name)
		ns, ok := r.namespaces[name]
		if !ok {
			ns = NewNamespace(name, r)
			r.namespaces[name] = ns
		}
		reasons = append(reasons, ns.AddFileNamespace(decl, key)...)
	}

	r.allClasses = nil
	r.allFunctions = nil
	r.allConstants = nil

	if len(reasons) > 0 {
		log.Warningf("%d conflict(s) while processing %s", len(reasons), key)
		return &types.FileProcessingError{FileName: key, Reasons: reasons}
	}
	log.Debugf("processed %s: %d symbol(s)", key, file.SymbolCount())
	return nil
}

// IsFileProcessed reports whether AddFile has seen path
func (r *Registry) IsFileProcessed(path string) bool {
	_, ok := r.files[fileKey(path)]
	return ok
}

// GetFileTokens returns the token stream of a processed file, re-reading it
// from disk when it was not retained
func (r *Registry) GetFileTokens(path string) (*stream.TokenStream, error) {
	key := fileKey(path)
	ts, ok := r.files[key]
	if !ok {
		return nil, fmt.Errorf("%w: file %s was not processed", types.ErrNotFound, path)
	}
	if ts != nil {
		return ts, nil
	}
	return stream.FromFile(key)
}

// FileTokens implements reflection.Resolver
func (r *Registry) FileTokens(path string) (*stream.TokenStream, error) {
	return r.GetFileTokens(path)
}

// Files returns the keys of every processed file in sorted order
func (r *Registry) Files() []string {
	out := make([]string, 0, len(r.files))
	for path := range r.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Warm builds the top-level table and every aggregate cache. Once warmed,
// reads do not mutate the registry and may run concurrently until the next
// AddFile.
func (r *Registry) Warm() {
	r.rootNamespace()
	r.classLists()
	r.GetFunctions()
	r.GetConstants()
}
