package registry

import (
	"fmt"

	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/pkg/types"
)

// Namespace holds the classes, functions and constants declared in one
// namespace, keyed by short name. It performs no fallback lookups.
type Namespace struct {
	name      string
	resolver  reflection.Resolver
	classes   map[string]reflection.Class
	functions map[string]reflection.Function
	constants map[string]reflection.Constant
}

// NewNamespace creates an empty table. resolver is handed to every symbol
// built from declarations.
func NewNamespace(name string, resolver reflection.Resolver) *Namespace {
	return &Namespace{
		name:      name,
		resolver:  resolver,
		classes:   make(map[string]reflection.Class),
		functions: make(map[string]reflection.Function),
		constants: make(map[string]reflection.Constant),
	}
}

// Name returns the namespace name, types.NoNamespace for the top level
func (n *Namespace) Name() string {
	return n.name
}

// HasClass reports whether the namespace declares the class short name
func (n *Namespace) HasClass(name string) bool {
	_, ok := n.classes[name]
	return ok
}

// GetClass returns the class declared under short name, or types.ErrNotFound
func (n *Namespace) GetClass(name string) (reflection.Class, error) {
	if c, ok := n.classes[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: class %s in namespace %s", types.ErrNotFound, name, n.name)
}

// HasFunction reports whether the namespace declares the function short name
func (n *Namespace) HasFunction(name string) bool {
	_, ok := n.functions[name]
	return ok
}

// GetFunction returns the function declared under short name, or types.ErrNotFound
func (n *Namespace) GetFunction(name string) (reflection.Function, error) {
	if f, ok := n.functions[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: function %s in namespace %s", types.ErrNotFound, name, n.name)
}

// HasConstant reports whether the namespace declares the constant short name
func (n *Namespace) HasConstant(name string) bool {
	_, ok := n.constants[name]
	return ok
}

// GetConstant returns the constant declared under short name, or types.ErrNotFound
func (n *Namespace) GetConstant(name string) (reflection.Constant, error) {
	if c, ok := n.constants[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: constant %s in namespace %s", types.ErrNotFound, name, n.name)
}

// GetClasses returns a copy of the local class map
func (n *Namespace) GetClasses() map[string]reflection.Class {
	out := make(map[string]reflection.Class, len(n.classes))
	for k, v := range n.classes {
		out[k] = v
	}
	return out
}

// GetFunctions returns a copy of the local function map
func (n *Namespace) GetFunctions() map[string]reflection.Function {
	out := make(map[string]reflection.Function, len(n.functions))
	for k, v := range n.functions {
		out[k] = v
	}
	return out
}

// GetConstants returns a copy of the local constant map
func (n *Namespace) GetConstants() map[string]reflection.Constant {
	out := make(map[string]reflection.Constant, len(n.constants))
	for k, v := range n.constants {
		out[k] = v
	}
	return out
}

// AddClass inserts class under its short name. When the name is taken the
// slot becomes an InvalidClass and the returned DuplicateError describes
// the conflict; the table stays usable either way.
func (n *Namespace) AddClass(class reflection.Class) error {
	short := class.ShortName()
	existing, ok := n.classes[short]
	if !ok {
		n.classes[short] = class
		return nil
	}

	dup := &types.DuplicateError{
		Kind:             types.KindClass,
		Name:             class.Name(),
		FileName:         class.FileName(),
		PreviousFileName: existing.FileName(),
	}

	invalid, isInvalid := existing.(*reflection.InvalidClass)
	if !isInvalid {
		invalid = reflection.NewInvalidClass(class.Name(), existing.FileName())
	}
	invalid = invalid.WithReason(dup)
	for _, reason := range class.Reasons() {
		invalid = invalid.WithReason(reason)
	}
	n.classes[short] = invalid
	return dup
}

// AddFunction inserts fn under its short name with the AddClass merge policy
func (n *Namespace) AddFunction(fn reflection.Function) error {
	short := fn.ShortName()
	existing, ok := n.functions[short]
	if !ok {
		n.functions[short] = fn
		return nil
	}

	dup := &types.DuplicateError{
		Kind:             types.KindFunction,
		Name:             fn.Name(),
		FileName:         fn.FileName(),
		PreviousFileName: existing.FileName(),
	}

	invalid, isInvalid := existing.(*reflection.InvalidFunction)
	if !isInvalid {
		invalid = reflection.NewInvalidFunction(fn.Name(), existing.FileName())
	}
	invalid = invalid.WithReason(dup)
	for _, reason := range fn.Reasons() {
		invalid = invalid.WithReason(reason)
	}
	n.functions[short] = invalid
	return dup
}

// AddConstant inserts constant under its short name with the AddClass merge policy
func (n *Namespace) AddConstant(constant reflection.Constant) error {
	short := constant.ShortName()
	existing, ok := n.constants[short]
	if !ok {
		n.constants[short] = constant
		return nil
	}

	dup := &types.DuplicateError{
		Kind:             types.KindConstant,
		Name:             constant.Name(),
		FileName:         constant.FileName(),
		PreviousFileName: existing.FileName(),
	}

	invalid, isInvalid := existing.(*reflection.InvalidConstant)
	if !isInvalid {
		invalid = reflection.NewInvalidConstant(constant.Name(), existing.FileName())
	}
	invalid = invalid.WithReason(dup)
	for _, reason := range constant.Reasons() {
		invalid = invalid.WithReason(reason)
	}
	n.constants[short] = invalid
	return dup
}

// AddFileNamespace merges one file's declarations for this namespace. Every
// conflict or malformed declaration is returned; the rest is registered.
func (n *Namespace) AddFileNamespace(decl types.NamespaceDecl, fileName string) []error {
	var errs []error

	for _, cd := range decl.Classes {
		if err := cd.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: class %s: %v", types.ErrInvalidArgument, cd.FQN(), err))
			continue
		}
		if err := n.AddClass(reflection.NewTokenizedClass(cd, fileName, n.resolver)); err != nil {
			errs = append(errs, err)
		}
	}

	for _, fd := range decl.Functions {
		if err := fd.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: function %s: %v", types.ErrInvalidArgument, fd.FQN(), err))
			continue
		}
		if err := n.AddFunction(reflection.NewTokenizedFunction(fd, fileName, n.resolver)); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cd := range decl.Constants {
		if err := cd.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: constant %s: %v", types.ErrInvalidArgument, cd.FQN(), err))
			continue
		}
		if err := n.AddConstant(reflection.NewTokenizedConstant(cd, fileName, n.resolver)); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
