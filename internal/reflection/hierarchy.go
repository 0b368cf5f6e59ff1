package reflection

import (
	"strings"

	"github.com/dshills/phpreflect/pkg/types"
)

func trimName(name string) string {
	return strings.TrimLeft(name, `\`)
}

// namespaceOf returns the namespace part of an FQN, "" for the top level
func namespaceOf(fqn string) string {
	ns, _ := types.SplitName(fqn)
	if ns == types.NoNamespace {
		return ""
	}
	return ns
}

func shortNameOf(fqn string) string {
	_, short := types.SplitName(fqn)
	return short
}

func resolve(r Resolver, name string) Class {
	name = trimName(name)
	if r == nil {
		return NewDummyClass(name)
	}
	return r.GetClass(name)
}

func resolveAll(r Resolver, names []string) []Class {
	out := make([]Class, 0, len(names))
	for _, name := range names {
		out = append(out, resolve(r, name))
	}
	return out
}

func classNames(classes []Class) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Name())
	}
	return out
}

// parentChain resolves the ancestors of c, nearest first. Each name is
// visited once so inheritance cycles terminate.
func parentChain(c Class, r Resolver) []Class {
	var chain []Class
	seen := map[string]bool{strings.ToLower(c.Name()): true}
	for name := c.ParentClassName(); name != ""; {
		key := strings.ToLower(trimName(name))
		if seen[key] {
			break
		}
		seen[key] = true

		parent := resolve(r, name)
		chain = append(chain, parent)
		name = parent.ParentClassName()
	}
	return chain
}

// interfaceNames collects the interfaces of c, its parent interfaces and
// those of its ancestors, in discovery order
func interfaceNames(c Class, r Resolver) []string {
	var out []string
	have := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(Class)
	walk = func(cls Class) {
		key := strings.ToLower(cls.Name())
		if visited[key] {
			return
		}
		visited[key] = true

		for _, name := range cls.OwnInterfaceNames() {
			name = trimName(name)
			if k := strings.ToLower(name); !have[k] {
				have[k] = true
				out = append(out, name)
			}
			walk(resolve(r, name))
		}
		if parent := cls.ParentClassName(); parent != "" {
			walk(resolve(r, parent))
		}
	}
	walk(c)
	return out
}

func implementsInterface(c Class, name string) bool {
	name = trimName(name)
	if c.IsInterface() && strings.EqualFold(c.Name(), name) {
		return true
	}
	for _, iface := range c.InterfaceNames() {
		if strings.EqualFold(iface, name) {
			return true
		}
	}
	return false
}

func isSubclassOf(c Class, name string) bool {
	name = trimName(name)
	if strings.EqualFold(c.Name(), name) {
		return false
	}
	for _, parent := range c.ParentClassNames() {
		if strings.EqualFold(parent, name) {
			return true
		}
	}
	return c.ImplementsInterface(name)
}

// isComplete reports whether every ancestor and interface of c resolves to
// a tokenized or internal class
func isComplete(c Class) bool {
	for _, related := range append(c.ParentClasses(), c.Interfaces()...) {
		if !related.IsTokenized() && !related.IsInternal() {
			return false
		}
	}
	return true
}

// lineage is c followed by its ancestors and all its interfaces
func lineage(c Class) []Class {
	out := []Class{c}
	out = append(out, c.ParentClasses()...)
	return append(out, c.Interfaces()...)
}

func findConstant(c Class, name string) (Constant, bool) {
	for _, cls := range lineage(c) {
		if m, ok := cls.(members); ok {
			if constant, ok := m.ownConstant(name); ok {
				return constant, true
			}
		}
	}
	return nil, false
}

func constantNames(c Class) []string {
	var out []string
	have := make(map[string]bool)
	for _, cls := range lineage(c) {
		m, ok := cls.(members)
		if !ok {
			continue
		}
		for _, name := range m.ownConstantNames() {
			if !have[name] {
				have[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Method names are case-insensitive
func hasMethod(c Class, name string) bool {
	for _, method := range methodNames(c) {
		if strings.EqualFold(method, name) {
			return true
		}
	}
	return false
}

func methodNames(c Class) []string {
	var out []string
	have := make(map[string]bool)
	for _, cls := range lineage(c) {
		m, ok := cls.(members)
		if !ok {
			continue
		}
		for _, name := range m.ownMethodNames() {
			if k := strings.ToLower(name); !have[k] {
				have[k] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyErrors(in []error) []error {
	if len(in) == 0 {
		return nil
	}
	out := make([]error, len(in))
	copy(out, in)
	return out
}
