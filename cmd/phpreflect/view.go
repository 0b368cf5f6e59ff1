package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/phpreflect/internal/reflection"
)

type location struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

func (l location) String() string {
	if l.File == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d-%d", l.File, l.StartLine, l.EndLine)
}

type classView struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Partition  string   `json:"partition"`
	Valid      bool     `json:"valid"`
	Complete   bool     `json:"complete"`
	Abstract   bool     `json:"abstract"`
	Final      bool     `json:"final"`
	Location   location `json:"location"`
	Parent     string   `json:"parent,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
	Traits     []string `json:"traits,omitempty"`
	Constants  []string `json:"constants,omitempty"`
	Methods    []string `json:"methods,omitempty"`
	DocComment string   `json:"doc_comment,omitempty"`
	Source     string   `json:"source,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
}

func newClassView(c reflection.Class) classView {
	kind := "class"
	if c.IsInterface() {
		kind = "interface"
	} else if c.IsTrait() {
		kind = "trait"
	}
	return classView{
		Name:       c.Name(),
		Kind:       kind,
		Partition:  reflection.Partition(c),
		Valid:      c.IsValid(),
		Complete:   c.IsComplete(),
		Abstract:   c.IsAbstract(),
		Final:      c.IsFinal(),
		Location:   location{c.FileName(), c.StartLine(), c.EndLine()},
		Parent:     c.ParentClassName(),
		Interfaces: c.InterfaceNames(),
		Traits:     c.TraitNames(),
		Constants:  c.ConstantNames(),
		Methods:    c.MethodNames(),
		DocComment: c.DocComment(),
		Reasons:    errorStrings(c.Reasons()),
	}
}

func (v classView) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s (%s, %s)\n", v.Name, v.Kind, v.Partition)
	field(w, "location", v.Location.String())
	field(w, "parent", v.Parent)
	field(w, "interfaces", strings.Join(v.Interfaces, ", "))
	field(w, "traits", strings.Join(v.Traits, ", "))
	field(w, "constants", strings.Join(v.Constants, ", "))
	field(w, "methods", strings.Join(v.Methods, ", "))
	for _, reason := range v.Reasons {
		field(w, "error", reason)
	}
	if v.Source != "" {
		fmt.Fprintf(w, "\n%s\n", v.Source)
	}
}

type functionView struct {
	Name             string   `json:"name"`
	Internal         bool     `json:"internal"`
	Valid            bool     `json:"valid"`
	Location         location `json:"location"`
	Parameters       []string `json:"parameters"`
	ReturnsReference bool     `json:"returns_reference"`
	DocComment       string   `json:"doc_comment,omitempty"`
	Source           string   `json:"source,omitempty"`
	Reasons          []string `json:"reasons,omitempty"`
}

func newFunctionView(fn reflection.Function) functionView {
	return functionView{
		Name:             fn.Name(),
		Internal:         fn.IsInternal(),
		Valid:            fn.IsValid(),
		Location:         location{fn.FileName(), fn.StartLine(), fn.EndLine()},
		Parameters:       fn.Parameters(),
		ReturnsReference: fn.ReturnsReference(),
		DocComment:       fn.DocComment(),
		Reasons:          errorStrings(fn.Reasons()),
	}
}

func (v functionView) writeText(w io.Writer) {
	ref := ""
	if v.ReturnsReference {
		ref = "&"
	}
	fmt.Fprintf(w, "function %s%s(%s)\n", ref, v.Name, strings.Join(v.Parameters, ", "))
	field(w, "location", v.Location.String())
	if v.Internal {
		field(w, "internal", "yes")
	}
	for _, reason := range v.Reasons {
		field(w, "error", reason)
	}
	if v.Source != "" {
		fmt.Fprintf(w, "\n%s\n", v.Source)
	}
}

type constantView struct {
	Name            string   `json:"name"`
	DeclaringClass  string   `json:"declaring_class,omitempty"`
	Internal        bool     `json:"internal"`
	Valid           bool     `json:"valid"`
	Location        location `json:"location"`
	ValueDefinition string   `json:"value_definition"`
	Value           any      `json:"value,omitempty"`
	Reasons         []string `json:"reasons,omitempty"`
}

func newConstantView(c reflection.Constant) constantView {
	v := constantView{
		Name:            c.Name(),
		DeclaringClass:  c.DeclaringClassName(),
		Internal:        c.IsInternal(),
		Valid:           c.IsValid(),
		Location:        location{c.FileName(), c.StartLine(), c.EndLine()},
		ValueDefinition: c.ValueDefinition(),
		Reasons:         errorStrings(c.Reasons()),
	}
	if value, ok := c.Value(); ok {
		v.Value = value
	}
	return v
}

func (v constantView) writeText(w io.Writer) {
	fmt.Fprintf(w, "const %s = %s\n", v.Name, v.ValueDefinition)
	field(w, "location", v.Location.String())
	if v.Value != nil {
		field(w, "value", fmt.Sprintf("%#v", v.Value))
	}
	for _, reason := range v.Reasons {
		field(w, "error", reason)
	}
}

// field prints one indented label/value line, skipping empty values
func field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-11s %s\n", label+":", value)
}

func errorStrings(errs []error) []string {
	var out []string
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
