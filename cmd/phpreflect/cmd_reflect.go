package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/phpreflect/internal/reflection"
	"github.com/dshills/phpreflect/internal/registry"
)

func newClassCmd() *cobra.Command {
	var withSource bool

	cmd := &cobra.Command{
		Use:   "class <dir> <name>",
		Short: "Reflect a class, interface or trait",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			class := reg.GetClass(args[1])
			view := newClassView(class)
			if withSource {
				source, err := class.Source()
				if err != nil {
					return fmt.Errorf("source of %s: %w", class.Name(), err)
				}
				view.Source = source
			}
			return output(view, view.writeText)
		},
	}

	cmd.Flags().BoolVar(&withSource, "source", false, "print the declaration source")

	return cmd
}

func newFunctionCmd() *cobra.Command {
	var withSource bool

	cmd := &cobra.Command{
		Use:   "function <dir> <name>",
		Short: "Reflect a function",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fn, err := reg.GetFunction(args[1])
			if err != nil {
				return err
			}
			view := newFunctionView(fn)
			if withSource {
				source, err := fn.Source()
				if err != nil {
					return fmt.Errorf("source of %s: %w", fn.Name(), err)
				}
				view.Source = source
			}
			return output(view, view.writeText)
		},
	}

	cmd.Flags().BoolVar(&withSource, "source", false, "print the declaration source")

	return cmd
}

func newConstantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constant <dir> <name>",
		Short: "Reflect a constant (NAME or Class::NAME)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			constant, err := reg.GetConstant(args[1])
			if err != nil {
				return err
			}
			view := newConstantView(constant)
			return output(view, view.writeText)
		},
	}

	return cmd
}

type namespaceView struct {
	Name      string `json:"name"`
	Classes   int    `json:"classes"`
	Functions int    `json:"functions"`
	Constants int    `json:"constants"`
}

func newNamespacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "namespaces <dir>",
		Short: "List namespaces with symbol counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var views []namespaceView
			for _, ns := range reg.Namespaces() {
				views = append(views, namespaceView{
					Name:      ns.Name(),
					Classes:   len(ns.GetClasses()),
					Functions: len(ns.GetFunctions()),
					Constants: len(ns.GetConstants()),
				})
			}

			return output(views, func(w io.Writer) {
				for _, v := range views {
					fmt.Fprintf(w, "%-40s %4d classes %4d functions %4d constants\n",
						v.Name, v.Classes, v.Functions, v.Constants)
				}
			})
		},
	}

	return cmd
}

type classEntry struct {
	Name      string `json:"name"`
	Partition string `json:"partition"`
}

func newClassesCmd() *cobra.Command {
	var tokenized, internal, nonexistent bool

	cmd := &cobra.Command{
		Use:   "classes <dir>",
		Short: "List classes by partition (all partitions when no flag is set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var mask registry.ClassMask
			if tokenized {
				mask |= registry.TokenizedClasses
			}
			if internal {
				mask |= registry.InternalClasses
			}
			if nonexistent {
				mask |= registry.NonexistentClasses
			}
			if mask == 0 {
				mask = registry.AllClasses
			}

			var entries []classEntry
			for _, c := range reg.GetClasses(mask) {
				entries = append(entries, classEntry{Name: c.Name(), Partition: reflection.Partition(c)})
			}

			return output(entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%-12s %s\n", e.Partition, e.Name)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&tokenized, "tokenized", false, "include classes declared in analyzed source")
	cmd.Flags().BoolVar(&internal, "internal", false, "include referenced runtime classes")
	cmd.Flags().BoolVar(&nonexistent, "nonexistent", false, "include referenced classes declared nowhere")

	return cmd
}
