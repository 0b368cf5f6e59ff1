// Package reflection models the symbols held by the registry.
//
// Every class lookup yields a Class, whatever the registry knows about the
// name:
//
//   - TokenizedClass: declared in analyzed source
//   - BuiltinClass: declared natively by the runtime
//   - DummyClass: referenced but unknown (valid, incomplete)
//   - InvalidClass: declared more than once (invalid, carries Reasons)
//
// Functions and constants follow the same pattern without the dummy
// variant. Symbols hold a non-owning Resolver back to their registry, used to
// resolve parents and interfaces by name and to re-read source tokens.
//
//	class := reg.GetClass(`App\User`)
//	if !class.IsValid() {
//	    for _, reason := range class.Reasons() {
//	        log.Println(reason)
//	    }
//	}
//	for _, parent := range class.ParentClasses() {
//	    fmt.Println(parent.Name(), parent.IsInternal())
//	}
package reflection
