// Package stream provides the navigable token stream of one PHP source unit.
//
// A TokenStream is built once from source text and never changes afterwards.
// It carries a cursor used by declaration scanners:
//
//	ts, err := stream.FromFile("src/User.php")
//	if err != nil {
//	    return err
//	}
//	if ts.Find(lexer.TokenClass) {
//	    ts.SkipWhitespaces(true) // on the class name
//	}
//
// # Construction
//
// Line endings are normalized to LF before tokenizing. The soft keywords
// trait, __TRAIT__, insteadof and callable are promoted from T_STRING to
// their own kinds, and single-character tokens receive the line of the
// previous token plus the newlines it contains.
//
// # Brackets
//
// FindMatchingBracket moves from an opener to its closer. The curly family
// includes the { opener as well as the T_CURLY_OPEN and
// T_DOLLAR_OPEN_CURLY_BRACES interpolation openers.
//
// # Persistence
//
// Serialize and Deserialize round-trip the record
// ["fileName", [[kind, "text", line], ...]] as JSON.
package stream
