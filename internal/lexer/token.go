package lexer

// TokenKind identifies the lexical category of a token. Values below
// firstNamedKind are single-character punctuation kinds whose value is the
// character itself.
type TokenKind int

const firstNamedKind = 256

const (
	TokenInlineHTML TokenKind = iota + firstNamedKind
	TokenOpenTag
	TokenOpenTagWithEcho
	TokenCloseTag
	TokenWhitespace
	TokenComment
	TokenDocComment
	TokenAttribute
	TokenBadCharacter

	// Names and literals
	TokenString
	TokenVariable
	TokenNsSeparator
	TokenLNumber
	TokenDNumber
	TokenConstantEncapsedString
	TokenEncapsedAndWhitespace
	TokenCurlyOpen
	TokenDollarOpenCurlyBraces
	TokenStringVarname
	TokenNumString
	TokenStartHeredoc
	TokenEndHeredoc

	// Keywords
	TokenAbstract
	TokenArray
	TokenAs
	TokenBreak
	TokenCase
	TokenCatch
	TokenClass
	TokenClone
	TokenConst
	TokenContinue
	TokenDeclare
	TokenDefault
	TokenDo
	TokenEcho
	TokenElse
	TokenElseif
	TokenEmpty
	TokenEnddeclare
	TokenEndfor
	TokenEndforeach
	TokenEndif
	TokenEndswitch
	TokenEndwhile
	TokenEval
	TokenExit
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFn
	TokenFor
	TokenForeach
	TokenFunction
	TokenGlobal
	TokenGoto
	TokenHaltCompiler
	TokenIf
	TokenImplements
	TokenInclude
	TokenIncludeOnce
	TokenInstanceof
	TokenInterface
	TokenIsset
	TokenList
	TokenLogicalAnd
	TokenLogicalOr
	TokenLogicalXor
	TokenMatch
	TokenNamespace
	TokenNew
	TokenPrint
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReadonly
	TokenRequire
	TokenRequireOnce
	TokenReturn
	TokenStatic
	TokenSwitch
	TokenThrow
	TokenTry
	TokenUnset
	TokenUse
	TokenVar
	TokenWhile
	TokenYield

	// Soft keywords, promoted from TokenString by the token stream
	TokenTrait
	TokenTraitC
	TokenInsteadof
	TokenCallable

	// Magic constants
	TokenClassC
	TokenDir
	TokenFile
	TokenFuncC
	TokenLine
	TokenMethodC
	TokenNsC

	// Casts
	TokenIntCast
	TokenDoubleCast
	TokenStringCast
	TokenArrayCast
	TokenObjectCast
	TokenBoolCast
	TokenUnsetCast

	// Operators
	TokenIsIdentical
	TokenIsNotIdentical
	TokenIsEqual
	TokenIsNotEqual
	TokenSpaceship
	TokenIsSmallerOrEqual
	TokenIsGreaterOrEqual
	TokenSl
	TokenSr
	TokenSlEqual
	TokenSrEqual
	TokenPow
	TokenPowEqual
	TokenInc
	TokenDec
	TokenPlusEqual
	TokenMinusEqual
	TokenMulEqual
	TokenDivEqual
	TokenConcatEqual
	TokenModEqual
	TokenAndEqual
	TokenOrEqual
	TokenXorEqual
	TokenCoalesce
	TokenCoalesceEqual
	TokenBooleanAnd
	TokenBooleanOr
	TokenObjectOperator
	TokenNullsafeObjectOperator
	TokenDoubleArrow
	TokenDoubleColon
	TokenEllipsis

	lastNamedKind
)

var tokenKindNames = map[TokenKind]string{
	TokenInlineHTML:             "T_INLINE_HTML",
	TokenOpenTag:                "T_OPEN_TAG",
	TokenOpenTagWithEcho:        "T_OPEN_TAG_WITH_ECHO",
	TokenCloseTag:               "T_CLOSE_TAG",
	TokenWhitespace:             "T_WHITESPACE",
	TokenComment:                "T_COMMENT",
	TokenDocComment:             "T_DOC_COMMENT",
	TokenAttribute:              "T_ATTRIBUTE",
	TokenBadCharacter:           "T_BAD_CHARACTER",
	TokenString:                 "T_STRING",
	TokenVariable:               "T_VARIABLE",
	TokenNsSeparator:            "T_NS_SEPARATOR",
	TokenLNumber:                "T_LNUMBER",
	TokenDNumber:                "T_DNUMBER",
	TokenConstantEncapsedString: "T_CONSTANT_ENCAPSED_STRING",
	TokenEncapsedAndWhitespace:  "T_ENCAPSED_AND_WHITESPACE",
	TokenCurlyOpen:              "T_CURLY_OPEN",
	TokenDollarOpenCurlyBraces:  "T_DOLLAR_OPEN_CURLY_BRACES",
	TokenStringVarname:          "T_STRING_VARNAME",
	TokenNumString:              "T_NUM_STRING",
	TokenStartHeredoc:           "T_START_HEREDOC",
	TokenEndHeredoc:             "T_END_HEREDOC",
	TokenAbstract:               "T_ABSTRACT",
	TokenArray:                  "T_ARRAY",
	TokenAs:                     "T_AS",
	TokenBreak:                  "T_BREAK",
	TokenCase:                   "T_CASE",
	TokenCatch:                  "T_CATCH",
	TokenClass:                  "T_CLASS",
	TokenClone:                  "T_CLONE",
	TokenConst:                  "T_CONST",
	TokenContinue:               "T_CONTINUE",
	TokenDeclare:                "T_DECLARE",
	TokenDefault:                "T_DEFAULT",
	TokenDo:                     "T_DO",
	TokenEcho:                   "T_ECHO",
	TokenElse:                   "T_ELSE",
	TokenElseif:                 "T_ELSEIF",
	TokenEmpty:                  "T_EMPTY",
	TokenEnddeclare:             "T_ENDDECLARE",
	TokenEndfor:                 "T_ENDFOR",
	TokenEndforeach:             "T_ENDFOREACH",
	TokenEndif:                  "T_ENDIF",
	TokenEndswitch:              "T_ENDSWITCH",
	TokenEndwhile:               "T_ENDWHILE",
	TokenEval:                   "T_EVAL",
	TokenExit:                   "T_EXIT",
	TokenExtends:                "T_EXTENDS",
	TokenFinal:                  "T_FINAL",
	TokenFinally:                "T_FINALLY",
	TokenFn:                     "T_FN",
	TokenFor:                    "T_FOR",
	TokenForeach:                "T_FOREACH",
	TokenFunction:               "T_FUNCTION",
	TokenGlobal:                 "T_GLOBAL",
	TokenGoto:                   "T_GOTO",
	TokenHaltCompiler:           "T_HALT_COMPILER",
	TokenIf:                     "T_IF",
	TokenImplements:             "T_IMPLEMENTS",
	TokenInclude:                "T_INCLUDE",
	TokenIncludeOnce:            "T_INCLUDE_ONCE",
	TokenInstanceof:             "T_INSTANCEOF",
	TokenInterface:              "T_INTERFACE",
	TokenIsset:                  "T_ISSET",
	TokenList:                   "T_LIST",
	TokenLogicalAnd:             "T_LOGICAL_AND",
	TokenLogicalOr:              "T_LOGICAL_OR",
	TokenLogicalXor:             "T_LOGICAL_XOR",
	TokenMatch:                  "T_MATCH",
	TokenNamespace:              "T_NAMESPACE",
	TokenNew:                    "T_NEW",
	TokenPrint:                  "T_PRINT",
	TokenPrivate:                "T_PRIVATE",
	TokenProtected:              "T_PROTECTED",
	TokenPublic:                 "T_PUBLIC",
	TokenReadonly:               "T_READONLY",
	TokenRequire:                "T_REQUIRE",
	TokenRequireOnce:            "T_REQUIRE_ONCE",
	TokenReturn:                 "T_RETURN",
	TokenStatic:                 "T_STATIC",
	TokenSwitch:                 "T_SWITCH",
	TokenThrow:                  "T_THROW",
	TokenTry:                    "T_TRY",
	TokenUnset:                  "T_UNSET",
	TokenUse:                    "T_USE",
	TokenVar:                    "T_VAR",
	TokenWhile:                  "T_WHILE",
	TokenYield:                  "T_YIELD",
	TokenTrait:                  "T_TRAIT",
	TokenTraitC:                 "T_TRAIT_C",
	TokenInsteadof:              "T_INSTEADOF",
	TokenCallable:               "T_CALLABLE",
	TokenClassC:                 "T_CLASS_C",
	TokenDir:                    "T_DIR",
	TokenFile:                   "T_FILE",
	TokenFuncC:                  "T_FUNC_C",
	TokenLine:                   "T_LINE",
	TokenMethodC:                "T_METHOD_C",
	TokenNsC:                    "T_NS_C",
	TokenIntCast:                "T_INT_CAST",
	TokenDoubleCast:             "T_DOUBLE_CAST",
	TokenStringCast:             "T_STRING_CAST",
	TokenArrayCast:              "T_ARRAY_CAST",
	TokenObjectCast:             "T_OBJECT_CAST",
	TokenBoolCast:               "T_BOOL_CAST",
	TokenUnsetCast:              "T_UNSET_CAST",
	TokenIsIdentical:            "T_IS_IDENTICAL",
	TokenIsNotIdentical:         "T_IS_NOT_IDENTICAL",
	TokenIsEqual:                "T_IS_EQUAL",
	TokenIsNotEqual:             "T_IS_NOT_EQUAL",
	TokenSpaceship:              "T_SPACESHIP",
	TokenIsSmallerOrEqual:       "T_IS_SMALLER_OR_EQUAL",
	TokenIsGreaterOrEqual:       "T_IS_GREATER_OR_EQUAL",
	TokenSl:                     "T_SL",
	TokenSr:                     "T_SR",
	TokenSlEqual:                "T_SL_EQUAL",
	TokenSrEqual:                "T_SR_EQUAL",
	TokenPow:                    "T_POW",
	TokenPowEqual:               "T_POW_EQUAL",
	TokenInc:                    "T_INC",
	TokenDec:                    "T_DEC",
	TokenPlusEqual:              "T_PLUS_EQUAL",
	TokenMinusEqual:             "T_MINUS_EQUAL",
	TokenMulEqual:               "T_MUL_EQUAL",
	TokenDivEqual:               "T_DIV_EQUAL",
	TokenConcatEqual:            "T_CONCAT_EQUAL",
	TokenModEqual:               "T_MOD_EQUAL",
	TokenAndEqual:               "T_AND_EQUAL",
	TokenOrEqual:                "T_OR_EQUAL",
	TokenXorEqual:               "T_XOR_EQUAL",
	TokenCoalesce:               "T_COALESCE",
	TokenCoalesceEqual:          "T_COALESCE_EQUAL",
	TokenBooleanAnd:             "T_BOOLEAN_AND",
	TokenBooleanOr:              "T_BOOLEAN_OR",
	TokenObjectOperator:         "T_OBJECT_OPERATOR",
	TokenNullsafeObjectOperator: "T_NULLSAFE_OBJECT_OPERATOR",
	TokenDoubleArrow:            "T_DOUBLE_ARROW",
	TokenDoubleColon:            "T_DOUBLE_COLON",
	TokenEllipsis:               "T_ELLIPSIS",
}

// String returns the PHP name of a named kind, or the character itself for
// single-character kinds.
func (k TokenKind) String() string {
	if k.IsChar() {
		return string(rune(k))
	}
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsChar reports whether k is a single-character punctuation kind
func (k TokenKind) IsChar() bool {
	return k > 0 && k < firstNamedKind
}

// IsValid reports whether k is a character kind or a known named kind
func (k TokenKind) IsValid() bool {
	return k.IsChar() || (k >= firstNamedKind && k < lastNamedKind)
}

// Char returns the kind of a single-character token
func Char(c byte) TokenKind {
	return TokenKind(c)
}

// Token is one lexical unit of a source file
type Token struct {
	Kind TokenKind
	Text string
	Line int // 1-based; 0 for character tokens whose line has not been assigned
}

// keywords maps lower-cased reserved words to their kinds. The soft keywords
// are deliberately absent: the lexer emits them as TokenString.
var keywords = map[string]TokenKind{
	"abstract":        TokenAbstract,
	"and":             TokenLogicalAnd,
	"array":           TokenArray,
	"as":              TokenAs,
	"break":           TokenBreak,
	"case":            TokenCase,
	"catch":           TokenCatch,
	"class":           TokenClass,
	"clone":           TokenClone,
	"const":           TokenConst,
	"continue":        TokenContinue,
	"declare":         TokenDeclare,
	"default":         TokenDefault,
	"die":             TokenExit,
	"do":              TokenDo,
	"echo":            TokenEcho,
	"else":            TokenElse,
	"elseif":          TokenElseif,
	"empty":           TokenEmpty,
	"enddeclare":      TokenEnddeclare,
	"endfor":          TokenEndfor,
	"endforeach":      TokenEndforeach,
	"endif":           TokenEndif,
	"endswitch":       TokenEndswitch,
	"endwhile":        TokenEndwhile,
	"eval":            TokenEval,
	"exit":            TokenExit,
	"extends":         TokenExtends,
	"final":           TokenFinal,
	"finally":         TokenFinally,
	"fn":              TokenFn,
	"for":             TokenFor,
	"foreach":         TokenForeach,
	"function":        TokenFunction,
	"global":          TokenGlobal,
	"goto":            TokenGoto,
	"__halt_compiler": TokenHaltCompiler,
	"if":              TokenIf,
	"implements":      TokenImplements,
	"include":         TokenInclude,
	"include_once":    TokenIncludeOnce,
	"instanceof":      TokenInstanceof,
	"interface":       TokenInterface,
	"isset":           TokenIsset,
	"list":            TokenList,
	"match":           TokenMatch,
	"namespace":       TokenNamespace,
	"new":             TokenNew,
	"or":              TokenLogicalOr,
	"print":           TokenPrint,
	"private":         TokenPrivate,
	"protected":       TokenProtected,
	"public":          TokenPublic,
	"readonly":        TokenReadonly,
	"require":         TokenRequire,
	"require_once":    TokenRequireOnce,
	"return":          TokenReturn,
	"static":          TokenStatic,
	"switch":          TokenSwitch,
	"throw":           TokenThrow,
	"try":             TokenTry,
	"unset":           TokenUnset,
	"use":             TokenUse,
	"var":             TokenVar,
	"while":           TokenWhile,
	"xor":             TokenLogicalXor,
	"yield":           TokenYield,
	"__class__":       TokenClassC,
	"__dir__":         TokenDir,
	"__file__":        TokenFile,
	"__function__":    TokenFuncC,
	"__line__":        TokenLine,
	"__method__":      TokenMethodC,
	"__namespace__":   TokenNsC,
}

var casts = map[string]TokenKind{
	"int":     TokenIntCast,
	"integer": TokenIntCast,
	"bool":    TokenBoolCast,
	"boolean": TokenBoolCast,
	"float":   TokenDoubleCast,
	"double":  TokenDoubleCast,
	"real":    TokenDoubleCast,
	"string":  TokenStringCast,
	"binary":  TokenStringCast,
	"array":   TokenArrayCast,
	"object":  TokenObjectCast,
	"unset":   TokenUnsetCast,
}

type operator struct {
	text string
	kind TokenKind
}

// operators is ordered longest first so the scan takes the longest match
var operators = []operator{
	{"===", TokenIsIdentical},
	{"!==", TokenIsNotIdentical},
	{"<=>", TokenSpaceship},
	{"<<=", TokenSlEqual},
	{">>=", TokenSrEqual},
	{"**=", TokenPowEqual},
	{"...", TokenEllipsis},
	{"??=", TokenCoalesceEqual},
	{"?->", TokenNullsafeObjectOperator},
	{"==", TokenIsEqual},
	{"!=", TokenIsNotEqual},
	{"<>", TokenIsNotEqual},
	{"<=", TokenIsSmallerOrEqual},
	{">=", TokenIsGreaterOrEqual},
	{"<<", TokenSl},
	{">>", TokenSr},
	{"**", TokenPow},
	{"++", TokenInc},
	{"--", TokenDec},
	{"+=", TokenPlusEqual},
	{"-=", TokenMinusEqual},
	{"*=", TokenMulEqual},
	{"/=", TokenDivEqual},
	{".=", TokenConcatEqual},
	{"%=", TokenModEqual},
	{"&=", TokenAndEqual},
	{"|=", TokenOrEqual},
	{"^=", TokenXorEqual},
	{"??", TokenCoalesce},
	{"&&", TokenBooleanAnd},
	{"||", TokenBooleanOr},
	{"->", TokenObjectOperator},
	{"=>", TokenDoubleArrow},
	{"::", TokenDoubleColon},
}
