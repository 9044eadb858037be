package lexer

// Token type constants, grouped the way the parser consumes them.
const (
	ILLEGAL TokenType = iota
	EOF

	// Literals and identifiers.
	IDENT
	INT
	FLOAT
	STRING
	CHAR

	// Boolean / null literals.
	TRUE
	FALSE
	NULL

	// Control flow keywords.
	IF
	ELSE
	WHILE
	FOR
	SWITCH
	CASE
	BREAK
	RETURN
	DEFER
	CATCH
	IS
	STATIC
	IN

	// Declaration keywords.
	DEFINE
	VAR
	GLOBAL
	FN
	STRUCT
	ENUM
	UNION
	TAGGED_UNION
	MODULE
	WHERE

	// Compile-time keywords.
	RUN
	CAST

	// Delimiters.
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	DOT_LBRACE // .{
	COMMA
	SEMICOLON
	COLON
	COLON_COLON // ::
	DOT
	DOT_DOT  // ..
	DOT_QUEST // .?
	DOT_STAR  // .*

	// Operators.
	ASSIGN
	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	TILDE
	BANG
	QUESTION
	QUESTION_QUESTION // ??
	ARROW     // ->
	FAT_ARROW // =>

	EQ
	NOT_EQ
	LESS
	GREATER
	LESS_EQ
	GREATER_EQ
	AND
	OR
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR",
	TRUE: "true", FALSE: "false", NULL: "null",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", SWITCH: "switch",
	CASE: "case", BREAK: "break", RETURN: "return", DEFER: "defer",
	CATCH: "catch", IS: "is", STATIC: "static", IN: "in",
	DEFINE: "define", VAR: "var", GLOBAL: "global", FN: "fn", STRUCT: "struct",
	ENUM: "enum", UNION: "union", TAGGED_UNION: "tagged_union", MODULE: "module",
	WHERE: "where",
	RUN:   "run", CAST: "cast",
	LPAREN: "(", RPAREN: ")", LBRACK: "[", RBRACK: "]", LBRACE: "{", RBRACE: "}",
	DOT_LBRACE: ".{", COMMA: ",", SEMICOLON: ";", COLON: ":", COLON_COLON: "::",
	DOT: ".", DOT_DOT: "..", DOT_QUEST: ".?", DOT_STAR: ".*",
	ASSIGN: "=", PLUS: "+", MINUS: "-", ASTERISK: "*", SLASH: "/", PERCENT: "%",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", BANG: "!", QUESTION: "?",
	QUESTION_QUESTION: "??", ARROW: "->", FAT_ARROW: "=>",
	EQ: "==", NOT_EQ: "!=", LESS: "<", GREATER: ">", LESS_EQ: "<=", GREATER_EQ: ">=",
	AND: "and", OR: "or",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords maps literal spellings to their keyword token type. Built from
// tokenNames so the two never drift apart.
var keywords map[string]TokenType

func init() {
	keywords = make(map[string]TokenType)
	for _, t := range []TokenType{
		TRUE, FALSE, NULL, IF, ELSE, WHILE, FOR, SWITCH, CASE, BREAK, RETURN,
		DEFER, CATCH, IS, STATIC, IN, DEFINE, VAR, GLOBAL, FN, STRUCT, ENUM,
		UNION, TAGGED_UNION, MODULE, WHERE, RUN, CAST, AND, OR,
	} {
		keywords[tokenNames[t]] = t
	}
}

// LookupIdent classifies an identifier-shaped lexeme as a keyword token or
// a plain IDENT.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
