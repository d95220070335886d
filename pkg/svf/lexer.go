package svf

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// stateAlt is referenced in doc comments only; the actual alternation is
// spelled out per grammar rule in ast.go rather than factored into a
// single shared production.

// SVFLexer defines the lexical structure of SVF: line comments with `!`,
// case-insensitive keywords, a dedicated HexLiteral rule so parenthesized
// hex data spanning line breaks lexes as a single token before whitespace
// is stripped, and numeric/identifier fallbacks.
var SVFLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `![^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	{Name: "KwSTATE", Pattern: `(?i)\bSTATE\b`},
	{Name: "KwSIR", Pattern: `(?i)\bSIR\b`},
	{Name: "KwSDR", Pattern: `(?i)\bSDR\b`},
	{Name: "KwRUNTEST", Pattern: `(?i)\bRUNTEST\b`},
	{Name: "KwFREQUENCY", Pattern: `(?i)\bFREQUENCY\b`},
	{Name: "KwTRST", Pattern: `(?i)\bTRST\b`},
	{Name: "KwENDIR", Pattern: `(?i)\bENDIR\b`},
	{Name: "KwENDDR", Pattern: `(?i)\bENDDR\b`},
	{Name: "KwHIR", Pattern: `(?i)\bHIR\b`},
	{Name: "KwTIR", Pattern: `(?i)\bTIR\b`},
	{Name: "KwHDR", Pattern: `(?i)\bHDR\b`},
	{Name: "KwTDR", Pattern: `(?i)\bTDR\b`},

	{Name: "KwTDI", Pattern: `(?i)\bTDI\b`},
	{Name: "KwTDO", Pattern: `(?i)\bTDO\b`},
	{Name: "KwMASK", Pattern: `(?i)\bMASK\b`},
	{Name: "KwSMASK", Pattern: `(?i)\bSMASK\b`},
	{Name: "KwTCK", Pattern: `(?i)\bTCK\b`},
	{Name: "KwSEC", Pattern: `(?i)\bSEC\b`},
	{Name: "KwUSEC", Pattern: `(?i)\bUSEC\b`},
	{Name: "KwMSEC", Pattern: `(?i)\bMSEC\b`},
	{Name: "KwENDSTATE", Pattern: `(?i)\bENDSTATE\b`},
	{Name: "KwHZ", Pattern: `(?i)\bHZ\b`},
	{Name: "KwMIN", Pattern: `(?i)\bMIN(IMUM)?\b`},
	{Name: "KwMAXIMUM", Pattern: `(?i)\bMAX(IMUM)?\b`},

	{Name: "KwON", Pattern: `(?i)\bON\b`},
	{Name: "KwOFF", Pattern: `(?i)\bOFF\b`},
	{Name: "KwZ", Pattern: `(?i)\bZ\b`},
	{Name: "KwABSENT", Pattern: `(?i)\bABSENT\b`},

	{Name: "KwRESET", Pattern: `(?i)\bRESET\b`},
	{Name: "KwRUN_TEST_IDLE", Pattern: `(?i)\bRUN_TEST_IDLE\b`},
	{Name: "KwIDLE", Pattern: `(?i)\bIDLE\b`},
	{Name: "KwIRPAUSE", Pattern: `(?i)\bIRPAUSE\b`},
	{Name: "KwDRPAUSE", Pattern: `(?i)\bDRPAUSE\b`},
	{Name: "KwIRSHIFT", Pattern: `(?i)\bIRSHIFT\b`},
	{Name: "KwDRSHIFT", Pattern: `(?i)\bDRSHIFT\b`},
	{Name: "KwIRSELECT", Pattern: `(?i)\bIRSELECT\b`},
	{Name: "KwDRSELECT", Pattern: `(?i)\bDRSELECT\b`},
	{Name: "KwIRCAPTURE", Pattern: `(?i)\bIRCAPTURE\b`},
	{Name: "KwDRCAPTURE", Pattern: `(?i)\bDRCAPTURE\b`},
	{Name: "KwIREXIT1", Pattern: `(?i)\bIREXIT1\b`},
	{Name: "KwDREXIT1", Pattern: `(?i)\bDREXIT1\b`},
	{Name: "KwIREXIT2", Pattern: `(?i)\bIREXIT2\b`},
	{Name: "KwDREXIT2", Pattern: `(?i)\bDREXIT2\b`},
	{Name: "KwIRUPDATE", Pattern: `(?i)\bIRUPDATE\b`},
	{Name: "KwDRUPDATE", Pattern: `(?i)\bDRUPDATE\b`},

	{Name: "HexLiteral", Pattern: `\([0-9A-Fa-fXx \t\r\n]*\)`},

	{Name: "Semicolon", Pattern: `;`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	{Name: "Float", Pattern: `[0-9]+\.[0-9]+([eE][-+]?[0-9]+)?`},
	{Name: "Integer", Pattern: `[0-9]+`},

	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
})
