package svf

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses SVF documents into a File AST.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds an SVF parser. Comment and Whitespace tokens are
// elided so the grammar never has to account for them.
func NewParser() (*Parser, error) {
	p, err := participle.Build[File](
		participle.Lexer(SVFLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("svf: failed to build parser: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Parse parses an SVF document from a reader.
func (p *Parser) Parse(r io.Reader) (*File, error) {
	f, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("svf: parse error: %w", err)
	}
	return f, nil
}

// ParseString parses an SVF document from a string.
func (p *Parser) ParseString(input string) (*File, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("svf: parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses an SVF document from a file path.
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("svf: failed to open file: %w", err)
	}
	defer file.Close()
	return p.Parse(file)
}
