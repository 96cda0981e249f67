package mdl

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/warcodec/mdlx"
)

// Stmt is a statement within a block: a *Field, a *Frame, or a *Block.
type Stmt interface {
	stmtLine() int
}

// Block is a braced group of statements, with a header of the form
//
//	Type ["Name"] [Count...] {
type Block struct {
	Type string
	// Name is the quoted name of the block. Named indicates whether the name
	// is present, to distinguish an empty name.
	Name   string
	Named  bool
	Counts []int64
	Line   int
	Body   []Stmt
}

// Field is a statement of the form
//
//	[static] Name [Value],
//
// A field with no name holds only a value.
type Field struct {
	Name   string
	Static bool
	Value  Value
	Line   int
}

// Frame is a keyframe of an animation track, of the form
//
//	Frame: Value,
//		InTan Value,
//		OutTan Value,
type Frame struct {
	Frame  int64
	Value  Value
	InTan  *Value
	OutTan *Value
	Line   int
}

func (b *Block) stmtLine() int { return b.Line }
func (f *Field) stmtLine() int { return f.Line }
func (f *Frame) stmtLine() int { return f.Line }

// NewBlock returns a block with the given type.
func NewBlock(typ string) *Block {
	return &Block{Type: typ}
}

// NewNamedBlock returns a block with the given type and name.
func NewNamedBlock(typ, name string) *Block {
	return &Block{Type: typ, Name: name, Named: true}
}

// Add appends statements to the body of b, and returns b.
func (b *Block) Add(s ...Stmt) *Block {
	b.Body = append(b.Body, s...)
	return b
}

// Field appends a field with a value.
func (b *Block) Field(name string, v Value) {
	b.Body = append(b.Body, &Field{Name: name, Value: v})
}

// Flag appends a field with no value.
func (b *Block) Flag(name string) {
	b.Body = append(b.Body, &Field{Name: name})
}

// Item appends a nameless field.
func (b *Block) Item(v Value) {
	b.Body = append(b.Body, &Field{Value: v})
}

////////////////////////////////////////////////////////////////

// Document is an entire text model.
type Document struct {
	// Root holds the top-level blocks of the document. Its Type is empty.
	Root *Block

	// Format controls how the document is written.
	Format mdlx.Format
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokOpen  // {
	tokClose // }
	tokComma
	tokColon
)

var tokenNames = [...]string{"end of file", "identifier", "integer", "float", "string", "'{'", "'}'", "','", "':'"}

func (k tokenKind) String() string {
	return tokenNames[k]
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// lexer splits text into tokens.
type lexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\r', '\n', '\t', '\f', '\v':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isIdentByte(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || isDigit(b) || b == '_' || b == '.'
}

func (l *lexer) peekc(i int) byte {
	if l.pos+i < len(l.src) {
		return l.src[l.pos+i]
	}
	return 0
}

func (l *lexer) getc() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *lexer) syntaxError(msg string, line, col int) error {
	return SyntaxError{Msg: msg, Line: line, Column: col}
}

// skip skips whitespace and line comments.
func (l *lexer) skip() {
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		switch {
		case isSpace(b):
			l.getc()
		case b == '/' && l.peekc(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.getc()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skip()
	t := token{line: l.line, col: l.col}
	if l.pos >= len(l.src) {
		return t, nil
	}
	start := l.pos
	b := l.getc()
	switch {
	case b == '{':
		t.kind = tokOpen
	case b == '}':
		t.kind = tokClose
	case b == ',':
		t.kind = tokComma
	case b == ':':
		t.kind = tokColon
	case b == '"':
		t.kind = tokString
		var s strings.Builder
		for {
			if l.pos >= len(l.src) {
				return t, l.syntaxError("unterminated string", t.line, t.col)
			}
			c := l.getc()
			if c == '"' {
				break
			}
			if c == '\\' && (l.peekc(0) == '"' || l.peekc(0) == '\\') {
				c = l.getc()
			}
			s.WriteByte(c)
		}
		t.text = s.String()
		return t, nil
	case isDigit(b) || (b == '-' || b == '+' || b == '.') && (isDigit(l.peekc(0)) || l.peekc(0) == '.'):
		t.kind = tokInt
	number:
		for l.pos < len(l.src) {
			switch c := l.src[l.pos]; {
			case isDigit(c):
			case c == '.':
				t.kind = tokFloat
			case c == 'e' || c == 'E':
				t.kind = tokFloat
				if n := l.peekc(1); n == '-' || n == '+' {
					l.getc()
				}
			default:
				break number
			}
			l.getc()
		}
		if b == '.' {
			t.kind = tokFloat
		}
	case isIdentByte(b):
		t.kind = tokIdent
		for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
			l.getc()
		}
	default:
		return t, l.syntaxError("unexpected character "+strconv.QuoteRune(rune(b)), t.line, t.col)
	}
	t.text = string(l.src[start:l.pos])
	return t, nil
}

// parser builds a tree of statements from a list of tokens.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek(i int) token {
	if p.pos+i < len(p.toks) {
		return p.toks[p.pos+i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) take() token {
	t := p.peek(0)
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, msg string) error {
	if t.kind == tokEOF {
		msg += ", got end of file"
	} else {
		msg += ", got " + strconv.Quote(t.text)
	}
	return SyntaxError{Msg: msg, Line: t.line, Column: t.col}
}

// comma consumes an optional comma.
func (p *parser) comma() {
	if p.peek(0).kind == tokComma {
		p.take()
	}
}

// body parses statements until a closing brace, or until the end of the
// file if root is true.
func (p *parser) body(root bool) ([]Stmt, error) {
	var body []Stmt
	for {
		t := p.peek(0)
		switch t.kind {
		case tokEOF:
			if !root {
				return nil, p.errorf(t, "expected '}'")
			}
			return body, nil
		case tokClose:
			if root {
				return nil, p.errorf(t, "unexpected '}'")
			}
			p.take()
			return body, nil
		case tokComma:
			p.take()
			continue
		}
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
}

func (p *parser) stmt() (Stmt, error) {
	t := p.peek(0)
	switch t.kind {
	case tokInt:
		if p.peek(1).kind == tokColon {
			return p.frame()
		}
		fallthrough
	case tokFloat, tokString, tokOpen:
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		p.comma()
		return &Field{Value: v, Line: t.line}, nil
	case tokIdent:
		return p.named()
	}
	return nil, p.errorf(t, "expected statement")
}

func (p *parser) frame() (Stmt, error) {
	t := p.take()
	n, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return nil, p.errorf(t, "invalid frame")
	}
	p.take() // :
	f := &Frame{Frame: n, Line: t.line}
	if f.Value, err = p.value(); err != nil {
		return nil, err
	}
	p.comma()
	for {
		t := p.peek(0)
		if t.kind != tokIdent {
			break
		}
		var dst **Value
		switch {
		case strings.EqualFold(t.text, "InTan"):
			dst = &f.InTan
		case strings.EqualFold(t.text, "OutTan"):
			dst = &f.OutTan
		default:
			return f, nil
		}
		p.take()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		*dst = &v
		p.comma()
	}
	return f, nil
}

// named parses a statement that begins with an identifier, which is either a
// field or a block.
func (p *parser) named() (Stmt, error) {
	t := p.take()
	static := false
	if strings.EqualFold(t.text, "static") && p.peek(0).kind == tokIdent {
		static = true
		t = p.take()
	}
	f := &Field{Name: t.text, Static: static, Line: t.line}

	next := p.peek(0)
	switch next.kind {
	case tokOpen:
		if !static && !p.isArray() {
			return p.block(t, "", false, nil)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		f.Value = v

	case tokString:
		i := 1
		for p.peek(i).kind == tokInt {
			i++
		}
		if !static && p.peek(i).kind == tokOpen {
			p.take()
			counts, err := p.counts()
			if err != nil {
				return nil, err
			}
			return p.block(t, next.text, true, counts)
		}
		f.Value, _ = p.value()

	case tokInt, tokFloat:
		i := 0
		for p.peek(i).kind == tokInt {
			i++
		}
		if !static && i > 0 && p.peek(i).kind == tokOpen {
			counts, err := p.counts()
			if err != nil {
				return nil, err
			}
			return p.block(t, "", false, counts)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		f.Value = v

	case tokIdent:
		// An identifier on the same line is a value. Otherwise, it begins
		// the next statement.
		if next.line == t.line {
			f.Value, _ = p.value()
		}
	}
	p.comma()
	return f, nil
}

// isArray returns whether the opening brace at the current position begins
// an array value rather than a block.
func (p *parser) isArray() bool {
	switch p.peek(1).kind {
	case tokInt, tokFloat:
		return true
	case tokClose:
		return p.peek(2).kind == tokComma
	case tokIdent:
		for i := 1; ; i++ {
			switch p.peek(i).kind {
			case tokIdent, tokComma:
			case tokClose:
				return p.peek(i+1).kind == tokComma
			default:
				return false
			}
		}
	}
	return false
}

func (p *parser) counts() ([]int64, error) {
	var counts []int64
	for p.peek(0).kind == tokInt {
		t := p.take()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid count")
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func (p *parser) block(t token, name string, named bool, counts []int64) (Stmt, error) {
	if p.peek(0).kind != tokOpen {
		return nil, p.errorf(p.peek(0), "expected '{'")
	}
	p.take()
	body, err := p.body(false)
	if err != nil {
		return nil, err
	}
	return &Block{Type: t.text, Name: name, Named: named, Counts: counts, Line: t.line, Body: body}, nil
}

func parseNumber(t token) (Value, error) {
	if t.kind == tokInt {
		if n, err := strconv.ParseInt(t.text, 10, 64); err == nil {
			return IntValue(n), nil
		}
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, SyntaxError{Msg: "invalid number " + strconv.Quote(t.text), Line: t.line, Column: t.col}
	}
	return Value{Kind: Float, Float: f}, nil
}

// value parses a single value.
func (p *parser) value() (Value, error) {
	t := p.take()
	switch t.kind {
	case tokInt, tokFloat:
		return parseNumber(t)
	case tokString:
		return StringValue(t.text), nil
	case tokIdent:
		return IdentValue(t.text), nil
	case tokOpen:
		return p.array(t)
	}
	return Value{}, p.errorf(t, "expected value")
}

// array parses the elements of an array after its opening brace. An array
// of numbers is an integer array only if every element is an integer that
// fits in 32 bits.
func (p *parser) array(open token) (Value, error) {
	var nums []Value
	var idents []string
	for {
		t := p.take()
		switch t.kind {
		case tokComma:
			continue
		case tokInt, tokFloat:
			v, err := parseNumber(t)
			if err != nil {
				return Value{}, err
			}
			nums = append(nums, v)
			continue
		case tokIdent:
			idents = append(idents, t.text)
			continue
		case tokClose:
		default:
			return Value{}, p.errorf(t, "expected array element")
		}
		break
	}
	if len(idents) > 0 {
		if len(nums) > 0 {
			return Value{}, SyntaxError{Msg: "mixed array", Line: open.line, Column: open.col}
		}
		return IdentsValue(idents...), nil
	}
	ints := true
	for _, v := range nums {
		if v.Kind != Integer || v.Int != int64(int32(v.Int)) {
			ints = false
			break
		}
	}
	if ints {
		a := make([]int64, len(nums))
		for i, v := range nums {
			a[i] = v.Int
		}
		return Value{Kind: IntArray, Ints: a}, nil
	}
	a := make([]float64, len(nums))
	for i, v := range nums {
		if v.Kind == Integer {
			a[i] = float64(v.Int)
		} else {
			a[i] = v.Float
		}
	}
	return Value{Kind: FloatArray, Floats: a}, nil
}

// Parse parses text into a root block.
func Parse(src []byte) (*Block, error) {
	l := &lexer{src: src, line: 1, col: 1}
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	p := &parser{toks: toks}
	body, err := p.body(true)
	if err != nil {
		return nil, err
	}
	return &Block{Line: 1, Body: body}, nil
}

// ReadFrom decodes text from r into the document.
func (doc *Document) ReadFrom(r io.Reader) (n int64, err error) {
	if r == nil {
		return 0, errors.New("reader is nil")
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return int64(len(src)), err
	}
	root, err := Parse(src)
	if err != nil {
		return int64(len(src)), err
	}
	doc.Root = root
	return int64(len(src)), nil
}

////////////////////////////////////////////////////////////////

type encoder struct {
	*bufio.Writer
	f   mdlx.Format
	eol string
	n   int64
	err error
}

func (e *encoder) writeString(s string) bool {
	if e.err != nil {
		return false
	}
	n, err := e.WriteString(s)
	e.n += int64(n)
	if err != nil {
		e.err = err
		return false
	}
	return true
}

func (e *encoder) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		e.writeString(e.f.Indent)
	}
}

func (e *encoder) encodeStmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *Block:
		e.encodeBlock(s, depth)
	case *Field:
		e.writeIndent(depth)
		if s.Static {
			e.writeString("static ")
		}
		e.writeString(s.Name)
		if s.Value.Kind != None {
			if s.Name != "" {
				e.writeString(" ")
			}
			e.encodeValue(&s.Value)
		}
		e.writeString(",")
		e.writeString(e.eol)
	case *Frame:
		e.writeIndent(depth)
		e.writeString(strconv.FormatInt(s.Frame, 10))
		e.writeString(": ")
		e.encodeValue(&s.Value)
		e.writeString(",")
		e.writeString(e.eol)
		for _, t := range []struct {
			name string
			v    *Value
		}{{"InTan", s.InTan}, {"OutTan", s.OutTan}} {
			if t.v == nil {
				continue
			}
			e.writeIndent(depth + 1)
			e.writeString(t.name)
			e.writeString(" ")
			e.encodeValue(t.v)
			e.writeString(",")
			e.writeString(e.eol)
		}
	}
}

func (e *encoder) encodeBlock(b *Block, depth int) {
	e.writeIndent(depth)
	e.writeString(b.Type)
	if b.Named {
		e.writeString(" ")
		e.writeString(quote(b.Name))
	}
	for _, n := range b.Counts {
		e.writeString(" ")
		e.writeString(strconv.FormatInt(n, 10))
	}
	e.writeString(" {")
	e.writeString(e.eol)
	for _, s := range b.Body {
		e.encodeStmt(s, depth+1)
	}
	e.writeIndent(depth)
	e.writeString("}")
	e.writeString(e.eol)
}

func (e *encoder) encodeValue(v *Value) {
	switch v.Kind {
	case Integer:
		e.writeString(strconv.FormatInt(v.Int, 10))
	case Float:
		e.writeString(FormatFloat(float32(v.Float), e.f.Precision))
	case String:
		e.writeString(quote(v.Str))
	case Ident:
		e.writeString(v.Str)
	case IntArray:
		e.writeString("{ ")
		for i, n := range v.Ints {
			if i > 0 {
				e.writeString(", ")
			}
			e.writeString(strconv.FormatInt(n, 10))
		}
		e.writeString(" }")
	case FloatArray:
		e.writeString("{ ")
		for i, f := range v.Floats {
			if i > 0 {
				e.writeString(", ")
			}
			e.writeString(FormatFloat(float32(f), e.f.Precision))
		}
		e.writeString(" }")
	case IdentArray:
		e.writeString("{ ")
		e.writeString(strings.Join(v.Idents, ", "))
		e.writeString(" }")
	}
}

// quote returns s as a quoted string. A backslash is escaped only where it
// would otherwise be read as an escape, so that paths keep their usual form.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			if i+1 == len(s) || s[i+1] == '"' || s[i+1] == '\\' {
				b.WriteString(`\\`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// WriteTo encodes the document as text to w.
func (doc *Document) WriteTo(w io.Writer) (n int64, err error) {
	if doc.Root == nil {
		return 0, errors.New("document has no root")
	}
	e := &encoder{Writer: bufio.NewWriter(w), f: doc.Format, eol: doc.Format.LineEnding.String()}
	for _, s := range doc.Root.Body {
		e.encodeStmt(s, 0)
	}
	if e.err == nil {
		if err := e.Flush(); err != nil {
			e.err = err
		}
	}
	return e.n, e.err
}
