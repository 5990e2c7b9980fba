package captcha

import (
	"fmt"
	"reflect"
	"strconv"
)

// DefaultField is the form field the Turnstile widget submits its response in.
const DefaultField = "cf-turnstile-response"

// TokenKind tags the shape of a submitted captcha value.
type TokenKind int

const (
	// TokenAbsent means no value was submitted.
	TokenAbsent TokenKind = iota
	// TokenScalar is a string, number, boolean or fmt.Stringer.
	TokenScalar
	// TokenUnsupported is a composite value such as a slice or a map.
	TokenUnsupported
)

func (k TokenKind) String() string {
	switch k {
	case TokenAbsent:
		return "absent"
	case TokenScalar:
		return "scalar"
	default:
		return "unsupported"
	}
}

// Token is a captcha response extracted from a request.
type Token struct {
	Kind  TokenKind
	value string
}

// Value returns the string sent to the verification endpoint. Absent tokens
// yield the empty string.
func (t Token) Value() string {
	return t.value
}

// ClassifyToken maps a raw request value onto a Token.
func ClassifyToken(v any) Token {
	if v == nil {
		return Token{Kind: TokenAbsent}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Token{Kind: TokenAbsent}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return Token{Kind: TokenScalar, value: s.String()}
	}

	switch rv.Kind() {
	case reflect.String:
		return Token{Kind: TokenScalar, value: rv.String()}
	case reflect.Bool:
		return Token{Kind: TokenScalar, value: strconv.FormatBool(rv.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Token{Kind: TokenScalar, value: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Token{Kind: TokenScalar, value: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32:
		return Token{Kind: TokenScalar, value: strconv.FormatFloat(rv.Float(), 'f', -1, 32)}
	case reflect.Float64:
		return Token{Kind: TokenScalar, value: strconv.FormatFloat(rv.Float(), 'f', -1, 64)}
	}
	return Token{Kind: TokenUnsupported}
}

// ExtractToken reads field from src and checks its shape. A nil src, a
// request-level error or a composite value yield an ErrInvalidResponse.
func ExtractToken(src FieldSource, field string) (Token, error) {
	if src == nil {
		return Token{}, invalidResponse("invalid incoming request, please check the provided request", nil)
	}

	raw, err := src.Get(field)
	if err != nil {
		return Token{}, invalidResponse("invalid captcha response, captcha must be unique", err)
	}

	tok := ClassifyToken(raw)
	if tok.Kind == TokenUnsupported {
		return Token{}, invalidResponse("invalid captcha response, captcha must be unique", nil)
	}
	return tok, nil
}
