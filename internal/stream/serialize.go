package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dshills/phpreflect/internal/lexer"
	"github.com/dshills/phpreflect/pkg/types"
)

// Serialize encodes the stream as a two-element record
// ["fileName", [[kind, "text", line], ...]]
func (ts *TokenStream) Serialize() ([]byte, error) {
	tokens := make([][3]any, len(ts.tokens))
	for i, tok := range ts.tokens {
		tokens[i] = [3]any{int(tok.Kind), tok.Text, tok.Line}
	}

	data, err := json.Marshal([2]any{ts.fileName, tokens})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	return data, nil
}

// Deserialize restores a stream produced by Serialize. The cursor starts
// at the first token.
func Deserialize(data []byte) (*TokenStream, error) {
	var record []json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	if len(record) != 2 {
		return nil, fmt.Errorf("%w: expected 2 fields, got %d", types.ErrSerialization, len(record))
	}

	var fileName string
	if err := decodeField(record[0], &fileName); err != nil {
		return nil, fmt.Errorf("%w: invalid file name: %v", types.ErrSerialization, err)
	}

	var rawTokens []json.RawMessage
	if err := decodeField(record[1], &rawTokens); err != nil {
		return nil, fmt.Errorf("%w: invalid token list: %v", types.ErrSerialization, err)
	}

	tokens := make([]lexer.Token, len(rawTokens))
	for i, raw := range rawTokens {
		tok, err := decodeToken(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", types.ErrSerialization, i, err)
		}
		tokens[i] = tok
	}

	return &TokenStream{fileName: fileName, tokens: tokens}, nil
}

func decodeToken(raw json.RawMessage) (lexer.Token, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return lexer.Token{}, err
	}
	if len(fields) != 3 {
		return lexer.Token{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	var tok lexer.Token
	var kind int
	if err := decodeField(fields[0], &kind); err != nil {
		return lexer.Token{}, fmt.Errorf("invalid kind: %w", err)
	}
	tok.Kind = lexer.TokenKind(kind)
	if !tok.Kind.IsValid() {
		return lexer.Token{}, fmt.Errorf("unknown kind %d", kind)
	}
	if err := decodeField(fields[1], &tok.Text); err != nil {
		return lexer.Token{}, fmt.Errorf("invalid text: %w", err)
	}
	if err := decodeField(fields[2], &tok.Line); err != nil {
		return lexer.Token{}, fmt.Errorf("invalid line: %w", err)
	}
	if tok.Line < 1 {
		return lexer.Token{}, fmt.Errorf("line %d out of range", tok.Line)
	}
	return tok, nil
}

var errNullField = errors.New("null value")

// decodeField unmarshals a required field. json.Unmarshal leaves dst
// untouched on null, so null is rejected up front.
func decodeField(raw json.RawMessage, dst any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errNullField
	}
	return json.Unmarshal(raw, dst)
}
