package lex

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/dekarrin/rezi"
)

// This file contains the binary encoding of tokens and token streams, used by
// the CLI's token dump/load feature.

// MarshalBinary converts tc into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (tc TokenClass) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(tc.id)...)
	data = append(data, rezi.EncString(tc.human)...)

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into tc.
// All of tc's fields will be replaced by the fields decoded from data.
func (tc *TokenClass) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	tc.id, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	data = data[n:]

	tc.human, _, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("human: %w", err)
	}

	return nil
}

// MarshalBinary converts tok into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (tok Token) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncBinary(tok.Class)...)
	data = append(data, rezi.EncString(tok.Lexeme)...)
	data = append(data, rezi.EncInt(tok.Line)...)
	data = append(data, rezi.EncInt(tok.Pos)...)
	data = append(data, rezi.EncInt(tok.EndLine)...)
	data = append(data, rezi.EncInt(tok.EndPos)...)
	data = append(data, rezi.EncString(tok.FullLine)...)

	intStr := ""
	if tok.IntVal != nil {
		intStr = tok.IntVal.Text(10)
	}
	data = append(data, rezi.EncString(intStr)...)
	data = append(data, rezi.EncString(strconv.FormatFloat(tok.FloatVal, 'g', -1, 64))...)
	data = append(data, rezi.EncString(tok.StrVal)...)

	data = append(data, rezi.EncBool(tok.BytesVal != nil)...)
	if tok.BytesVal != nil {
		data = append(data, rezi.EncString(string(tok.BytesVal))...)
	}
	data = append(data, rezi.EncBool(tok.FString)...)

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into tok.
// All of tok's fields will be replaced by the fields decoded from data.
func (tok *Token) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	n, err = rezi.DecBinary(data, &tok.Class)
	if err != nil {
		return fmt.Errorf("class: %w", err)
	}
	data = data[n:]

	tok.Lexeme, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("lexeme: %w", err)
	}
	data = data[n:]

	tok.Line, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("line: %w", err)
	}
	data = data[n:]

	tok.Pos, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("pos: %w", err)
	}
	data = data[n:]

	tok.EndLine, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("end line: %w", err)
	}
	data = data[n:]

	tok.EndPos, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("end pos: %w", err)
	}
	data = data[n:]

	tok.FullLine, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("full line: %w", err)
	}
	data = data[n:]

	var intStr string
	intStr, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("int val: %w", err)
	}
	data = data[n:]
	tok.IntVal = nil
	if intStr != "" {
		val, ok := new(big.Int).SetString(intStr, 10)
		if !ok {
			return fmt.Errorf("int val: invalid integer %q", intStr)
		}
		tok.IntVal = val
	}

	var floatStr string
	floatStr, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("float val: %w", err)
	}
	data = data[n:]
	tok.FloatVal, err = strconv.ParseFloat(floatStr, 64)
	if err != nil {
		return fmt.Errorf("float val: %w", err)
	}

	tok.StrVal, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("str val: %w", err)
	}
	data = data[n:]

	var haveBytes bool
	haveBytes, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("bytes flag: %w", err)
	}
	data = data[n:]
	tok.BytesVal = nil
	if haveBytes {
		var byteStr string
		byteStr, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("bytes val: %w", err)
		}
		data = data[n:]
		tok.BytesVal = []byte(byteStr)
	}

	tok.FString, _, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("fstring flag: %w", err)
	}

	return nil
}

// MarshalBinary converts the stream's full token sequence into a slice of
// bytes that can be decoded with UnmarshalBinary. The read position is not
// preserved.
func (ts TokenStream) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(len(ts.tokens))...)
	for i := range ts.tokens {
		data = append(data, rezi.EncBinary(ts.tokens[i])...)
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into the
// stream. The stream is left positioned at its first token.
func (ts *TokenStream) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("token count: %w", err)
	}
	data = data[n:]

	if count < 0 {
		return fmt.Errorf("token count < 0")
	}

	ts.tokens = make([]Token, count)
	ts.cur = 0
	for i := 0; i < count; i++ {
		n, err = rezi.DecBinary(data, &ts.tokens[i])
		if err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		data = data[n:]
	}

	return nil
}
