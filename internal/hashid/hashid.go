// Package hashid turns sequence values into short, non-sequential looking codes.
package hashid

import (
	"errors"
	"fmt"
	"math"

	"github.com/speps/go-hashids/v2"
)

// ErrOutOfRange is returned for values the encoder cannot represent.
var ErrOutOfRange = errors.New("value out of encodable range")

// ErrInvalidCode is returned when a code does not decode to exactly one value.
var ErrInvalidCode = errors.New("invalid code")

// Encoder is a salted, reversible mapping between non-negative integers and codes.
// Distinct inputs always produce distinct codes for the same salt.
type Encoder struct {
	h *hashids.HashID
}

// New creates an encoder for the given salt and minimum code length.
func New(salt string, minLength int) (*Encoder, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("hashid: configure encoder: %w", err)
	}

	return &Encoder{h: h}, nil
}

// Encode returns the code for n.
func (e *Encoder) Encode(n uint64) (string, error) {
	if n > math.MaxInt64 {
		return "", fmt.Errorf("hashid: encode %d: %w", n, ErrOutOfRange)
	}

	code, err := e.h.EncodeInt64([]int64{int64(n)})
	if err != nil {
		return "", fmt.Errorf("hashid: encode %d: %w", n, err)
	}

	return code, nil
}

// Decode reverses Encode.
func (e *Encoder) Decode(code string) (uint64, error) {
	values, err := e.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, fmt.Errorf("hashid: decode %q: %w: %w", code, ErrInvalidCode, err)
	}

	if len(values) != 1 || values[0] < 0 {
		return 0, fmt.Errorf("hashid: decode %q: %w", code, ErrInvalidCode)
	}

	return uint64(values[0]), nil
}
