package rational

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
)

// BSON element types, see https://bsonspec.org/spec.html
const (
	bsonString = 2
	bsonNull   = 10
	bsonInt32  = 16
	bsonInt64  = 18
)

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// Both quoted strings and bare integers are accepted.
// See also constructor [Parse].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (r *Rat) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*r, err = Parse(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Rat{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns a quoted string, such as "13/122".
// See also method [Rat.String].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (r Rat) MarshalJSON() ([]byte, error) {
	s := r.String()
	text := make([]byte, 0, len(s)+2)
	text = append(text, '"')
	text = append(text, s...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [Parse].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (r *Rat) UnmarshalText(text []byte) error {
	var err error
	*r, err = Parse(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Rat{}, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
// See also method [Rat.String].
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (r Rat) AppendText(text []byte) ([]byte, error) {
	return append(text, r.String()...), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// See also method [Rat.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (r Rat) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// The binary form is the same as the text form.
// See also constructor [Parse].
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (r *Rat) UnmarshalBinary(data []byte) error {
	var err error
	*r, err = Parse(string(data))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Rat{}, err)
	}
	return nil
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
// See also method [Rat.String].
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (r Rat) AppendBinary(data []byte) ([]byte, error) {
	return append(data, r.String()...), nil
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
// See also method [Rat.String].
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (r Rat) MarshalBinary() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// BSON strings, 32-bit and 64-bit integers are accepted.
// See also constructor [Parse].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (r *Rat) UnmarshalBSONValue(typ byte, data []byte) error {
	var err error
	switch typ {
	case bsonString:
		*r, err = parseBSONString(data)
	case bsonInt32:
		if len(data) != 4 {
			err = fmt.Errorf("%w: invalid data length %v", ErrInvalidRational, len(data))
			break
		}
		*r = NewRatFromInt64(int64(int32(binary.LittleEndian.Uint32(data)))) //nolint:gosec
	case bsonInt64:
		if len(data) != 8 {
			err = fmt.Errorf("%w: invalid data length %v", ErrInvalidRational, len(data))
			break
		}
		*r = NewRatFromInt64(int64(binary.LittleEndian.Uint64(data))) //nolint:gosec
	case bsonNull:
		// null, do nothing
	default:
		err = fmt.Errorf("BSON type %d is not supported", typ)
	}
	if err != nil {
		err = fmt.Errorf("converting from BSON type %d to %T: %w", typ, Rat{}, err)
	}
	return err
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// MarshalBSONValue always returns a BSON string.
// See also method [Rat.String].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (r Rat) MarshalBSONValue() (typ byte, data []byte, err error) {
	return bsonString, appendBSONString(nil, r.String()), nil
}

// parseBSONString parses a BSON string to a rational.
// The byte order of the input data must be little-endian.
func parseBSONString(data []byte) (Rat, error) {
	if len(data) < 4 {
		return Rat{}, fmt.Errorf("%w: invalid data length %v", ErrInvalidRational, len(data))
	}
	l := int(int32(binary.LittleEndian.Uint32(data))) //nolint:gosec
	if l < 1 || len(data) < l+4 {
		return Rat{}, fmt.Errorf("%w: invalid string length %v", ErrInvalidRational, l)
	}
	if data[l+4-1] != 0 {
		return Rat{}, fmt.Errorf("%w: invalid null terminator %v", ErrInvalidRational, data[l+4-1])
	}
	return Parse(string(data[4 : l+4-1]))
}

// appendBSONString appends the BSON string representation of s.
// The byte order of the result is little-endian.
func appendBSONString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)+1)) //nolint:gosec
	data = append(data, s...)
	return append(data, 0)
}

// Scan implements the [sql.Scanner] interface.
// Strings, byte slices and 64-bit integers are accepted.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (r *Rat) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*r, err = Parse(value)
	case []byte:
		*r, err = Parse(string(value))
	case int64:
		*r = NewRatFromInt64(value)
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Rat{}, NullRat{}, Rat{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Rat{}, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
// Rationals are stored as strings, such as "13/122".
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (r Rat) Value() (driver.Value, error) {
	return r.String(), nil
}

// NullRat represents a rational that can be null.
// Its zero value is null.
// NullRat is not thread-safe.
type NullRat struct {
	Rat   Rat
	Valid bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Rat.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullRat) Scan(value any) error {
	if value == nil {
		n.Rat = Rat{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Rat.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Rat.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullRat) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Rat.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Rat.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullRat) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Rat = Rat{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Rat.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Rat.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullRat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Rat.MarshalJSON()
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also method [Rat.UnmarshalBSONValue].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (n *NullRat) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == bsonNull {
		n.Rat = Rat{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Rat.UnmarshalBSONValue(typ, data)
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// See also method [Rat.MarshalBSONValue].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (n NullRat) MarshalBSONValue() (typ byte, data []byte, err error) {
	if !n.Valid {
		return bsonNull, nil, nil
	}
	return n.Rat.MarshalBSONValue()
}
