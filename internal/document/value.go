package document

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Value is a self-describing tagged leaf value. Equality between values is
// exact and type aware: an int32 and an int64 holding the same number are not
// equal, matching the no-coercion comparison rule of the update operators.
type Value = bson.RawValue

// Null returns the null value used when an array slot is unset in place.
func Null() Value {
	return Value{Type: bson.TypeNull}
}

// IsNull reports whether v is the null value.
func IsNull(v Value) bool {
	return v.Type == bson.TypeNull
}

// ValueOf converts a native Go value into its tagged form.
func ValueOf(v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return Value{}, fmt.Errorf("failed to encode value of type %T: %w", v, err)
	}
	return Value{Type: t, Value: data}, nil
}

// MustValue is ValueOf for values known to be encodable, mostly useful in
// tests and fixtures.
func MustValue(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

func valueToAny(v Value) (any, error) {
	switch v.Type {
	case bson.TypeNull:
		return nil, nil
	case bson.TypeString:
		return v.StringValue(), nil
	case bson.TypeBoolean:
		return v.Boolean(), nil
	case bson.TypeDouble:
		return v.Double(), nil
	case bson.TypeInt32:
		return v.Int32(), nil
	case bson.TypeInt64:
		return v.Int64(), nil
	case bson.TypeDateTime:
		return v.Time(), nil
	}
	return nil, fmt.Errorf("unsupported leaf value type %v", v.Type)
}
