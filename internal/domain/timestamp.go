package domain

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// TimestampKind tags which representation a stored timestamp arrived in.
type TimestampKind int

const (
	TimestampNative TimestampKind = iota + 1
	TimestampEpochMillis
)

func (k TimestampKind) String() string {
	switch k {
	case TimestampNative:
		return "native"
	case TimestampEpochMillis:
		return "epoch_millis"
	default:
		return "unknown"
	}
}

// Timestamp is a stored date-time value before normalization. Documents may
// hold either the database's native timestamp or a raw epoch-millisecond number.
type Timestamp struct {
	kind   TimestampKind
	native time.Time
	millis int64
}

func NativeTimestamp(t time.Time) Timestamp {
	return Timestamp{kind: TimestampNative, native: t}
}

func EpochMillisTimestamp(ms int64) Timestamp {
	return Timestamp{kind: TimestampEpochMillis, millis: ms}
}

func (ts Timestamp) Kind() TimestampKind {
	return ts.kind
}

// Time returns the normalized UTC value. The zero Timestamp yields the zero time.
func (ts Timestamp) Time() time.Time {
	switch ts.kind {
	case TimestampNative:
		return ts.native.UTC()
	case TimestampEpochMillis:
		return time.UnixMilli(ts.millis).UTC()
	default:
		return time.Time{}
	}
}

// ParseTimestamp classifies a raw document value.
func ParseTimestamp(v any) (Timestamp, error) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return Timestamp{}, fmt.Errorf("%w: zero time", ErrInvalidTimestamp)
		}
		return NativeTimestamp(val), nil
	case *time.Time:
		if val == nil {
			return Timestamp{}, fmt.Errorf("%w: nil", ErrInvalidTimestamp)
		}
		return ParseTimestamp(*val)
	case *timestamppb.Timestamp:
		if val == nil {
			return Timestamp{}, fmt.Errorf("%w: nil", ErrInvalidTimestamp)
		}
		if err := val.CheckValid(); err != nil {
			return Timestamp{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
		}
		return NativeTimestamp(val.AsTime()), nil
	case int64:
		return EpochMillisTimestamp(val), nil
	case int:
		return EpochMillisTimestamp(int64(val)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return Timestamp{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, val)
		}
		return EpochMillisTimestamp(int64(val)), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, val)
		}
		return NativeTimestamp(parsed), nil
	case nil:
		return Timestamp{}, fmt.Errorf("%w: missing", ErrInvalidTimestamp)
	default:
		return Timestamp{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, v)
	}
}

// NormalizeTime parses and normalizes in one step.
func NormalizeTime(v any) (time.Time, error) {
	ts, err := ParseTimestamp(v)
	if err != nil {
		return time.Time{}, err
	}
	return ts.Time(), nil
}
