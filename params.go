package mgclient

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/memgraph/mgclient-go/protocol"
)

// Params holds named query parameters. Values may be plain Go values
// (nil, bool, integer and float types, string, []any, map[string]any,
// time.Duration) or mgclient values of any kind that is legal in a
// parameter. Graph kinds and DateTime are never legal; passing one
// returns an UnsupportedValueError.
type Params map[string]any

// encodeParams converts params into the wire map attached to a RUN
// request. It validates everything before the request is built, so a
// failure leaves no trace on the connection.
func encodeParams(params Params) (protocol.Value, error) {
	entries := make(map[string]protocol.Value, len(params))
	for name, v := range params {
		if strings.ContainsRune(name, 0) {
			return protocol.Value{}, &EncodingError{Param: name, Reason: "embedded NUL byte in parameter name"}
		}
		pv, err := paramValue(name, v)
		if err != nil {
			return protocol.Value{}, err
		}
		entries[name] = pv
	}
	return protocol.MakeMap(entries), nil
}

func paramValue(name string, v any) (protocol.Value, error) {
	switch t := v.(type) {
	case nil:
		return protocol.MakeNull(), nil
	case bool:
		return protocol.MakeBool(t), nil
	case int:
		return protocol.MakeInt(int64(t)), nil
	case int8:
		return protocol.MakeInt(int64(t)), nil
	case int16:
		return protocol.MakeInt(int64(t)), nil
	case int32:
		return protocol.MakeInt(int64(t)), nil
	case int64:
		return protocol.MakeInt(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return protocol.Value{}, &EncodingError{Param: name, Reason: "unsigned integer out of range"}
		}
		return protocol.MakeInt(int64(t)), nil
	case uint8:
		return protocol.MakeInt(int64(t)), nil
	case uint16:
		return protocol.MakeInt(int64(t)), nil
	case uint32:
		return protocol.MakeInt(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return protocol.Value{}, &EncodingError{Param: name, Reason: "unsigned integer out of range"}
		}
		return protocol.MakeInt(int64(t)), nil
	case float32:
		return protocol.MakeFloat(float64(t)), nil
	case float64:
		return protocol.MakeFloat(t), nil
	case string:
		return stringValue(name, t)
	case []any:
		items := make([]protocol.Value, len(t))
		for i, item := range t {
			pv, err := paramValue(name, item)
			if err != nil {
				return protocol.Value{}, err
			}
			items[i] = pv
		}
		return protocol.MakeList(items), nil
	case map[string]any:
		return mapParamValue(name, t)
	case Params:
		return mapParamValue(name, t)
	case time.Duration:
		return durationValue(t), nil
	case Null:
		return protocol.MakeNull(), nil
	case Bool:
		return protocol.MakeBool(bool(t)), nil
	case Int:
		return protocol.MakeInt(int64(t)), nil
	case Float:
		return protocol.MakeFloat(float64(t)), nil
	case String:
		return stringValue(name, string(t))
	case List:
		items := make([]protocol.Value, len(t))
		for i, item := range t {
			pv, err := paramValue(name, item)
			if err != nil {
				return protocol.Value{}, err
			}
			items[i] = pv
		}
		return protocol.MakeList(items), nil
	case Map:
		entries := make(map[string]protocol.Value, len(t))
		for k, item := range t {
			if strings.ContainsRune(k, 0) {
				return protocol.Value{}, &EncodingError{Param: name, Reason: "embedded NUL byte in map key"}
			}
			pv, err := paramValue(name, item)
			if err != nil {
				return protocol.Value{}, err
			}
			entries[k] = pv
		}
		return protocol.MakeMap(entries), nil
	case Date:
		return dateValue(name, t)
	case LocalTime:
		nanos, err := localTimeNanos(name, t)
		if err != nil {
			return protocol.Value{}, err
		}
		return protocol.MakeStruct(protocol.SigLocalTime, []protocol.Value{protocol.MakeInt(nanos)}), nil
	case LocalDateTime:
		return localDateTimeValue(name, t)
	case Duration:
		return durationValue(time.Duration(t)), nil
	case Point2D:
		return protocol.MakeStruct(protocol.SigPoint2D, []protocol.Value{
			protocol.MakeInt(t.SRID), protocol.MakeFloat(t.X), protocol.MakeFloat(t.Y),
		}), nil
	case Point3D:
		return protocol.MakeStruct(protocol.SigPoint3D, []protocol.Value{
			protocol.MakeInt(t.SRID), protocol.MakeFloat(t.X), protocol.MakeFloat(t.Y), protocol.MakeFloat(t.Z),
		}), nil
	default:
		return protocol.Value{}, &UnsupportedValueError{Type: fmt.Sprintf("%T", v)}
	}
}

func stringValue(name, s string) (protocol.Value, error) {
	if strings.ContainsRune(s, 0) {
		return protocol.Value{}, &EncodingError{Param: name, Reason: "embedded NUL byte"}
	}
	return protocol.MakeString(s), nil
}

func mapParamValue(name string, m map[string]any) (protocol.Value, error) {
	entries := make(map[string]protocol.Value, len(m))
	for k, item := range m {
		if strings.ContainsRune(k, 0) {
			return protocol.Value{}, &EncodingError{Param: name, Reason: "embedded NUL byte in map key"}
		}
		pv, err := paramValue(name, item)
		if err != nil {
			return protocol.Value{}, err
		}
		entries[k] = pv
	}
	return protocol.MakeMap(entries), nil
}

func dateValue(name string, d Date) (protocol.Value, error) {
	days, err := epochDays(name, d.Year, d.Month, d.Day)
	if err != nil {
		return protocol.Value{}, err
	}
	return protocol.MakeStruct(protocol.SigDate, []protocol.Value{protocol.MakeInt(days)}), nil
}

func localDateTimeValue(name string, ldt LocalDateTime) (protocol.Value, error) {
	days, err := epochDays(name, ldt.Year, ldt.Month, ldt.Day)
	if err != nil {
		return protocol.Value{}, err
	}
	nanos, err := localTimeNanos(name, LocalTime{
		Hour: ldt.Hour, Minute: ldt.Minute, Second: ldt.Second, Nanosecond: ldt.Nanosecond,
	})
	if err != nil {
		return protocol.Value{}, err
	}
	seconds := days*86400 + nanos/int64(time.Second)
	return protocol.MakeStruct(protocol.SigLocalDateTime, []protocol.Value{
		protocol.MakeInt(seconds), protocol.MakeInt(nanos % int64(time.Second)),
	}), nil
}

func durationValue(d time.Duration) protocol.Value {
	total := int64(d)
	days := total / nanosPerDay
	rem := total % nanosPerDay
	return protocol.MakeStruct(protocol.SigDuration, []protocol.Value{
		protocol.MakeInt(0),
		protocol.MakeInt(days),
		protocol.MakeInt(rem / int64(time.Second)),
		protocol.MakeInt(rem % int64(time.Second)),
	})
}

// epochDays validates a calendar date and converts it to days since
// the Unix epoch.
func epochDays(name string, year, month, day int) (int64, error) {
	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
		return 0, &EncodingError{Param: name,
			Reason: fmt.Sprintf("invalid calendar date %04d-%02d-%02d", year, month, day)}
	}
	days := daysFromCivil(year, month, day)
	if days < -maxEpochDays || days > maxEpochDays {
		return 0, &EncodingError{Param: name, Reason: "date out of range"}
	}
	return days, nil
}

// localTimeNanos validates a clock reading and converts it to
// nanoseconds since midnight.
func localTimeNanos(name string, lt LocalTime) (int64, error) {
	if lt.Hour < 0 || lt.Hour > 23 || lt.Minute < 0 || lt.Minute > 59 ||
		lt.Second < 0 || lt.Second > 59 || lt.Nanosecond < 0 || lt.Nanosecond > 999_999_999 {
		return 0, &EncodingError{Param: name, Reason: "invalid clock reading " + lt.String()}
	}
	seconds := int64(lt.Hour)*3600 + int64(lt.Minute)*60 + int64(lt.Second)
	return seconds*int64(time.Second) + int64(lt.Nanosecond), nil
}
