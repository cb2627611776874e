package tool

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// stringArg renders numeric ids in plain decimal form so 1234567 and
// "1234567" compare equal.
func stringArg(args map[string]any, key string) (string, bool) {
	switch v := args[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// intArg returns def when the key is absent or nil.
func intArg(args map[string]any, key string, def int) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, ErrQuantityInvalid
		}
		// float64 stops holding every integer past 2^53
		if math.Abs(v) > 1<<53 {
			return 0, ErrQuantityInvalid
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, ErrQuantityInvalid
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrQuantityInvalid
		}
		return n, nil
	default:
		return 0, ErrQuantityInvalid
	}
}

// floatArg rejects NaN and infinities as invalid.
func floatArg(args map[string]any, key string) (float64, bool, error) {
	v, present, err := rawFloatArg(args, key)
	if err != nil {
		return 0, present, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, ErrUnitPriceInvalid
	}
	return v, present, nil
}

func rawFloatArg(args map[string]any, key string) (float64, bool, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, true, ErrUnitPriceInvalid
		}
		return f, true, nil
	case string:
		f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v), ",", ".", 1), 64)
		if err != nil {
			return 0, true, ErrUnitPriceInvalid
		}
		return f, true, nil
	default:
		return 0, true, ErrUnitPriceInvalid
	}
}
