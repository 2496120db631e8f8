package log

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// toFields converts variadic key-value arguments into zap fields. Bare
// error values and ready-made zap.Field arguments are accepted at any
// position; everything else is consumed pairwise as (string key, value).
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch a := args[i].(type) {
		case zap.Field:
			fields = append(fields, a)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(a))
			i++
			continue
		}

		if i == len(args)-1 {
			// Odd trailing argument without a key.
			fields = append(fields, zap.Any("extra", args[i]))
			break
		}

		key, ok := args[i].(string)
		if !ok {
			fields = append(fields, zap.Any(fmt.Sprintf("badkey#%d", i), args[i]),
				zap.Any(fmt.Sprintf("badval#%d", i), args[i+1]))
			i += 2
			continue
		}
		fields = append(fields, fieldFor(key, args[i+1]))
		i += 2
	}
	return fields
}

func fieldFor(key string, val any) zap.Field {
	switch v := val.(type) {
	case string:
		return zap.String(key, v)
	case bool:
		return zap.Bool(key, v)
	case int:
		return zap.Int(key, v)
	case int64:
		return zap.Int64(key, v)
	case uint16:
		return zap.Uint16(key, v)
	case float64:
		return zap.Float64(key, v)
	case time.Duration:
		return zap.Duration(key, v)
	case time.Time:
		return zap.Time(key, v)
	case error:
		return zap.NamedError(key, v)
	case []byte:
		return zap.Binary(key, v)
	case fmt.Stringer:
		return zap.String(key, v.String())
	default:
		return zap.Any(key, v)
	}
}
