package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type supportedTypes interface {
	bool | int | string | time.Duration
}

func Parse[T supportedTypes](key string) (T, error) {
	var empty T

	str, ok := os.LookupEnv(key)
	if !ok {
		return empty, fmt.Errorf("env %s not found", key)
	}

	val, err := parseTypedValue[T](str)
	if err != nil {
		return empty, fmt.Errorf("env %s has invalid value: %w", key, err)
	}

	return val, nil
}

// ParseOptional returns nil without an error when the variable is not set.
func ParseOptional[T supportedTypes](key string) (*T, error) {
	if _, ok := os.LookupEnv(key); !ok {
		return nil, nil
	}

	val, err := Parse[T](key)
	if err != nil {
		return nil, err
	}

	return &val, nil
}

// ParseDefault returns the fallback when the variable is not set.
func ParseDefault[T supportedTypes](key string, fallback T) (T, error) {
	val, err := ParseOptional[T](key)
	if err != nil {
		return fallback, err
	}
	if val == nil {
		return fallback, nil
	}
	return *val, nil
}

func parseTypedValue[T supportedTypes](str string) (T, error) {
	var empty T
	switch ptr := any(&empty).(type) {
	case *bool:
		b, err := strconv.ParseBool(str)
		if err != nil {
			return empty, err
		}
		*ptr = b
	case *int:
		i, err := strconv.Atoi(str)
		if err != nil {
			return empty, err
		}
		*ptr = i
	case *string:
		*ptr = str
	case *time.Duration:
		d, err := time.ParseDuration(str)
		if err != nil {
			return empty, err
		}
		*ptr = d
	default:
		return empty, fmt.Errorf("unsupported type %T", empty)
	}

	return empty, nil
}
