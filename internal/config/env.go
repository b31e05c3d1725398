package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// applyEnvOverrides walks the config struct and overrides any field whose
// `env` tag names a set environment variable. Nested sections are walked
// recursively so every setting stays overridable without a config file.
func applyEnvOverrides(target interface{}) error {
	val := reflect.ValueOf(target).Elem()
	if val.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvOverrides(field.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		name := val.Type().Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("env var %s: expected integer, got %q", name, raw)
			}
			field.SetInt(int64(n))
		default:
			return fmt.Errorf("env var %s: unsupported config field kind %s", name, field.Kind())
		}
	}

	return nil
}
