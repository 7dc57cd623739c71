package content

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/creasty/defaults"
	"github.com/go-viper/mapstructure/v2"
)

// Bind fills the section struct dst from layers, earliest layer first:
// a field takes the first non-empty value found, and fields no layer
// provides get their `default:"..."` tag (or SetDefaults) value.
//
// Typical call: Bind(&hero, props, payload, themeDefaults).
//
// Malformed layer data is skipped field by field; the only error is a dst
// that is not a pointer to a struct.
func Bind(dst any, layers ...map[string]any) error {
	merged := map[string]any{}
	for i := len(layers) - 1; i >= 0; i-- {
		for k, v := range layers[i] {
			v = Unwrap(v)
			if isEmpty(v) {
				continue
			}
			merged[k] = v
		}
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.New("content: bind target must be a pointer to a struct")
	}

	// decode key by key into a scratch value first, so one malformed field
	// cannot leave a half-built value behind that hides its default
	for k, v := range merged {
		one := map[string]any{k: v}
		if decode(reflect.New(rv.Elem().Type()).Interface(), one) != nil {
			continue
		}
		_ = decode(dst, one)
	}

	if err := defaults.Set(dst); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}

func decode(dst any, in map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "content",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
