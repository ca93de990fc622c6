// Package rowcodec decodes result rows into caller values. Both runners
// read a row as a column → value map and hand it here, so destinations
// behave the same whichever backend produced them.
package rowcodec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag that names a column: `bq:"total"`.
const TagName = "bq"

// TimestampLayout is accepted when a text column decodes into time.Time.
const TimestampLayout = "2006-01-02 15:04:05"

// Decode stores record into dst, which must be a non-nil pointer to:
//
//   - a struct: columns match fields by `bq` tag, then case-insensitively
//     by field name; unmatched columns are ignored
//   - a map[string]any (or any)
//   - a scalar, when the row has exactly one column
//
// columns lists the record keys in select order.
func Decode(record map[string]any, columns []string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode row: destination must be a non-nil pointer, got %T", dst)
	}

	var input any = record
	if isScalar(rv.Elem().Type()) {
		if len(columns) != 1 {
			return fmt.Errorf("decode row: %d columns into %T", len(columns), dst)
		}
		input = record[columns[0]]
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(TimestampLayout),
	})
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

var timeType = reflect.TypeFor[time.Time]()

func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map, reflect.Interface:
		return false
	case reflect.Struct:
		return t == timeType
	}
	return true
}
