package cv

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrNotObject is returned when CV data is missing, null or not a JSON object.
var ErrNotObject = errors.New("cv data must be a json object")

// ParseRecord decodes raw JSON CV data leniently, see DecodeRecord.
func ParseRecord(data []byte) (*Record, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse cv data: %w", err)
	}
	return DecodeRecord(v)
}

// DecodeRecord turns generic JSON CV data into a Record. Only the top level
// has to be an object: scalars are converted to strings, single values to
// lists, and values of an unusable shape are dropped.
func DecodeRecord(v any) (*Record, error) {
	data, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	var record Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &record,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(lenientShape),
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode cv data: %w", err)
	}

	return &record, nil
}

func lenientShape(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.String:
		if from.Kind() == reflect.Map || from.Kind() == reflect.Slice {
			return "", nil
		}
	case reflect.Struct:
		if from.Kind() != reflect.Map {
			return map[string]interface{}{}, nil
		}
	case reflect.Slice:
		switch {
		case from.Kind() == reflect.Map:
			return []interface{}{data}, nil
		case from.Kind() == reflect.String && data == "":
			return []interface{}{}, nil
		}
	}
	return data, nil
}
