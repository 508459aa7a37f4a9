package source

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/skillmatcher/internal/matching"
)

// decode maps loosely-typed YAML nodes onto typed records. A hook
// parses proficiency levels from their names ("advanced") or numeric
// form, so dataset files stay human-editable.
func decode(raw, out any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:     out,
		DecodeHook: levelHook,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func levelHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(matching.LevelNone) {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return matching.ParseLevel(v)
	case int:
		level := matching.Level(v)
		if !level.Valid() {
			return nil, fmt.Errorf("proficiency level %d out of range", v)
		}
		return level, nil
	default:
		return data, nil
	}
}
