package chef

import (
	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/vf"
	"github.com/mitchellh/mapstructure"
)

// Bind decodes a merged value into the given target, which must be a pointer
// to a struct or map. Decoding is weakly typed so that configuration values
// such as "8080" bind to numeric fields. Field names can be overridden with
// the `chef` struct tag.
func Bind(value dgo.Value, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          `chef`,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(native(value))
}

// native converts a dgo value to its plain Go counterpart.
func native(v dgo.Value) interface{} {
	switch v := v.(type) {
	case nil:
		return nil
	case dgo.Map:
		m := make(map[string]interface{}, v.Len())
		v.EachEntry(func(e dgo.MapEntry) {
			m[stringForm(e.Key())] = native(e.Value())
		})
		return m
	case dgo.Array:
		s := make([]interface{}, 0, v.Len())
		v.Each(func(e dgo.Value) {
			s = append(s, native(e))
		})
		return s
	case dgo.String:
		return v.GoString()
	case dgo.Integer:
		return v.GoInt()
	case dgo.Float:
		return v.GoFloat()
	case dgo.Boolean:
		return v.GoBool()
	default:
		if vf.Nil == v {
			return nil
		}
		return v.String()
	}
}

func stringForm(v dgo.Value) string {
	if s, ok := v.(dgo.String); ok {
		return s.GoString()
	}
	return v.String()
}
