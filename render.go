package chef

import (
	"io"

	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/streamer"
	"github.com/lyraproj/dgo/util"
	"github.com/lyraproj/dgo/vf"
	"github.com/lyraproj/dgoyaml/yaml"
)

// RenderName is the name of the option value that describes how to render output
type RenderName string

const (
	// YAML render output in YAML
	YAML = RenderName(`yaml`)
	// JSON render output in JSON
	JSON = RenderName(`json`)
	// Text render output as plain text
	Text = RenderName(`s`)
)

// Render renders a value on a writer using a specified RenderName
func Render(renderAs RenderName, value dgo.Value, out io.Writer) error {
	switch renderAs {
	case JSON:
		if value == nil || value.Equals(vf.Nil) {
			util.WriteString(out, "null\n")
		} else {
			var bs []byte
			if err := util.Catch(func() { bs = streamer.MarshalJSON(value, nil) }); err != nil {
				return err
			}
			if _, err := out.Write(bs); err != nil {
				return err
			}
			util.WriteByte(out, '\n')
		}

	case YAML:
		if value == nil || value.Equals(vf.Nil) {
			util.WriteString(out, "\n")
		} else {
			bs, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			util.WriteString(out, string(bs))
		}

	case Text:
		util.Fprintln(out, value)

	default:
		return UnknownRendering(string(renderAs))
	}
	return nil
}
