// Package chef combines layered configuration documents into a single
// resolved structure using the merge package, and provides the document
// plumbing around it: loading YAML, JSON and TOML documents into dgo values,
// rendering merged values, and decoding them into user structs.
package chef

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/streamer"
	"github.com/lyraproj/dgo/util"
	"github.com/lyraproj/dgo/vf"
	"github.com/lyraproj/dgoyaml/yaml"

	"github.com/BurntSushi/toml"

	"github.com/Tyrael/chef/merge"
)

// A CommandOptions contains the options given to the CLI merge command or a
// REST invocation.
type CommandOptions struct {
	// KnockoutPrefix enables knockout processing. A pointer so that an unset
	// prefix can be told apart from an empty (invalid) one.
	KnockoutPrefix *string

	// HorizontalPrecedence treats all documents as members of the same
	// precedence tier when combining sequences in legacy mode.
	HorizontalPrecedence bool

	// PreserveUnmergeables keeps conflicting destination values instead of
	// overwriting them.
	PreserveUnmergeables bool

	// SortMergedArrays sorts every merged sequence.
	SortMergedArrays bool

	// UnpackArrays is the delimiter used to split delimiter-joined strings
	// into discrete sequence elements. Empty disables unpacking.
	UnpackArrays string

	// LegacyArrayConcat selects the legacy precedence-driven array merge.
	LegacyArrayConcat bool

	// RenderAs is the name of the desired rendering
	RenderAs string
}

// MergeOptions converts the command options to options for the merge engine.
func (c *CommandOptions) MergeOptions(logger hclog.Logger) *merge.Options {
	return &merge.Options{
		PreserveUnmergeables: c.PreserveUnmergeables,
		KnockoutPrefix:       c.KnockoutPrefix,
		HorizontalPrecedence: c.HorizontalPrecedence,
		SortMergedArrays:     c.SortMergedArrays,
		UnpackArrays:         c.UnpackArrays,
		LegacyArrayConcat:    c.LegacyArrayConcat,
		Logger:               logger,
	}
}

// Load reads the document at the given path into a dgo value. The format is
// selected by file extension: .yaml/.yml, .json or .toml. The path `-` reads
// YAML from stdin.
func Load(path string) (dgo.Value, error) {
	if path == `-` {
		return LoadReader(os.Stdin, `yaml`)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case `.yaml`, `.yml`:
		return yaml.Unmarshal(bs)
	case `.json`:
		return unmarshalJSON(bs)
	case `.toml`:
		return unmarshalTOML(bs)
	}
	return nil, UnsupportedFileFormat(path)
}

// LoadReader reads one document of the named format (`yaml`, `json` or
// `toml`) from the given reader.
func LoadReader(r io.Reader, format string) (dgo.Value, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch format {
	case `yaml`:
		return yaml.Unmarshal(bs)
	case `json`:
		return unmarshalJSON(bs)
	case `toml`:
		return unmarshalTOML(bs)
	}
	return nil, UnsupportedFormatName(format)
}

func unmarshalJSON(bs []byte) (dgo.Value, error) {
	var v dgo.Value
	err := util.Catch(func() {
		v = streamer.UnmarshalJSON(bs, nil)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func unmarshalTOML(bs []byte) (dgo.Value, error) {
	m := map[string]interface{}{}
	if err := toml.Unmarshal(bs, &m); err != nil {
		return nil, err
	}
	return vf.Value(m), nil
}

// MergeAndRender loads the given documents lowest precedence first, merges
// each subsequent document over the accumulated result as an overlay, and
// renders the final value on the given writer in accordance with the
// `RenderAs` option.
func MergeAndRender(opts *CommandOptions, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return NoDocuments()
	}
	mo := opts.MergeOptions(hclog.L())
	if err := mo.Validate(); err != nil {
		return err
	}
	result, err := Load(paths[0])
	if err != nil {
		return err
	}
	for _, path := range paths[1:] {
		var overlay dgo.Value
		if overlay, err = Load(path); err != nil {
			return err
		}
		if result, err = merge.Deep(overlay, result, mo); err != nil {
			return err
		}
	}
	renderAs := YAML
	if opts.RenderAs != `` {
		renderAs = RenderName(opts.RenderAs)
	}
	return Render(renderAs, result, out)
}
