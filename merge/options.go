package merge

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/lyraproj/dgo/dgo"
)

// ErrInvalidConfiguration is the error that all option validation failures
// wrap. Use errors.Is to test for it.
var ErrInvalidConfiguration = errors.New(`invalid merge configuration`)

func invalidConfiguration(reason string) error {
	return fmt.Errorf(`%w: %s`, ErrInvalidConfiguration, reason)
}

// Options is the immutable configuration for one merge invocation. The zero
// value selects the defaults: overwrite enabled, no knockout, vertical
// precedence, no sorting, no array unpacking.
type Options struct {
	// PreserveUnmergeables leaves conflicting non-collection values untouched
	// in the destination instead of overwriting them with the source.
	PreserveUnmergeables bool

	// KnockoutPrefix is the sentinel that marks source entries as deletion
	// requests against the destination. It is a pointer so that an unset
	// prefix can be told apart from an empty one; an empty prefix is invalid.
	KnockoutPrefix *string

	// HorizontalPrecedence selects concatenation over replacement when two
	// sequences at the same precedence tier are combined in legacy mode.
	HorizontalPrecedence bool

	// SortMergedArrays sorts the resulting sequence after any array merge.
	// The ordering of mixed-type sequences is whatever dgo defines for them.
	SortMergedArrays bool

	// UnpackArrays is a delimiter used to normalize delimiter-joined strings
	// into discrete sequence elements before merging. Empty disables.
	UnpackArrays string

	// LegacyArrayConcat selects the legacy array combination mode where
	// precedence decides between concatenation and replacement. When false,
	// sequences merge by set-union regardless of precedence.
	LegacyArrayConcat bool

	// Logger receives merge tracing when its level admits debug output. It
	// has no effect on merge results. A nil Logger disables tracing.
	Logger hclog.Logger
}

// Validate checks the option invariants that are enforced before any
// traversal begins. No other error can arise from a merge.
func (o *Options) Validate() error {
	if o.KnockoutPrefix != nil {
		if *o.KnockoutPrefix == `` {
			return invalidConfiguration(`knockout prefix cannot be an empty string`)
		}
		if o.PreserveUnmergeables {
			return invalidConfiguration(`knockout prefix requires that unmergeable values are overwritten`)
		}
	}
	return nil
}

func (o *Options) knockout() string {
	if o.KnockoutPrefix == nil {
		return ``
	}
	return *o.KnockoutPrefix
}

// OptionsFromMap builds Options from a map of option values, for callers that
// carry merge options as data rather than code. Recognized keys are
// preserve_unmergeables, knockout_prefix, horizontal_precedence,
// sort_merged_arrays, unpack_arrays and legacy_array_concat. Unknown keys are
// rejected.
func OptionsFromMap(m dgo.Map) (*Options, error) {
	o := &Options{}
	var err error
	if m != nil {
		m.EachEntry(func(e dgo.MapEntry) {
			if err != nil {
				return
			}
			switch e.Key().String() {
			case `preserve_unmergeables`:
				o.PreserveUnmergeables = boolOption(e)
			case `knockout_prefix`:
				ko := stringOption(e)
				o.KnockoutPrefix = &ko
			case `horizontal_precedence`:
				o.HorizontalPrecedence = boolOption(e)
			case `sort_merged_arrays`:
				o.SortMergedArrays = boolOption(e)
			case `unpack_arrays`:
				o.UnpackArrays = stringOption(e)
			case `legacy_array_concat`:
				o.LegacyArrayConcat = boolOption(e)
			default:
				err = invalidConfiguration(fmt.Sprintf(`unknown option '%s'`, e.Key()))
			}
		})
	}
	if err != nil {
		return nil, err
	}
	if err = o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func boolOption(e dgo.MapEntry) bool {
	if b, ok := e.Value().(dgo.Boolean); ok {
		return b.GoBool()
	}
	return false
}

func stringOption(e dgo.MapEntry) string {
	if s, ok := e.Value().(dgo.String); ok {
		return s.GoString()
	}
	return e.Value().String()
}
