package merge

import "github.com/lyraproj/dgo/dgo"

// RoleKnockoutPrefix is the knockout marker used by RoleMerge to let entries
// further down an inheritance chain delete inherited values.
const RoleKnockoutPrefix = `!merge`

// legacyArrayConcat is the process-wide toggle that selects the legacy array
// combination mode. It is read once per top-level preset call and injected
// into the options, never re-read mid-recursion.
var legacyArrayConcat bool

// SetLegacyArrayConcat switches all subsequent preset merges between legacy
// precedence-driven array combination (true) and set-union (false).
func SetLegacyArrayConcat(enabled bool) {
	legacyArrayConcat = enabled
}

// LegacyArrayConcat returns the current process-wide array combination mode.
func LegacyArrayConcat() bool {
	return legacyArrayConcat
}

// Merge combines the overlay into the base, overlay taking precedence. Both
// arguments are left untouched.
func Merge(overlay, base dgo.Value) dgo.Value {
	return preset(overlay, base, &Options{
		LegacyArrayConcat: legacyArrayConcat})
}

// HorizontalMerge combines two values from the same precedence tier, so
// sequences combine rather than replace. Both arguments are left untouched.
func HorizontalMerge(overlay, base dgo.Value) dgo.Value {
	return preset(overlay, base, &Options{
		HorizontalPrecedence: true,
		LegacyArrayConcat:    legacyArrayConcat})
}

// RoleMerge is HorizontalMerge with the RoleKnockoutPrefix in effect, for
// combining entries along an inheritance chain that may delete inherited
// values. Both arguments are left untouched.
func RoleMerge(overlay, base dgo.Value) dgo.Value {
	ko := RoleKnockoutPrefix
	return preset(overlay, base, &Options{
		HorizontalPrecedence: true,
		KnockoutPrefix:       &ko,
		LegacyArrayConcat:    legacyArrayConcat})
}

func preset(overlay, base dgo.Value, opts *Options) dgo.Value {
	v, err := Deep(overlay, base, opts)
	if err != nil {
		// preset options are fixed and always valid
		panic(err)
	}
	return v
}
