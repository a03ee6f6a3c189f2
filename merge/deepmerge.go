// Package merge implements a deterministic deep merge for nested,
// heterogeneous configuration values. It combines a higher-precedence source
// into a lower-precedence destination, with policy knobs for knockout
// deletion, precedence-aware array combination, array unpacking and sorting.
//
// Values are dgo values. A Map merges with a Map, an Array merges with an
// Array, and everything else resolves through the overwrite policy. The
// merge never fails mid-traversal; the only possible error is an invalid
// option combination, reported before traversal begins.
package merge

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/lyraproj/dgo/dgo"
	"github.com/lyraproj/dgo/vf"
)

// Deep merges source into destination and returns the result. The source
// takes precedence on conflicts unless opts says otherwise. Neither argument
// is modified; both are deep-copied before the merge so that the result
// shares no mutable state with the inputs.
func Deep(source, destination dgo.Value, opts *Options) (dgo.Value, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := newEngine(opts)
	return e.merge(mutableCopy(source), mutableCopy(destination), 0), nil
}

// DeepInPlace is the destructive variant of Deep. The destination is mutated
// in place where its collection type supports mutation (an unfrozen Map or
// Array); the resulting value is always returned since scalar replacement
// cannot happen in place.
func DeepInPlace(source, destination dgo.Value, opts *Options) (dgo.Value, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := newEngine(opts)
	return e.merge(source, destination, 0), nil
}

type engine struct {
	opts   *Options
	ko     string
	logger hclog.Logger
}

func newEngine(opts *Options) *engine {
	return &engine{opts: opts, ko: opts.knockout(), logger: opts.Logger}
}

func (e *engine) overwrite() bool {
	return !e.opts.PreserveUnmergeables
}

// merge dispatches on the runtime shape of the source value.
func (e *engine) merge(src, dest dgo.Value, depth int) dgo.Value {
	if absent(src) {
		return dest
	}
	if absent(dest) && e.overwrite() {
		return src
	}
	switch src := src.(type) {
	case dgo.Map:
		return e.mergeMap(src, dest, depth)
	case dgo.Array:
		return e.mergeArray(src, dest, depth)
	default:
		return e.resolveUnmergeable(src, dest, depth)
	}
}

func (e *engine) mergeMap(src dgo.Map, dest dgo.Value, depth int) dgo.Value {
	dm, ok := dest.(dgo.Map)
	if !ok {
		// the whole source map is resolved at once, not per key
		return e.resolveUnmergeable(src, dest, depth)
	}
	e.trace(depth, `merging maps`, `source`, src, `destination`, dm)
	if dm.Frozen() {
		dm = dm.Copy(false)
	}
	src.EachEntry(func(entry dgo.MapEntry) {
		k := entry.Key()
		sv := entry.Value()
		if absent(sv) {
			// an explicit null needs no traversal
			dm.Put(k, vf.Nil)
			return
		}
		if dv := dm.Get(k); dv != nil {
			dm.Put(k, e.merge(sv, dv, depth+1))
		} else {
			// merging against an empty map rather than copying verbatim so
			// that knockout directives inside a fresh branch are honored
			dm.Put(k, e.merge(sv, vf.MutableMap(), depth+1))
		}
	})
	return dm
}

func (e *engine) mergeArray(src dgo.Array, dest dgo.Value, depth int) dgo.Value {
	if d := e.opts.UnpackArrays; d != `` {
		src = unpack(src, d)
		if da, ok := dest.(dgo.Array); ok {
			dest = unpack(da, d)
		}
	}
	if e.ko != `` {
		if stripped, found := withoutBareKnockout(src, e.ko); found {
			e.trace(depth, `bare knockout clears destination`, `destination`, dest)
			src = stripped
			dest = cleared(dest)
		}
	}
	da, ok := dest.(dgo.Array)
	if !ok {
		return e.resolveUnmergeable(src, dest, depth)
	}
	e.trace(depth, `merging arrays`, `source`, src, `destination`, da)
	if e.ko != `` {
		src, da = knockout(src, da, e.ko)
	}
	var result dgo.Array
	switch {
	case !e.opts.LegacyArrayConcat:
		result = da.WithAll(src).Unique()
	case e.opts.HorizontalPrecedence:
		result = da.WithAll(src)
	default:
		result = src
	}
	if e.opts.SortMergedArrays {
		result = result.Sort()
	}
	return result
}

// resolveUnmergeable decides what happens when source and destination are not
// collections of the same kind. With overwrite disabled the destination
// survives untouched. With overwrite enabled and a knockout prefix in play,
// the source may instead be a deletion directive against the destination.
func (e *engine) resolveUnmergeable(src, dest dgo.Value, depth int) dgo.Value {
	if !e.overwrite() {
		e.trace(depth, `preserving unmergeable destination`, `destination`, dest)
		return dest
	}
	if e.ko == `` {
		return src
	}
	pfx := e.ko + `:`
	switch src := src.(type) {
	case dgo.String:
		s := src.GoString()
		if s == e.ko {
			e.trace(depth, `knockout erases destination`, `destination`, dest)
			return vf.String(``)
		}
		if strings.HasPrefix(s, pfx) {
			return vf.String(strings.TrimPrefix(s, pfx))
		}
		return src
	case dgo.Array:
		filtered := vf.MutableValues()
		src.Each(func(v dgo.Value) {
			if s, ok := v.(dgo.String); ok && strings.HasPrefix(s.GoString(), pfx) {
				return
			}
			filtered.Add(v)
		})
		if filtered.Len() == src.Len() {
			// nothing to knock out, the whole sequence overwrites
			return src
		}
		e.trace(depth, `knockout sequence erases destination`, `destination`, dest)
		return vf.String(``)
	default:
		return src
	}
}

func (e *engine) trace(depth int, msg string, kv ...interface{}) {
	if e.logger != nil && e.logger.IsDebug() {
		e.logger.Debug(msg, append([]interface{}{`depth`, depth}, kv...)...)
	}
}

func absent(v dgo.Value) bool {
	return v == nil || vf.Nil == v
}

// mutableCopy returns a deep, unfrozen copy of collection values. Scalars are
// immutable and shared as is.
func mutableCopy(v dgo.Value) dgo.Value {
	switch v := v.(type) {
	case dgo.Map:
		return v.Copy(false)
	case dgo.Array:
		return v.Copy(false)
	default:
		return v
	}
}

// cleared returns the emptied form of a value: collections lose their
// elements, anything else becomes absent.
func cleared(v dgo.Value) dgo.Value {
	switch v.(type) {
	case dgo.Map:
		return vf.MutableMap()
	case dgo.Array:
		return vf.MutableValues()
	default:
		return vf.Nil
	}
}

// withoutBareKnockout reports whether the array contains the knockout marker
// itself (`ko` or `ko:`) as a literal element and returns the array with all
// such markers removed.
func withoutBareKnockout(a dgo.Array, ko string) (dgo.Array, bool) {
	found := false
	stripped := vf.MutableValues()
	a.Each(func(v dgo.Value) {
		if s, ok := v.(dgo.String); ok {
			if gs := s.GoString(); gs == ko || gs == ko+`:` {
				found = true
				return
			}
		}
		stripped.Add(v)
	})
	if !found {
		return a, false
	}
	return stripped, true
}

// knockout applies `ko:`-prefixed deletion directives from src against dest.
// Each directive removes both the stripped target value and its prefixed form
// from dest, and the directive itself never merges in.
func knockout(src, dest dgo.Array, ko string) (dgo.Array, dgo.Array) {
	pfx := ko + `:`
	var doomed []dgo.Value
	keep := vf.MutableValues()
	src.Each(func(v dgo.Value) {
		if s, ok := v.(dgo.String); ok && strings.HasPrefix(s.GoString(), pfx) {
			doomed = append(doomed, vf.String(strings.TrimPrefix(s.GoString(), pfx)), v)
			return
		}
		keep.Add(v)
	})
	if len(doomed) == 0 {
		return src, dest
	}
	remaining := vf.MutableValues()
	dest.Each(func(v dgo.Value) {
		for _, d := range doomed {
			if d.Equals(v) {
				return
			}
		}
		remaining.Add(v)
	})
	return keep, remaining
}

// unpack normalizes delimiter-joined strings into discrete elements by
// joining the string forms of all elements and splitting the result again.
// Trailing empty segments are dropped, matching how a trailing delimiter is
// conventionally ignored in configuration data.
func unpack(a dgo.Array, delimiter string) dgo.Array {
	if a.Len() == 0 {
		return a
	}
	parts := make([]string, 0, a.Len())
	a.Each(func(v dgo.Value) {
		parts = append(parts, stringForm(v))
	})
	joined := strings.Join(parts, delimiter)
	result := vf.MutableValues()
	if joined == `` {
		return result
	}
	split := strings.Split(joined, delimiter)
	for len(split) > 0 && split[len(split)-1] == `` {
		split = split[:len(split)-1]
	}
	for _, s := range split {
		result.Add(s)
	}
	return result
}

func stringForm(v dgo.Value) string {
	if s, ok := v.(dgo.String); ok {
		return s.GoString()
	}
	return v.String()
}
