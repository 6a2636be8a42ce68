// Package format implements the post-evaluation tree builder described
// by spec §4.7: it walks an Interpreter's top-level allocation list and
// produces a located, colored BTEntry tree, the output a `run`
// subcommand or REPL session ultimately renders.
package format

import (
	"bintpl/colors"
	"bintpl/interpreter"
	"bintpl/reader"
	"bintpl/value"
)

// Location is a BTEntry's position and extent within the binary file,
// in bytes.
type Location struct {
	Offset uint64
	Size   uint64
}

// BTEntry is a located, named value with presentation hints and
// ordered children, per spec §3's "BTEntry (output only)" definition.
type BTEntry struct {
	Name       string
	Value      *value.Value
	Location   Location
	Endianness reader.Endianness
	FGColor    uint32
	BGColor    uint32
	Children   []*BTEntry
}

// Build walks i's top-level allocations in declaration order and
// returns the BTEntry tree. If i is in StateError when Build is
// called, the allocation list is cleared and an empty tree returned,
// per spec §4.7.
func Build(i *interpreter.Interpreter) []*BTEntry {
	if i.State != interpreter.StateNone {
		i.Allocations = nil
		return nil
	}
	endianness := i.Reader.Endianness()
	entries := make([]*BTEntry, 0, len(i.Allocations))
	for _, v := range i.Allocations {
		entries = append(entries, buildEntry(v, endianness, colors.None, colors.None))
	}
	return entries
}

// buildEntry recurses into compound and array members, assigning each
// a Location derived from the Value's own recorded Offset and SizeOf,
// and resolving fg/bg color by inheriting from the parent entry when
// the Value itself was never explicitly colored (spec §4.7: "inherit
// from parent BTEntry otherwise; fall back to the invalid-color
// sentinel").
func buildEntry(v *value.Value, endianness reader.Endianness, inheritedFG, inheritedBG uint32) *BTEntry {
	return buildEntryAt(v, v.Offset, endianness, inheritedFG, inheritedBG)
}

// buildEntryAt builds the entry for v located at offset. offset is
// threaded explicitly rather than always read from v.Offset because
// array elements never get their own Offset stamped by the
// interpreter (only the array Value itself does) — their location is
// derived here from the running position within the array instead.
// Struct and union members do carry their own correct Offset (set
// individually as each was read), so those recurse using it directly.
func buildEntryAt(v *value.Value, offset uint64, endianness reader.Endianness, inheritedFG, inheritedBG uint32) *BTEntry {
	fg := resolveColor(v.FGColor, inheritedFG)
	bg := resolveColor(v.BGColor, inheritedBG)

	e := &BTEntry{
		Name:       v.ID,
		Value:      v,
		Location:   Location{Offset: offset, Size: v.SizeOf()},
		Endianness: endianness,
		FGColor:    fg,
		BGColor:    bg,
	}

	switch {
	case v.Kind == value.Array:
		e.Children = make([]*BTEntry, 0, len(v.Members))
		running := offset
		for _, m := range v.Members {
			e.Children = append(e.Children, buildEntryAt(m, running, endianness, fg, bg))
			running += m.SizeOf()
		}
	case v.IsCompound():
		e.Children = make([]*BTEntry, 0, len(v.Members))
		for _, m := range v.Members {
			e.Children = append(e.Children, buildEntry(m, endianness, fg, bg))
		}
	}
	return e
}

func resolveColor(own, inherited uint32) uint32 {
	if own != colors.None {
		return own
	}
	return inherited
}
