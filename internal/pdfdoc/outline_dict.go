package pdfdoc

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Entry is one outline item as stored in the PDF. Page is 1-based. Top and
// Left make the destination an XYZ position on the page; without them the
// destination fits the whole page.
type Entry struct {
	Title    string
	Page     int
	Top      *float64
	Left     *float64
	Bold     bool
	Italic   bool
	Color    *color.SimpleColor
	Children []Entry
}

// Outline item flags, PDF 32000 table 153.
const (
	flagItalic = 1 << 0
	flagBold   = 1 << 1
)

// readEntries walks the outline item chain starting at first. Items without
// a title or a resolvable destination are skipped together with their kids.
func readEntries(ctx *pdfmodel.Context, first *types.IndirectRef, seen map[int]bool) ([]Entry, error) {
	var out []Entry
	for ir := first; ir != nil; {
		objNr := ir.ObjectNumber.Value()
		if seen[objNr] {
			return out, nil
		}
		seen[objNr] = true

		d, err := ctx.DereferenceDict(*ir)
		if err != nil {
			return nil, err
		}
		if d == nil {
			break
		}
		ir = d.IndirectRefEntry("Next")

		title, err := ctx.DereferenceText(d["Title"])
		if err != nil || title == "" {
			continue
		}
		arr, err := destOf(ctx, d)
		if err != nil || len(arr) == 0 {
			continue
		}
		e := Entry{Title: title}
		if e.Page, err = pageOf(ctx, arr[0]); err != nil {
			continue
		}
		e.Left, e.Top = offsetsOf(arr)

		if c := d.ArrayEntry("C"); len(c) == 3 && allNumbers(c) {
			sc := color.NewSimpleColorForArray(c)
			e.Color = &sc
		}
		if f := d.IntEntry("F"); f != nil {
			e.Bold = *f&flagBold != 0
			e.Italic = *f&flagItalic != 0
		}
		if kid := d.IndirectRefEntry("First"); kid != nil {
			if e.Children, err = readEntries(ctx, kid, seen); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// destOf resolves an item's destination, given directly or as a GoTo action,
// to its explicit array form.
func destOf(ctx *pdfmodel.Context, d types.Dict) (types.Array, error) {
	dest, ok := d["Dest"]
	if !ok {
		act, err := ctx.DereferenceDict(d["A"])
		if err != nil || act == nil {
			return nil, errors.New("no destination")
		}
		if s := act.NameEntry("S"); s == nil || *s != "GoTo" {
			return nil, errors.New("not a GoTo action")
		}
		dest = act["D"]
	}
	obj, err := ctx.Dereference(dest)
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case types.Array:
		return v, nil
	case types.Dict:
		return ctx.DereferenceArray(v["D"])
	case types.Name:
		return ctx.DereferenceDestArray(v.Value())
	case types.StringLiteral, types.HexLiteral:
		s, err := pdfmodel.Text(v)
		if err != nil {
			return nil, err
		}
		return ctx.DereferenceDestArray(s)
	}
	return nil, fmt.Errorf("unsupported destination %v", obj)
}

func pageOf(ctx *pdfmodel.Context, o types.Object) (int, error) {
	switch v := o.(type) {
	case types.IndirectRef:
		return ctx.PageNumber(v.ObjectNumber.Value())
	case types.Integer:
		return v.Value() + 1, nil
	}
	return 0, fmt.Errorf("unsupported page reference %v", o)
}

func offsetsOf(arr types.Array) (left, top *float64) {
	if len(arr) < 3 {
		return nil, nil
	}
	kind, _ := arr[1].(types.Name)
	switch kind.Value() {
	case "XYZ":
		left = number(arr[2])
		if len(arr) > 3 {
			top = number(arr[3])
		}
	case "FitH", "FitBH":
		top = number(arr[2])
	case "FitV", "FitBV":
		left = number(arr[2])
	}
	return left, top
}

func number(o types.Object) *float64 {
	switch v := o.(type) {
	case types.Float:
		f := v.Value()
		return &f
	case types.Integer:
		f := float64(v.Value())
		return &f
	}
	return nil
}

func allNumbers(arr types.Array) bool {
	for _, o := range arr {
		if number(o) == nil {
			return false
		}
	}
	return true
}

func orNull(f *float64) types.Object {
	if f == nil {
		return nil
	}
	return types.Float(*f)
}

// setOutline replaces the document catalog's outline with entries. Items are
// written in the given order with explicit destinations, so siblings need
// not be sorted by page. Named destinations are left alone; links elsewhere
// in the document may still use them.
func setOutline(ctx *pdfmodel.Context, entries []Entry) error {
	root, err := ctx.Catalog()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		delete(root, "Outlines")
		ctx.Outlines = nil
		return nil
	}

	outlines := types.Dict{"Type": types.Name("Outlines")}
	ir, err := ctx.IndRefForNewObject(outlines)
	if err != nil {
		return err
	}
	first, last, n, err := writeEntries(ctx, entries, *ir)
	if err != nil {
		return err
	}
	outlines["First"] = *first
	outlines["Last"] = *last
	outlines["Count"] = types.Integer(n)
	root["Outlines"] = *ir
	ctx.Outlines = outlines
	return nil
}

// writeEntries links one sibling chain under parent and returns its ends and
// the number of items it contains, all of them open.
func writeEntries(ctx *pdfmodel.Context, entries []Entry, parent types.IndirectRef) (*types.IndirectRef, *types.IndirectRef, int, error) {
	var (
		first, prev *types.IndirectRef
		prevDict    types.Dict
		total       int
	)
	for _, e := range entries {
		_, pageRef, _, err := ctx.PageDict(e.Page, false)
		if err != nil {
			return nil, nil, 0, err
		}
		if pageRef == nil {
			return nil, nil, 0, fmt.Errorf("page %d out of range", e.Page)
		}
		dest := types.Array{*pageRef, types.Name("Fit")}
		if e.Top != nil || e.Left != nil {
			dest = types.Array{*pageRef, types.Name("XYZ"), orNull(e.Left), orNull(e.Top), nil}
		}
		title, err := types.EscapedUTF16String(e.Title)
		if err != nil {
			return nil, nil, 0, err
		}

		d := types.Dict{
			"Title":  types.StringLiteral(*title),
			"Parent": parent,
			"Dest":   dest,
		}
		if e.Color != nil {
			d["C"] = types.Array{types.Float(e.Color.R), types.Float(e.Color.G), types.Float(e.Color.B)}
		}
		flags := 0
		if e.Bold {
			flags |= flagBold
		}
		if e.Italic {
			flags |= flagItalic
		}
		if flags != 0 {
			d["F"] = types.Integer(flags)
		}

		ir, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return nil, nil, 0, err
		}
		total++

		if len(e.Children) > 0 {
			kFirst, kLast, n, err := writeEntries(ctx, e.Children, *ir)
			if err != nil {
				return nil, nil, 0, err
			}
			d["First"] = *kFirst
			d["Last"] = *kLast
			d["Count"] = types.Integer(n)
			total += n
		}

		if first == nil {
			first = ir
		}
		if prev != nil {
			d["Prev"] = *prev
			prevDict["Next"] = *ir
		}
		prev, prevDict = ir, d
	}
	return first, prev, total, nil
}
