package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Filter selects entries. Attributes combine with AND; the values given for
// one attribute combine with OR. A zero Filter matches every entry.
type Filter struct {
	Methods     []string
	Hosts       []string // exact, or "*.example.com" for a domain and its subdomains
	Statuses    []string // exact code ("404") or class ("4xx")
	MimeTypes   []string // response mime type prefixes
	HasPostData bool
	Text        string // URL tokens, all of which must match
}

// StatusRange parses an exact status code or a class such as "4xx".
func StatusRange(status string) (lo, hi int, err error) {
	s := strings.ToLower(strings.TrimSpace(status))
	if len(s) == 3 && strings.HasSuffix(s, "xx") && s[0] >= '1' && s[0] <= '9' {
		base := int(s[0]-'0') * 100
		return base, base + 99, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil || code < 0 {
		return 0, 0, fmt.Errorf("invalid status %q: want a code like 404 or a class like 4xx", status)
	}
	return code, code, nil
}

// Find returns the entries matching f in capture order.
func (idx *Index) Find(f Filter) ([]int, error) {
	bm, err := idx.plan(f)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out, nil
}

// plan converts a Filter to bitmap operations.
func (idx *Index) plan(f Filter) (*roaring.Bitmap, error) {
	result := idx.All()

	and := func(bm *roaring.Bitmap) {
		if bm == nil {
			result = roaring.New()
			return
		}
		result = roaring.And(result, bm)
	}

	if len(f.Methods) > 0 {
		and(union(f.Methods, idx.BitmapForMethod))
	}
	if len(f.Hosts) > 0 {
		and(union(f.Hosts, idx.BitmapForHost))
	}
	if len(f.Statuses) > 0 {
		var bms []*roaring.Bitmap
		for _, status := range f.Statuses {
			lo, hi, err := StatusRange(status)
			if err != nil {
				return nil, err
			}
			if bm := idx.BitmapForStatusRange(lo, hi); bm != nil {
				bms = append(bms, bm)
			}
		}
		and(orAll(bms))
	}
	if len(f.MimeTypes) > 0 {
		and(union(f.MimeTypes, idx.BitmapForMimePrefix))
	}
	if f.HasPostData {
		and(idx.BitmapForPostData())
	}
	for _, token := range Tokenize(f.Text) {
		and(idx.BitmapForToken(token))
	}

	return result, nil
}

func union(keys []string, lookup func(string) *roaring.Bitmap) *roaring.Bitmap {
	var bms []*roaring.Bitmap
	for _, k := range keys {
		if bm := lookup(k); bm != nil {
			bms = append(bms, bm)
		}
	}
	return orAll(bms)
}

func orAll(bms []*roaring.Bitmap) *roaring.Bitmap {
	if len(bms) == 0 {
		return nil
	}
	return roaring.FastOr(bms...)
}
