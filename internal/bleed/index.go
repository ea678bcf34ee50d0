package bleed

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// site is a border pixel stored in the k-d tree. It carries its pixel index so
// a nearest-neighbor hit resolves straight back to the border color table.
type site struct {
	X, Y   float64
	Offset int
}

// Compare returns the signed distance of s from c along dimension d.
func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)
	switch d {
	case 0:
		return s.X - q.X
	case 1:
		return s.Y - q.Y
	default:
		panic("bleed: illegal dimension")
	}
}

// Dims returns the number of dimensions described by the receiver.
func (s site) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between c and s.
func (s site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	dx, dy := s.X-q.X, s.Y-q.Y
	return dx*dx + dy*dy
}

// sites implements kdtree.Interface.
type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int                { return plane{Dim: d, sites: s}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }

// plane is a sortable view of sites along one dimension.
type plane struct {
	kdtree.Dim
	sites
}

// Less orders sites along the plane's dimension. Ties fall back to the pixel
// index, so the order is total.
func (p plane) Less(i, j int) bool {
	if c := p.sites[i].Compare(p.sites[j], p.Dim); c != 0 {
		return c < 0
	}
	return p.sites[i].Offset < p.sites[j].Offset
}

// Pivot sorts the plane and splits it at the median. The same border pixels
// always build the same tree, so equidistant hits resolve the same way on
// every run.
func (p plane) Pivot() int {
	sort.Sort(p)
	return kdtree.Partition(p, p.Len()/2)
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

// borderIndex answers nearest-border-pixel queries.
//
// It is built once per raster and is read-only afterwards, so queries may run
// concurrently.
type borderIndex struct {
	tree *kdtree.Tree
}

// newBorderIndex builds a k-d tree over the border pixel indices of a raster
// with the given width.
func newBorderIndex(width int, border []int) (idx *borderIndex, err error) {
	if width <= 0 || len(border) == 0 {
		return nil, fmt.Errorf("%w: no border points", ErrIndexConstruction)
	}

	points := make(sites, len(border))
	for i, off := range border {
		points[i] = site{
			X:      float64(off % width),
			Y:      float64(off / width),
			Offset: off,
		}
	}

	defer func() {
		if p := recover(); p != nil {
			idx, err = nil, fmt.Errorf("%w: %v", ErrIndexConstruction, p)
		}
	}()

	tree := kdtree.New(points, false)
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrIndexConstruction)
	}
	return &borderIndex{tree: tree}, nil
}

// nearest returns the pixel index of the border pixel closest to (x, y).
func (b *borderIndex) nearest(x, y int) (int, bool) {
	got, _ := b.tree.Nearest(site{X: float64(x), Y: float64(y)})
	if got == nil {
		return 0, false
	}
	return got.(site).Offset, true
}
