package chart

import (
	"math"
	"sort"
)

// PackNode is a node of a circle packing hierarchy. Leaves carry a value;
// the value of a parent is the sum of its children.
type PackNode struct {
	Name     string
	Value    float64
	Sign     int
	Children []*PackNode

	X float64
	Y float64
	R float64

	next *PackNode
	prev *PackNode
}

// Pack lays out the hierarchy rooted at root as nested circles fitting a
// width x height area. Radii grow with the square root of the values and
// sibling circles are kept padding pixels apart.
func Pack(root *PackNode, width, height, padding float64) {
	sumValues(root)
	sortChildren(root)
	root.X, root.Y = 0, 0
	visitAfter(root, func(n *PackNode) {
		n.R = math.Sqrt(n.Value)
	})
	visitAfter(root, packSiblings)
	if padding > 0 {
		dr := padding * math.Max(2*root.R/width, 2*root.R/height) / 2
		visitAfter(root, func(n *PackNode) { n.R += dr })
		visitAfter(root, packSiblings)
		visitAfter(root, func(n *PackNode) { n.R -= dr })
	}
	k := 1 / math.Max(2*root.R/width, 2*root.R/height)
	if math.IsInf(k, 0) || math.IsNaN(k) {
		k = 1
	}
	packTransform(root, width/2, height/2, k)
}

// Nodes returns the hierarchy in pre-order, root first.
func (n *PackNode) Nodes() []*PackNode {
	list := []*PackNode{n}
	for _, c := range n.Children {
		list = append(list, c.Nodes()...)
	}
	return list
}

func sumValues(n *PackNode) float64 {
	if len(n.Children) == 0 {
		return n.Value
	}
	var sum float64
	for _, c := range n.Children {
		sum += sumValues(c)
	}
	n.Value = sum
	return sum
}

func sortChildren(n *PackNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Value < n.Children[j].Value
	})
	for _, c := range n.Children {
		sortChildren(c)
	}
}

func visitAfter(n *PackNode, fn func(*PackNode)) {
	for _, c := range n.Children {
		visitAfter(c, fn)
	}
	fn(n)
}

// packSiblings places the children of n around each other along a front
// chain, then centres them on n and sets the radius of n.
func packSiblings(n *PackNode) {
	nodes := n.Children
	if len(nodes) == 0 {
		return
	}
	var (
		xmin, xmax = math.Inf(1), math.Inf(-1)
		ymin, ymax = math.Inf(1), math.Inf(-1)
	)
	bound := func(c *PackNode) {
		xmin = math.Min(c.X-c.R, xmin)
		xmax = math.Max(c.X+c.R, xmax)
		ymin = math.Min(c.Y-c.R, ymin)
		ymax = math.Max(c.Y+c.R, ymax)
	}
	for _, c := range nodes {
		c.next, c.prev = c, c
	}

	a := nodes[0]
	a.X, a.Y = -a.R, 0
	bound(a)
	if len(nodes) > 1 {
		b := nodes[1]
		b.X, b.Y = b.R, 0
		bound(b)
		if len(nodes) > 2 {
			c := nodes[2]
			packPlace(a, b, c)
			bound(c)
			packInsert(a, c)
			a.prev = c
			packInsert(c, b)
			b = a.next
			for i := 3; i < len(nodes); i++ {
				c = nodes[i]
				packPlace(a, b, c)

				var (
					isect  bool
					s1, s2 = 1, 1
					j      = b.next
					k      = a.prev
				)
				for ; j != b; j, s1 = j.next, s1+1 {
					if packIntersects(j, c) {
						isect = true
						break
					}
				}
				if isect {
					for ; k != j.prev; k, s2 = k.prev, s2+1 {
						if packIntersects(k, c) {
							break
						}
					}
					if s1 < s2 || (s1 == s2 && b.R < a.R) {
						b = j
						packSplice(a, b)
					} else {
						a = k
						packSplice(a, b)
					}
					i--
					continue
				}
				packInsert(a, c)
				b = c
				bound(c)
			}
		}
	}

	var (
		cx = (xmin + xmax) / 2
		cy = (ymin + ymax) / 2
		cr float64
	)
	for _, c := range nodes {
		c.X -= cx
		c.Y -= cy
		cr = math.Max(cr, c.R+math.Hypot(c.X, c.Y))
	}
	n.R = cr
	for _, c := range nodes {
		c.next, c.prev = nil, nil
	}
}

func packInsert(a, b *PackNode) {
	c := a.next
	a.next = b
	b.prev = a
	b.next = c
	c.prev = b
}

func packSplice(a, b *PackNode) {
	a.next = b
	b.prev = a
}

func packIntersects(a, b *PackNode) bool {
	var (
		dx = b.X - a.X
		dy = b.Y - a.Y
		dr = a.R + b.R
	)
	return .999*dr*dr > dx*dx+dy*dy
}

// packPlace puts c tangent to both a and b.
func packPlace(a, b, c *PackNode) {
	var (
		db = a.R + c.R
		dx = b.X - a.X
		dy = b.Y - a.Y
	)
	if db == 0 || (dx == 0 && dy == 0) {
		c.X = a.X + db
		c.Y = a.Y
		return
	}
	var (
		da = b.R + c.R
		dc = dx*dx + dy*dy
	)
	da *= da
	db *= db
	var (
		x = .5 + (db-da)/(2*dc)
		y = math.Sqrt(math.Max(0, 2*da*(db+dc)-(db-dc)*(db-dc)-da*da)) / (2 * dc)
	)
	c.X = a.X + x*dx + y*dy
	c.Y = a.Y + x*dy - y*dx
}

func packTransform(n *PackNode, x, y, k float64) {
	x += k * n.X
	y += k * n.Y
	n.X, n.Y = x, y
	n.R *= k
	for _, c := range n.Children {
		packTransform(c, x, y, k)
	}
}
