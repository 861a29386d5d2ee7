package tessellate

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// earcut triangulates a planar polygon with holes by ear clipping. vertices
// holds the outer contour followed by the hole contours; holeIndices marks
// the first vertex of each hole. The returned indices reference the input
// vertex list, three per triangle; no new vertices are created.
//
// Hole contours are connected to the outer contour with bridge diagonals
// first, after that plain ear clipping runs with two fallback passes for
// degenerate and self-touching input.
func earcut(vertices []mgl32.Vec2, holeIndices []int) []uint32 {
	hasHoles := len(holeIndices) > 0
	outerLen := len(vertices)
	if hasHoles {
		outerLen = holeIndices[0]
	}

	outerNode := linkedList(vertices, 0, outerLen, true)
	if outerNode == nil || outerNode.next == outerNode.prev {
		return nil
	}

	if hasHoles {
		outerNode = eliminateHoles(vertices, holeIndices, outerNode)
	}

	var triangles []uint32
	earcutLinked(outerNode, &triangles, 0)
	return triangles
}

type earNode struct {
	i          int
	x, y       float64
	prev, next *earNode
	steiner    bool
}

func linkedList(vertices []mgl32.Vec2, start, end int, clockwise bool) *earNode {
	var last *earNode
	if clockwise == (signedArea(vertices, start, end) > 0) {
		for i := start; i < end; i++ {
			last = insertNode(i, vertices[i], last)
		}
	} else {
		for i := end - 1; i >= start; i-- {
			last = insertNode(i, vertices[i], last)
		}
	}

	if last != nil && nodesEqual(last, last.next) {
		removeNode(last)
		last = last.next
	}
	return last
}

// filterPoints removes collinear or duplicate points.
func filterPoints(start, end *earNode) *earNode {
	if start == nil {
		return start
	}
	if end == nil {
		end = start
	}

	p := start
	for {
		again := false
		if !p.steiner && (nodesEqual(p, p.next) || area(p.prev, p, p.next) == 0) {
			removeNode(p)
			p = p.prev
			end = p.prev
			if p == p.next {
				break
			}
			again = true
		} else {
			p = p.next
		}
		if !again && p == end {
			break
		}
	}
	return end
}

// earcutLinked is the main ear clipping loop.
func earcutLinked(ear *earNode, triangles *[]uint32, pass int) {
	if ear == nil {
		return
	}

	stop := ear
	for ear.prev != ear.next {
		prev := ear.prev
		next := ear.next

		if isEar(ear) {
			*triangles = append(*triangles, uint32(prev.i), uint32(ear.i), uint32(next.i))
			removeNode(ear)

			ear = next.next
			stop = next.next
			continue
		}

		ear = next

		// The whole remaining polygon was scanned without finding an ear:
		// clean up, cure self-intersections, finally split and retry.
		if ear == stop {
			switch pass {
			case 0:
				earcutLinked(filterPoints(ear, nil), triangles, 1)
			case 1:
				ear = cureLocalIntersections(filterPoints(ear, nil), triangles)
				earcutLinked(ear, triangles, 2)
			case 2:
				splitEarcut(ear, triangles)
			}
			return
		}
	}
}

func isEar(ear *earNode) bool {
	a, b, c := ear.prev, ear, ear.next
	if area(a, b, c) >= 0 {
		return false // reflex or degenerate
	}

	p := ear.next.next
	for p != ear.prev {
		if pointInTriangle(a.x, a.y, b.x, b.y, c.x, c.y, p.x, p.y) &&
			area(p.prev, p, p.next) >= 0 {
			return false
		}
		p = p.next
	}
	return true
}

// cureLocalIntersections clips pairs of edges that intersect each other.
func cureLocalIntersections(start *earNode, triangles *[]uint32) *earNode {
	p := start
	for {
		a, b := p.prev, p.next.next

		if !nodesEqual(a, b) && intersects(a, p, p.next, b) &&
			locallyInside(a, b) && locallyInside(b, a) {
			*triangles = append(*triangles, uint32(a.i), uint32(p.i), uint32(b.i))

			removeNode(p)
			removeNode(p.next)
			p = b
			start = b
		}

		p = p.next
		if p == start {
			break
		}
	}
	return filterPoints(p, nil)
}

// splitEarcut splits the remaining polygon along a valid diagonal and
// triangulates the halves independently.
func splitEarcut(start *earNode, triangles *[]uint32) {
	a := start
	for {
		b := a.next.next
		for b != a.prev {
			if a.i != b.i && isValidDiagonal(a, b) {
				c := splitPolygon(a, b)

				a = filterPoints(a, a.next)
				c = filterPoints(c, c.next)

				earcutLinked(a, triangles, 0)
				earcutLinked(c, triangles, 0)
				return
			}
			b = b.next
		}
		a = a.next
		if a == start {
			break
		}
	}
}

// eliminateHoles links every hole into the outer contour, creating bridge
// edges from left to right.
func eliminateHoles(vertices []mgl32.Vec2, holeIndices []int, outerNode *earNode) *earNode {
	queue := make([]*earNode, 0, len(holeIndices))
	for i, start := range holeIndices {
		end := len(vertices)
		if i < len(holeIndices)-1 {
			end = holeIndices[i+1]
		}
		list := linkedList(vertices, start, end, false)
		if list == nil {
			continue
		}
		if list == list.next {
			list.steiner = true
		}
		queue = append(queue, getLeftmost(list))
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i].x < queue[j].x })

	for _, hole := range queue {
		outerNode = eliminateHole(hole, outerNode)
	}
	return outerNode
}

func eliminateHole(hole, outerNode *earNode) *earNode {
	bridge := findHoleBridge(hole, outerNode)
	if bridge == nil {
		return outerNode
	}

	bridgeReverse := splitPolygon(bridge, hole)

	filterPoints(bridgeReverse, bridgeReverse.next)
	return filterPoints(bridge, bridge.next)
}

// findHoleBridge finds a point on the outer contour a bridge to the hole's
// leftmost point can be drawn to, per David Eberly's horizontal ray method.
func findHoleBridge(hole, outerNode *earNode) *earNode {
	p := outerNode
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *earNode

	// Find the edge intersected by a leftward horizontal ray from the hole;
	// the endpoint with smaller x is a candidate connection point.
	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				if p.x < p.next.x {
					m = p
				} else {
					m = p.next
				}
				if x == hx {
					return m // hole touches the outer contour
				}
			}
		}
		p = p.next
		if p == outerNode {
			break
		}
	}

	if m == nil {
		return nil
	}

	// Check points inside the triangle of the hole point, the segment
	// intersection and the endpoint; pick the one minimizing the angle with
	// the ray (and the closest on ties) as the connection point.
	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)

	p = m
	for {
		lowX, highX := hx, qx
		if hx < mx {
			lowX, highX = qx, hx
		}
		if hx >= p.x && p.x >= mx && hx != p.x &&
			pointInTriangle(lowX, hy, mx, my, highX, hy, p.x, p.y) {
			tan := math.Abs(hy-p.y) / (hx - p.x)

			if locallyInside(p, hole) &&
				(tan < tanMin || (tan == tanMin && (p.x > m.x || (p.x == m.x && sectorContainsSector(m, p))))) {
				m = p
				tanMin = tan
			}
		}

		p = p.next
		if p == stop {
			break
		}
	}

	return m
}

// sectorContainsSector reports whether the sector in vertex m contains the
// sector in vertex p in the same coordinates.
func sectorContainsSector(m, p *earNode) bool {
	return area(m.prev, m, p.prev) < 0 && area(p.next, m, m.next) < 0
}

func getLeftmost(start *earNode) *earNode {
	p := start
	leftmost := start
	for {
		if p.x < leftmost.x || (p.x == leftmost.x && p.y < leftmost.y) {
			leftmost = p
		}
		p = p.next
		if p == start {
			break
		}
	}
	return leftmost
}

func pointInTriangle(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (cx-px)*(ay-py)-(ax-px)*(cy-py) >= 0 &&
		(ax-px)*(by-py)-(bx-px)*(ay-py) >= 0 &&
		(bx-px)*(cy-py)-(cx-px)*(by-py) >= 0
}

// isValidDiagonal reports whether a-b is a diagonal lying inside the polygon
// that does not intersect any edge.
func isValidDiagonal(a, b *earNode) bool {
	return a.next.i != b.i && a.prev.i != b.i && !intersectsPolygon(a, b) &&
		(locallyInside(a, b) && locallyInside(b, a) && middleInside(a, b) &&
			(area(a.prev, a, b.prev) != 0 || area(a, b.prev, b) != 0) ||
			nodesEqual(a, b) && area(a.prev, a, a.next) > 0 && area(b.prev, b, b.next) > 0)
}

func area(p, q, r *earNode) float64 {
	return (q.y-p.y)*(r.x-q.x) - (q.x-p.x)*(r.y-q.y)
}

func nodesEqual(p1, p2 *earNode) bool {
	return p1.x == p2.x && p1.y == p2.y
}

func intersects(p1, q1, p2, q2 *earNode) bool {
	o1 := sign(area(p1, q1, p2))
	o2 := sign(area(p1, q1, q2))
	o3 := sign(area(p2, q2, p1))
	o4 := sign(area(p2, q2, q1))

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, q1) {
		return true
	}
	if o3 == 0 && onSegment(p2, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(p2, q1, q2) {
		return true
	}
	return false
}

// onSegment checks whether q lies on the segment p-r, assuming collinearity.
func onSegment(p, q, r *earNode) bool {
	return q.x <= math.Max(p.x, r.x) && q.x >= math.Min(p.x, r.x) &&
		q.y <= math.Max(p.y, r.y) && q.y >= math.Min(p.y, r.y)
}

func sign(num float64) int {
	if num > 0 {
		return 1
	}
	if num < 0 {
		return -1
	}
	return 0
}

func intersectsPolygon(a, b *earNode) bool {
	p := a
	for {
		if p.i != a.i && p.next.i != a.i && p.i != b.i && p.next.i != b.i &&
			intersects(p, p.next, a, b) {
			return true
		}
		p = p.next
		if p == a {
			break
		}
	}
	return false
}

func locallyInside(a, b *earNode) bool {
	if area(a.prev, a, a.next) < 0 {
		return area(a, b, a.next) >= 0 && area(a, a.prev, b) >= 0
	}
	return area(a, b, a.prev) < 0 || area(a, a.next, b) < 0
}

// middleInside checks whether the middle of the diagonal a-b is inside the
// polygon.
func middleInside(a, b *earNode) bool {
	p := a
	inside := false
	px := (a.x + b.x) / 2
	py := (a.y + b.y) / 2
	for {
		if ((p.y > py) != (p.next.y > py)) && p.next.y != p.y &&
			(px < (p.next.x-p.x)*(py-p.y)/(p.next.y-p.y)+p.x) {
			inside = !inside
		}
		p = p.next
		if p == a {
			break
		}
	}
	return inside
}

// splitPolygon links two polygon vertices with a bridge, splitting the ring
// into two. Returns the new node of the second ring.
func splitPolygon(a, b *earNode) *earNode {
	a2 := &earNode{i: a.i, x: a.x, y: a.y}
	b2 := &earNode{i: b.i, x: b.x, y: b.y}
	an := a.next
	bp := b.prev

	a.next = b
	b.prev = a

	a2.next = an
	an.prev = a2

	b2.next = a2
	a2.prev = b2

	bp.next = b2
	b2.prev = bp

	return b2
}

func insertNode(i int, v mgl32.Vec2, last *earNode) *earNode {
	p := &earNode{i: i, x: float64(v.X()), y: float64(v.Y())}
	if last == nil {
		p.prev = p
		p.next = p
	} else {
		p.next = last.next
		p.prev = last
		last.next.prev = p
		last.next = p
	}
	return p
}

func removeNode(p *earNode) {
	p.next.prev = p.prev
	p.prev.next = p.next
}

func signedArea(vertices []mgl32.Vec2, start, end int) float64 {
	var sum float64
	j := end - 1
	for i := start; i < end; i++ {
		sum += (float64(vertices[j].X()) - float64(vertices[i].X())) *
			(float64(vertices[i].Y()) + float64(vertices[j].Y()))
		j = i
	}
	return sum
}
