package scene

// ShapeID identifies a shape.
type ShapeID uint64

// IDGenerator hands out shape ids. It is owned by whoever builds a scene and
// threaded explicitly through constructors instead of living in a process
// global.
type IDGenerator struct {
	next ShapeID
}

// NewIDGenerator returns a generator starting at id 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: 1}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() ShapeID {
	id := g.next
	g.next++
	return id
}

// ShapePart is one part of a shape: a mesh with a material assigned. Mesh and
// material are shared by pointer and immutable once attached.
type ShapePart struct {
	Mesh     *Mesh
	Material *Material
}

// Shape is the geometric and visual description of an object. An object is an
// instantiation of a shape; the same shape may be attached to several nodes.
type Shape struct {
	id    ShapeID
	parts []ShapePart
}

// NewShape returns a new empty shape with an id from the given generator.
func NewShape(ids *IDGenerator) *Shape {
	return &Shape{id: ids.Next()}
}

// ID returns the id of the shape.
func (s *Shape) ID() ShapeID { return s.id }

// AddPart adds a part to the shape.
func (s *Shape) AddPart(part ShapePart) {
	s.parts = append(s.parts, part)
}

// Parts returns the parts of the shape.
func (s *Shape) Parts() []ShapePart { return s.parts }
