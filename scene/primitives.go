package scene

import (
	cadimport "github.com/raw-bytes/cad-import"
)

// PrimitiveType is the underlying basic primitive type.
type PrimitiveType int

const (
	Points PrimitiveType = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

func (p PrimitiveType) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case LineLoop:
		return "line-loop"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	default:
		return "unknown"
	}
}

// Primitives defines how the vertices of a mesh are combined to primitives.
type Primitives struct {
	primitiveType PrimitiveType
	indices       []uint32
}

// NewPrimitives creates primitive data from the given indices and checks the
// per-type count constraints.
func NewPrimitives(indices []uint32, primitiveType PrimitiveType) (*Primitives, error) {
	n := len(indices)

	switch primitiveType {
	case Lines:
		if n%2 != 0 {
			return nil, cadimport.Errorf(cadimport.KindIndices, "lines indices must be a multiple of 2, got %d", n)
		}
	case LineStrip, LineLoop:
		if n < 2 {
			return nil, cadimport.Errorf(cadimport.KindIndices, "line-strip/loop indices must be at least 2, got %d", n)
		}
	case Triangles:
		if n%3 != 0 {
			return nil, cadimport.Errorf(cadimport.KindIndices, "triangle indices must be a multiple of 3, got %d", n)
		}
	case TriangleStrip, TriangleFan:
		if n < 3 {
			return nil, cadimport.Errorf(cadimport.KindIndices, "triangle-strip/fan indices must be at least 3, got %d", n)
		}
	}

	return &Primitives{primitiveType: primitiveType, indices: indices}, nil
}

// NumIndices returns the number of indices.
func (p *Primitives) NumIndices() int { return len(p.indices) }

// NumPrimitives returns the number of primitives described by the index data.
func (p *Primitives) NumPrimitives() int {
	n := len(p.indices)
	switch p.primitiveType {
	case Points:
		return n
	case Lines:
		return n / 2
	case LineStrip:
		if n == 0 {
			return 0
		}
		return n - 1
	case LineLoop:
		return n
	case Triangles:
		return n / 3
	case TriangleStrip, TriangleFan:
		if n < 2 {
			return 0
		}
		return n - 2
	default:
		return 0
	}
}

// Type returns the primitive type.
func (p *Primitives) Type() PrimitiveType { return p.primitiveType }

// Indices returns the raw index data.
func (p *Primitives) Indices() []uint32 { return p.indices }

// MaxIndex returns the maximal referenced vertex index and whether any index
// exists at all.
func (p *Primitives) MaxIndex() (uint32, bool) {
	if len(p.indices) == 0 {
		return 0, false
	}
	max := p.indices[0]
	for _, i := range p.indices[1:] {
		if i > max {
			max = i
		}
	}
	return max, true
}
