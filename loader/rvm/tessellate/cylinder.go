package tessellate

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

// cylinderParameter is the solved resolution of one cylinder tessellation.
type cylinderParameter struct {
	// numRadialCircles is the number of concentric cap rings including the
	// center vertex. 2 means center plus one outer circle.
	numRadialCircles int

	// numHeightSegments along the side wall. 2 means just top and bottom.
	numHeightSegments int

	// numSegmentsPerCircle around the circumference.
	numSegmentsPerCircle int
}

// SegmentsPerCircle solves the number of circle segments from whichever of
// the sag, chord-length and angle bounds is most restrictive, floored at 4.
func SegmentsPerCircle(radius units.Length, options *loader.TessellationOptions) int {
	radiusMM := radius.InMillimeters()
	numSegments := 4
	if radiusMM <= 0 {
		return numSegments
	}

	// For a regular n-gon of radius r the sag is r*(1-cos(pi/n)); solving
	// for n gives n = pi/acos(1-sag/r). A sag >= r is satisfied by any
	// tessellation.
	sagMM := options.MaxSag.InMillimeters()
	if sagMM > 0 && sagMM < radiusMM {
		n := int(math.Ceil(math.Pi / math.Acos(1-sagMM/radiusMM)))
		if n > numSegments {
			numSegments = n
		}
	}

	// The chord length of a segment is sin(pi/n)*2r, so n = pi/asin(l/2r).
	if options.MaxLength != nil {
		maxLengthMM := options.MaxLength.InMillimeters()
		if maxLengthMM > 0 && maxLengthMM < 2*radiusMM {
			n := int(math.Ceil(math.Pi / math.Asin(maxLengthMM/(2*radiusMM))))
			if n > numSegments {
				numSegments = n
			}
		}
	}

	// The angle between adjacent segment normals is 2*pi/n.
	if options.MaxAngle != nil {
		maxAngleRad := options.MaxAngle.InRadians()
		if maxAngleRad > 0 {
			n := int(math.Ceil(2 * math.Pi / maxAngleRad))
			if n > numSegments {
				numSegments = n
			}
		}
	}

	return numSegments
}

// cylinderTessellationParameter derives the full resolution for a cylinder of
// the given radius and height. Height and radial counts depend only on the
// max edge length.
func cylinderTessellationParameter(radius, height units.Length, options *loader.TessellationOptions) cylinderParameter {
	p := cylinderParameter{
		numRadialCircles:     2,
		numHeightSegments:    2,
		numSegmentsPerCircle: SegmentsPerCircle(radius, options),
	}

	if options.MaxLength != nil {
		maxLengthMM := options.MaxLength.InMillimeters()
		if maxLengthMM > 0 {
			if n := int(math.Ceil(height.InMillimeters() / maxLengthMM)); n > 2 {
				p.numHeightSegments = n
			}
			if n := int(math.Ceil(radius.InMillimeters() / maxLengthMM)); n > 2 {
				p.numRadialCircles = n
			}
		}
	}

	return p
}

type capLocation int

const (
	capTop capLocation = iota
	capBottom
)

// cylinderTessellator tessellates one cylinder: two caps built from
// concentric rings and a quad-grid side wall.
type cylinderTessellator struct {
	heightMM float32
	radiusMM float32

	param      cylinderParameter
	unitCircle []mgl32.Vec2

	builder *MeshBuilder
}

func tessellateCylinder(c *primitive.Cylinder, options *loader.TessellationOptions, transform mgl32.Mat3, translation mgl32.Vec3) (*scene.Mesh, error) {
	// The transform may scale the cylinder; solving against the spectrally
	// scaled dimensions keeps the error bounds valid after transformation.
	s := spectralNorm(transform)
	param := cylinderTessellationParameter(
		units.Length(float64(c.Radius*s))*units.Millimeter,
		units.Length(float64(c.Height*s))*units.Millimeter,
		options,
	)

	numVerticesCap := (param.numRadialCircles-1)*param.numSegmentsPerCircle + 1
	numVerticesSide := param.numHeightSegments * param.numSegmentsPerCircle
	numVertices := 2*numVerticesCap + numVerticesSide

	numIndicesCap := (param.numRadialCircles-1)*param.numSegmentsPerCircle*6 + param.numSegmentsPerCircle*3
	numIndicesSide := (param.numHeightSegments - 1) * param.numSegmentsPerCircle * 6
	numIndices := 2*numIndicesCap + numIndicesSide

	t := &cylinderTessellator{
		heightMM:   c.Height,
		radiusMM:   c.Radius,
		param:      param,
		unitCircle: unitCircle(param.numSegmentsPerCircle),
		builder:    NewMeshBuilderWithCapacity(numVertices, numIndices),
	}

	t.tessellateCap(capTop)
	t.tessellateSide()
	t.tessellateCap(capBottom)

	if err := t.builder.Transform(transform, translation); err != nil {
		return nil, err
	}
	return t.builder.Mesh()
}

// tessellateCap builds one cap from a center vertex and concentric rings.
// The winding parity d flips the triangle orientation between top and bottom
// so that both caps face outward.
func (t *cylinderTessellator) tessellateCap(location capLocation) {
	b := t.builder
	numSegments := uint32(t.param.numSegmentsPerCircle)

	var dir float32
	var d uint32
	switch location {
	case capTop:
		dir, d = 1, 0
	case capBottom:
		dir, d = -1, 1
	}

	z := t.heightMM / 2 * dir
	normal := mgl32.Vec3{0, 0, dir}

	vertexOffset := b.AddVertex(mgl32.Vec3{0, 0, z}, normal)

	for circleIndex := 1; circleIndex < t.param.numRadialCircles; circleIndex++ {
		curRadius := t.radiusMM * float32(circleIndex+1) / float32(t.param.numRadialCircles)

		circleVertexOffset := uint32(b.Len())
		for _, p := range t.unitCircle {
			b.AddVertex(mgl32.Vec3{p.X() * curRadius, p.Y() * curRadius, z}, normal)
		}

		if circleIndex == 1 {
			// Innermost ring: a fan around the center vertex.
			for i := uint32(0); i < numSegments; i++ {
				i0 := vertexOffset
				i1 := vertexOffset + 1 + (i+d)%numSegments
				i2 := vertexOffset + 1 + (i+(1+d)%2)%numSegments
				b.AddTriangle(i0, i1, i2)
			}
		} else {
			for i := uint32(0); i < numSegments; i++ {
				i2 := circleVertexOffset + (i+d)%numSegments
				i3 := circleVertexOffset + (i+(1+d)%2)%numSegments
				i0 := i2 - numSegments
				i1 := i3 - numSegments

				b.AddTriangle(i1, i0, i2)
				b.AddTriangle(i1, i2, i3)
			}
		}
	}
}

// tessellateSide builds the quad grid of the side wall, one vertex ring per
// height step with radial normals.
func (t *cylinderTessellator) tessellateSide() {
	b := t.builder
	numSegments := uint32(t.param.numSegmentsPerCircle)
	numHeightSegments := uint32(t.param.numHeightSegments)
	halfHeight := t.heightMM / 2

	triangles := make([]uint32, 0, numSegments*numHeightSegments*6)
	for h := uint32(0); h <= numHeightSegments; h++ {
		z := t.heightMM*float32(h)/float32(numHeightSegments) - halfHeight

		vertexOffset := uint32(b.Len())
		for _, p := range t.unitCircle {
			b.AddVertex(
				mgl32.Vec3{p.X() * t.radiusMM, p.Y() * t.radiusMM, z},
				mgl32.Vec3{p.X(), p.Y(), 0},
			)
		}

		if h < numHeightSegments {
			for i := uint32(0); i < numSegments; i++ {
				i1 := vertexOffset + i
				i0 := vertexOffset + (i+1)%numSegments
				i2 := i0 + numSegments
				i3 := i1 + numSegments
				triangles = append(triangles, i1, i0, i2, i1, i2, i3)
			}
		}
	}

	b.AddTriangles(triangles)
}

// unitCircle samples the unit circle counter-clockwise.
func unitCircle(numSegments int) []mgl32.Vec2 {
	circle := make([]mgl32.Vec2, numSegments)
	for i := range circle {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		circle[i] = mgl32.Vec2{float32(math.Cos(angle)), float32(math.Sin(angle))}
	}
	return circle
}
