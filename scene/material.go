package scene

import "github.com/go-gl/mathgl/mgl32"

// Material is the visual description of a shape part. A nil material means
// that no material is assigned.
//
// Materials are shared by pointer across shape parts and nodes; they are never
// mutated after creation.
type Material struct {
	// Transparency specifies how clear an object is, with 1 being completely
	// transparent and 0 completely opaque.
	Transparency float32

	// SpecularColor and Shininess determine the specular highlights. Lower
	// shininess values produce soft glows, higher values result in sharper,
	// smaller highlights.
	SpecularColor mgl32.Vec3
	Shininess     float32

	// EmissiveColor models glowing objects.
	EmissiveColor mgl32.Vec3

	// DiffuseColor reflects all light sources depending on the angle of the
	// surface with respect to the light source.
	DiffuseColor mgl32.Vec3

	// AmbientIntensity specifies how much ambient light this surface
	// reflects. Ambient color is AmbientIntensity times DiffuseColor.
	AmbientIntensity float32
}

// NewPhongMaterial returns a material with the common Phong defaults.
func NewPhongMaterial() *Material {
	return &Material{
		AmbientIntensity: 0.2,
		DiffuseColor:     mgl32.Vec3{0.8, 0.8, 0.8},
		Shininess:        0.2,
	}
}
