// Package scene is the central in-memory data structure for loaded CAD data:
// an assembly tree of nodes referencing shared shapes, meshes and materials.
package scene

import "github.com/raw-bytes/cad-import/units"

// CADData is the result of a successful import: the assembly tree plus the
// length unit its coordinates are expressed in.
type CADData struct {
	tree *Tree
	unit units.Length
}

// NewCADData wraps the given tree together with its length unit.
func NewCADData(tree *Tree, unit units.Length) *CADData {
	return &CADData{tree: tree, unit: unit}
}

// Tree returns the assembly structure.
func (c *CADData) Tree() *Tree { return c.tree }

// Unit returns the length unit of all coordinates.
func (c *CADData) Unit() units.Length { return c.unit }
