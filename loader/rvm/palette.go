package rvm

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/raw-bytes/cad-import/scene"
)

// materialCache resolves material ids against the fixed 256-entry color
// palette. Materials are created lazily and shared between all groups that
// reference the same id.
type materialCache struct {
	materials map[uint8]*scene.Material
}

func newMaterialCache() *materialCache {
	return &materialCache{materials: make(map[uint8]*scene.Material)}
}

// CreateMaterial returns the Phong material for the given palette index,
// creating it on first use.
func (c *materialCache) CreateMaterial(index uint8) *scene.Material {
	if m, ok := c.materials[index]; ok {
		return m
	}

	color := rvmColors[index]
	m := scene.NewPhongMaterial()
	m.DiffuseColor = mgl32.Vec3{
		float32(color[0]) / 255,
		float32(color[1]) / 255,
		float32(color[2]) / 255,
	}
	c.materials[index] = m
	return m
}

// rvmColors is the fixed color palette of the format. The named block at
// indices 1-32 repeats once at 33-64, indices 65-205 hold the placeholder
// color; both ranges are filled by init.
var rvmColors = [256][3]uint8{
	0:  {80, 80, 80},    // unknown
	1:  {0, 0, 0},       // black
	2:  {80, 0, 0},      // red
	3:  {93, 60, 0},     // orange
	4:  {80, 80, 0},     // yellow
	5:  {0, 80, 0},      // green
	6:  {0, 93, 93},     // cyan
	7:  {0, 0, 80},      // blue
	8:  {87, 0, 87},     // magenta
	9:  {80, 17, 17},    // brown
	10: {100, 100, 100}, // white
	11: {98, 50, 44},    // salmon
	12: {75, 75, 75},    // light grey
	13: {66, 66, 66},    // grey
	14: {55, 40, 55},    // plum
	15: {96, 96, 96},    // white smoke
	16: {56, 14, 42},    // maroon
	17: {0, 100, 50},    // spring green
	18: {96, 87, 70},    // wheat
	19: {93, 79, 20},    // gold
	20: {28, 46, 100},   // royal blue
	21: {93, 91, 67},    // light gold
	22: {93, 7, 54},     // deep pink
	23: {14, 56, 14},    // forest green
	24: {100, 65, 0},    // bright orange
	25: {93, 93, 88},    // ivory
	26: {93, 46, 13},    // chocolate
	27: {28, 51, 71},    // steel blue
	28: {100, 100, 100}, // white
	29: {18, 18, 31},    // midnight
	30: {0, 0, 50},      // navy blue
	31: {80, 57, 62},    // pink
	32: {80, 36, 27},    // coral red

	206: {0, 0, 0},       // black
	207: {100, 100, 100}, // white
	208: {96, 96, 96},    // white smoke
	209: {93, 93, 88},    // ivory
	210: {66, 66, 66},    // grey
	211: {75, 75, 75},    // light grey
	212: {32, 55, 55},    // dark grey
	213: {18, 31, 31},    // dark slate
	214: {80, 0, 0},      // red
	215: {100, 0, 0},     // bright red
	216: {80, 36, 27},    // coral red
	217: {100, 39, 28},   // tomato
	218: {55, 40, 55},    // plum
	219: {93, 7, 54},     // deep pink
	220: {80, 57, 62},    // pink
	221: {98, 50, 44},    // salmon
	222: {93, 60, 0},     // orange
	223: {100, 65, 0},    // bright orange
	224: {100, 50, 0},    // orange red
	225: {56, 14, 42},    // maroon
	226: {80, 80, 0},     // yellow
	227: {93, 79, 20},    // gold
	228: {93, 93, 82},    // light yellow
	229: {93, 91, 67},    // light gold
	230: {60, 80, 20},    // yellow green
	231: {0, 100, 50},    // spring green
	232: {0, 80, 0},      // green
	233: {14, 56, 14},    // forest green
	234: {18, 31, 18},    // dark green
	235: {0, 93, 93},     // cyan
	236: {0, 75, 80},     // turquoise
	237: {46, 93, 78},    // aquamarine
	238: {0, 0, 80},      // blue
	239: {28, 46, 100},   // royal blue
	240: {0, 0, 50},      // navy blue
	241: {69, 88, 90},    // powder blue
	242: {18, 18, 31},    // midnight
	243: {28, 51, 71},    // steel blue
	244: {20, 0, 40},     // indigo
	245: {40, 0, 60},     // mauve
	246: {93, 51, 93},    // violet
	247: {87, 0, 87},     // magenta
	248: {96, 96, 86},    // beige
	249: {96, 87, 70},    // wheat
	250: {86, 58, 44},    // tan
	251: {96, 65, 37},    // sandy brown
	252: {80, 17, 17},    // brown
	253: {62, 62, 37},    // khaki
	254: {93, 46, 13},    // chocolate
	255: {55, 27, 8},     // dark brown
}

func init() {
	copy(rvmColors[33:65], rvmColors[1:33])
	for i := 65; i < 206; i++ {
		rvmColors[i] = [3]uint8{80, 80, 80}
	}
}
