// Package rvm reads the binary RVM plant model format: a stream of big-endian
// 32-bit words organized in keyword-tagged sections with recursively nested
// groups of parametric primitives.
package rvm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
)

// Header holds the metadata of the HEAD section.
type Header struct {
	Version  uint32
	Banner   string
	FileNote string
	Date     string
	User     string
	Encoding string
}

// ModelHeader holds the metadata of the MODL section.
type ModelHeader struct {
	Version     uint32
	ProjectName string
	ModelName   string
}

// Interpreter receives the events of one parsed stream in document order.
// Returning an error from any callback aborts the parse.
type Interpreter interface {
	// Header is invoked once after the HEAD section was read.
	Header(h *Header) error

	// Model is invoked once after the MODL section was read.
	Model(m *ModelHeader) error

	// BeginGroup is invoked when a CNTB section opens. The translation is the
	// group origin in millimeters, materialID indexes the fixed color table.
	BeginGroup(name string, translation mgl32.Vec3, materialID uint32) error

	// EndGroup is invoked when the matching CNTE is reached.
	EndGroup() error

	// Primitive is invoked for every PRIM record with the decoded solid and
	// its placement.
	Primitive(p primitive.Primitive, transform mgl32.Mat3, translation mgl32.Vec3) error
}

// Parser decodes one RVM byte stream and reports it to an Interpreter.
type Parser struct {
	r       *bufio.Reader
	scanner *KeywordScanner
	interp  Interpreter
	decoder *encoding.Decoder
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader, interp Interpreter) *Parser {
	br := bufio.NewReader(r)
	return &Parser{
		r:       br,
		scanner: NewKeywordScanner(br),
		interp:  interp,
	}
}

// Parse runs the state machine over the whole stream: HEAD, MODL, then a loop
// of CNTB groups and PRIM records until END.
func (p *Parser) Parse() error {
	if err := p.parseHead(); err != nil {
		return err
	}
	if err := p.parseModel(); err != nil {
		return err
	}

	for {
		id, err := p.scanner.Scan()
		if err != nil {
			return err
		}
		// A clean end of stream at the top level counts as END.
		if id.IsEmpty() {
			return nil
		}
		switch id {
		case KeywordGroup:
			if err := p.parseGroup(); err != nil {
				return err
			}
		case KeywordPrim:
			if err := p.parsePrimitive(); err != nil {
				return err
			}
		case KeywordEnd:
			return nil
		default:
			return cadimport.Errorf(cadimport.KindInvalidFormat, "unexpected keyword %s in model data", id)
		}
	}
}

func (p *Parser) parseHead() error {
	if err := p.expectKeyword(KeywordHead); err != nil {
		return err
	}

	h := &Header{}
	var err error
	if h.Version, err = p.readUint32(); err != nil {
		return err
	}
	if h.Banner, err = p.readString(); err != nil {
		return err
	}
	if h.FileNote, err = p.readString(); err != nil {
		return err
	}
	if h.Date, err = p.readString(); err != nil {
		return err
	}
	if h.User, err = p.readString(); err != nil {
		return err
	}
	if h.Version >= 2 {
		if h.Encoding, err = p.readString(); err != nil {
			return err
		}
		p.setEncoding(h.Encoding)
	}

	return p.interp.Header(h)
}

func (p *Parser) parseModel() error {
	if err := p.expectKeyword(KeywordModel); err != nil {
		return err
	}

	m := &ModelHeader{}
	var err error
	if m.Version, err = p.readUint32(); err != nil {
		return err
	}
	if m.ProjectName, err = p.readString(); err != nil {
		return err
	}
	if m.ModelName, err = p.readString(); err != nil {
		return err
	}

	return p.interp.Model(m)
}

// parseGroup reads one CNTB section after its keyword was consumed and
// recurses over the contained sections until the matching CNTE.
func (p *Parser) parseGroup() error {
	if _, err := p.readUint32(); err != nil { // version
		return err
	}
	name, err := p.readString()
	if err != nil {
		return err
	}
	translation, err := p.readVec3()
	if err != nil {
		return err
	}
	materialID, err := p.readUint32()
	if err != nil {
		return err
	}
	if materialID > math.MaxUint8 {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "material id %d out of range", materialID)
	}

	if err := p.interp.BeginGroup(name, translation, materialID); err != nil {
		return err
	}

	for {
		id, err := p.scanner.Scan()
		if err != nil {
			return err
		}
		if id.IsEmpty() {
			return cadimport.Errorf(cadimport.KindInvalidFormat, "stream ended inside group %q", name)
		}
		switch id {
		case KeywordGroup:
			if err := p.parseGroup(); err != nil {
				return err
			}
		case KeywordPrim:
			if err := p.parsePrimitive(); err != nil {
				return err
			}
		case KeywordEndGroup:
			if _, err := p.readUint32(); err != nil { // version
				return err
			}
			return p.interp.EndGroup()
		default:
			return cadimport.Errorf(cadimport.KindInvalidFormat, "unexpected keyword %s in group", id)
		}
	}
}

// parsePrimitive reads one PRIM record after its keyword was consumed.
func (p *Parser) parsePrimitive() error {
	if _, err := p.readUint32(); err != nil { // version
		return err
	}
	primitiveType, err := p.readUint32()
	if err != nil {
		return err
	}

	// 12 floats: the columns of the 3x3 linear part followed by the
	// translation. The trailing 6-float bounding box is discarded.
	var m [12]float32
	for i := range m {
		if m[i], err = p.readFloat32(); err != nil {
			return err
		}
	}
	for i := 0; i < 6; i++ {
		if _, err := p.readFloat32(); err != nil {
			return err
		}
	}

	prim, err := primitive.Decode(p.r, primitiveType)
	if err != nil {
		return err
	}

	transform := mgl32.Mat3FromCols(
		mgl32.Vec3{m[0], m[1], m[2]},
		mgl32.Vec3{m[3], m[4], m[5]},
		mgl32.Vec3{m[6], m[7], m[8]},
	)
	translation := mgl32.Vec3{m[9], m[10], m[11]}
	return p.interp.Primitive(prim, transform, translation)
}

func (p *Parser) expectKeyword(expected Identifier) error {
	id, err := p.scanner.Scan()
	if err != nil {
		return err
	}
	if id.IsEmpty() {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "expected keyword %s, stream ended", expected)
	}
	if id != expected {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "expected keyword %s, got %s", expected, id)
	}
	return nil
}

// setEncoding switches string decoding to the character set named in the
// header. The literal name "Unicode UTF-8" is the format's way of spelling
// UTF-8, which needs no transformation.
func (p *Parser) setEncoding(name string) {
	if name == "" || name == "Unicode UTF-8" {
		p.decoder = nil
		return
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		log.Printf("[rvm] unknown header encoding %q, keeping raw bytes", name)
		p.decoder = nil
		return
	}
	p.decoder = enc.NewDecoder()
}

func (p *Parser) readUint32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(p.r, buf[:]); err != nil {
		return 0, cadimport.WrapError(cadimport.KindIO, err, "failed to read u32")
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (p *Parser) readFloat32() (float32, error) {
	v, err := p.readUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (p *Parser) readVec3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i := range v {
		f, err := p.readFloat32()
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

// maxStringWords bounds the word count of a string record. Real files carry
// short names and banners; longer counts are corrupt length data.
const maxStringWords = 1 << 16

// readString reads a word-count-prefixed string and trims trailing NUL
// padding. Strings are decoded with the header encoding once it is known.
func (p *Parser) readString() (string, error) {
	words, err := p.readUint32()
	if err != nil {
		return "", err
	}
	if words > maxStringWords {
		return "", cadimport.Errorf(cadimport.KindInvalidFormat, "string length of %d words is not plausible", words)
	}
	buf := make([]byte, int(words)*4)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return "", cadimport.WrapError(cadimport.KindIO, err, "failed to read string")
	}
	buf = bytes.TrimRight(buf, "\x00")

	if p.decoder != nil {
		decoded, err := p.decoder.Bytes(buf)
		if err == nil {
			return string(decoded), nil
		}
		log.Printf("[rvm] failed to decode string with header encoding: %v", err)
	}
	return string(buf), nil
}
