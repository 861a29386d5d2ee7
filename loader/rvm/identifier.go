package rvm

// Identifier is a section keyword. Keywords are encoded as three or four
// 32-bit big-endian words where only the lowest byte of each word carries an
// ASCII character.
type Identifier struct {
	chars [4]byte
	len   int
}

// Section keywords of the format.
var (
	KeywordHead     = mustIdentifier("HEAD")
	KeywordEnd      = mustIdentifier("END")
	KeywordModel    = mustIdentifier("MODL")
	KeywordGroup    = mustIdentifier("CNTB")
	KeywordEndGroup = mustIdentifier("CNTE")
	KeywordPrim     = mustIdentifier("PRIM")
	KeywordColor    = mustIdentifier("COLR")
)

var validKeywords = []Identifier{
	KeywordHead, KeywordEnd, KeywordModel,
	KeywordGroup, KeywordEndGroup, KeywordPrim, KeywordColor,
}

func mustIdentifier(s string) Identifier {
	var id Identifier
	if len(s) < 3 || len(s) > 4 {
		panic("keyword must have 3 or 4 characters: " + s)
	}
	copy(id.chars[:], s)
	id.len = len(s)
	return id
}

// IsEmpty reports whether the identifier carries no keyword. Empty identifiers
// signal the end of a section stream.
func (id Identifier) IsEmpty() bool { return id.len == 0 }

// IsValid reports whether the identifier is one of the known section keywords.
func (id Identifier) IsValid() bool {
	for _, k := range validKeywords {
		if id == k {
			return true
		}
	}
	return false
}

func (id Identifier) String() string {
	return string(id.chars[:id.len])
}
