package rvm

import (
	"bufio"

	cadimport "github.com/raw-bytes/cad-import"
)

// KeywordScanner finds the next section keyword in the stream. Files written
// by some exporters carry stray bytes between sections, so the scanner
// resynchronizes: whenever the bytes at the current position do not form a
// keyword it discards a single byte and tries again.
type KeywordScanner struct {
	r *bufio.Reader
}

// NewKeywordScanner wraps the given buffered reader. Payload reads must go
// through the same reader so that scanning and decoding stay aligned.
func NewKeywordScanner(r *bufio.Reader) *KeywordScanner {
	return &KeywordScanner{r: r}
}

// Scan returns the next keyword. END is encoded in three words, every other
// keyword in four; the fourth word is only consumed once the first three
// formed a keyword prefix, so a trailing END is never read past. A stream
// ending cleanly at a keyword boundary yields the empty identifier; running
// out of bytes mid-keyword is an I/O error.
func (s *KeywordScanner) Scan() (Identifier, error) {
	for {
		buf, err := s.r.Peek(12)
		if err != nil {
			if len(buf) == 0 {
				return Identifier{}, nil
			}
			return Identifier{}, cadimport.WrapError(cadimport.KindIO, err, "failed to read keyword")
		}

		id, ok := parseKeywordWords(buf, 3)
		if !ok {
			s.r.Discard(1)
			continue
		}
		if id == KeywordEnd {
			s.r.Discard(12)
			return id, nil
		}

		buf, err = s.r.Peek(16)
		if err != nil {
			// Not enough bytes for a four word keyword; resynchronize.
			s.r.Discard(1)
			continue
		}
		id, ok = parseKeywordWords(buf, 4)
		if !ok || !id.IsValid() {
			s.r.Discard(1)
			continue
		}
		s.r.Discard(16)
		return id, nil
	}
}

// parseKeywordWords interprets n big-endian words as keyword characters. The
// upper three bytes of every word must be zero.
func parseKeywordWords(buf []byte, n int) (Identifier, bool) {
	var id Identifier
	for w := 0; w < n; w++ {
		if buf[w*4] != 0 || buf[w*4+1] != 0 || buf[w*4+2] != 0 {
			return Identifier{}, false
		}
		id.chars[w] = buf[w*4+3]
	}
	id.len = n
	return id, true
}
