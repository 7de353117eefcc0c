package iupac

import (
	"log"
	"strings"
)

// Bases is the unambiguous DNA alphabet.
const Bases string = "ACGT"

// Ambigs lists the ambiguity codes in dynamic programming order:
// doublets, then triplets, then N.
const Ambigs string = "RYKMSWBDHVN"

// Letters is every letter a pattern may contain.
const Letters string = Bases + Ambigs

// toDNA maps each IUPAC letter to the bases it matches.
var toDNA = map[byte]string{
	'A': "A",
	'C': "C",
	'G': "G",
	'T': "T",
	'R': "AG",
	'Y': "CT",
	'K': "GT",
	'M': "AC",
	'S': "CG",
	'W': "AT",
	'B': "CGT",
	'D': "AGT",
	'H': "ACT",
	'V': "ACG",
	'N': "ACGT",
}

// Pairs gives, for each ambiguity code, the two codes whose union it is.
// Every pair only refers to letters earlier in Ambigs (or bases) so counts
// can be built up bottom-up.
var Pairs = map[byte][2]byte{
	'R': {'A', 'G'},
	'M': {'A', 'C'},
	'W': {'A', 'T'},
	'Y': {'C', 'T'},
	'S': {'C', 'G'},
	'K': {'G', 'T'},
	'H': {'A', 'Y'}, // ACT
	'V': {'A', 'S'}, // ACG
	'D': {'A', 'K'}, // AGT
	'B': {'C', 'K'}, // CGT
	'N': {'A', 'B'}, // ACGT
}

var complement = [256]byte{}

var fromSet = map[string]byte{}

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	from := "ACGTURYKMBVDHSWN"
	to := "TGCAAYRMKVBHDSWN"
	for i := 0; i < len(from); i++ {
		complement[from[i]] = to[i]
	}
	for i := 0; i < len(Letters); i++ {
		fromSet[toDNA[Letters[i]]] = Letters[i]
	}
}

// IsBase reports whether c is one of A, C, G or T.
func IsBase(c byte) bool {
	return c == 'A' || c == 'C' || c == 'G' || c == 'T'
}

// Expand returns the bases matched by an IUPAC letter.
func Expand(c byte) string {
	s, found := toDNA[c]
	if !found {
		log.Panicf("ERROR: unrecognized IUPAC letter '%c'", c)
	}
	return s
}

// FromBases returns the IUPAC letter matching exactly the given set of bases.
// The bases must be sorted alphabetically and unique.
func FromBases(bases string) (byte, bool) {
	c, found := fromSet[bases]
	return c, found
}

// Matches reports whether sequence base b is one of the bases of letter c.
// N in a sequence never matches.
func Matches(c, b byte) bool {
	if !IsBase(b) {
		return false
	}
	return strings.IndexByte(toDNA[c], b) >= 0
}

// ReverseComplement returns the reverse complement of an IUPAC string.
func ReverseComplement(s string) string {
	rc := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		rc[len(s)-1-i] = complement[s[i]]
	}
	return string(rc)
}

// Canonical returns the key under which a pattern is stored. When both
// strands are searched this is the alphabetically smaller of the pattern and
// its reverse complement.
func Canonical(s string, givenOnly bool) string {
	if givenOnly {
		return s
	}
	rc := ReverseComplement(s)
	if rc < s {
		return rc
	}
	return s
}

// IsExact reports whether s contains only A, C, G and T.
func IsExact(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsBase(s[i]) {
			return false
		}
	}
	return true
}

// Collapse upper-cases a raw sequence, converts U to T and replaces every
// other letter that is not A, C, G or T with N.
func Collapse(s string) string {
	out := make([]byte, len(s))
	var c byte
	for i := 0; i < len(s); i++ {
		c = s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch c {
		case 'A', 'C', 'G', 'T':
			out[i] = c
		case 'U':
			out[i] = 'T'
		default:
			out[i] = 'N'
		}
	}
	return string(out)
}
