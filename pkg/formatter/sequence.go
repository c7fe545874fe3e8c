package formatter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/kataras/feishu-extractor/pkg/extractor"
)

// BlockLookup finds blocks by id. *extractor.Map implements it.
type BlockLookup interface {
	Get(id string) (*extractor.Block, bool)
}

// DefaultSequence returns the first marker of an ordered list nested at depth.
//
// Note that "i" at depth 3 is later advanced as a letter ("i", "j", "k"),
// not as a roman numeral.
func DefaultSequence(depth int) string {
	switch depth {
	case 2:
		return "a"
	case 3:
		return "i"
	default:
		return "1"
	}
}

// ResolveSequence computes the marker of an ordered item whose declared
// sequence is "auto". siblings is the child id list of the item's parent.
//
// The item's run is the unbroken span of ordered siblings ending at the
// item. If the run's head declares a literal sequence, the marker is that
// sequence advanced by the distance from the head to siblingOrder;
// otherwise the depth's default marker is used.
func ResolveSequence(siblings []string, blockID string, siblingOrder, depth int, blocks BlockLookup) string {
	idx := slices.Index(siblings, blockID)
	if idx < 0 {
		return DefaultSequence(depth)
	}

	head := idx
	for head > 0 {
		prev, _ := blocks.Get(siblings[head-1])
		if _, ok := prev.Ordered(); !ok {
			break
		}
		head--
	}

	headBlock, _ := blocks.Get(siblings[head])
	ordered, ok := headBlock.Ordered()
	if !ok || ordered.Sequence == "" || ordered.Sequence == extractor.AutoSequence {
		return DefaultSequence(depth)
	}
	return Advance(ordered.Sequence, siblingOrder-head, depth)
}

// Advance moves seq forward by distance positions. Decimal sequences are
// added numerically, alphabetic sequences are bijective base-26 numerals
// (a=1 ... z=26, aa=27) whose case is preserved when all letters are upper
// case. Anything else, or a letter result below "a", yields the depth's
// default marker.
func Advance(seq string, distance, depth int) string {
	if n, err := strconv.Atoi(seq); err == nil {
		return strconv.Itoa(n + distance)
	}

	if !isLetters(seq) {
		return DefaultSequence(depth)
	}

	upper := strings.ToUpper(seq) == seq
	n := lettersToNumber(strings.ToLower(seq)) + distance
	if n <= 0 {
		return DefaultSequence(depth)
	}

	letters := numberToLetters(n)
	if upper {
		return strings.ToUpper(letters)
	}
	return letters
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func lettersToNumber(s string) int {
	n := 0
	for _, r := range s {
		n = n*26 + int(r-'a') + 1
	}
	return n
}

func numberToLetters(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('a'+n%26))
		n /= 26
	}
	slices.Reverse(buf)
	return string(buf)
}
