package preflate

import "testing"

func newTestHashChain() *HashChain {
	shift, mask := DeriveHashParams(9)
	return newHashChain(9, shift, mask, 10)
}

func TestHashChainInsertAndIterate(t *testing.T) {
	h := newTestHashChain()

	h.insert(7, 0)
	h.insert(7, 4)
	h.insert(7, 9)

	it := h.IterateFromHead(7, 9, 0xffffffff)
	if !it.Valid() {
		t.Fatalf("expected a valid chain entry at head")
	}
	if got := it.Dist(); got != 0 {
		t.Fatalf("newest entry should be at distance 0, got %d", got)
	}

	if !it.Next() {
		t.Fatalf("expected a second chain entry")
	}
	if got := it.Dist(); got != 5 {
		t.Fatalf("second entry distance: got %d, want 5", got)
	}

	if !it.Next() {
		t.Fatalf("expected a third chain entry")
	}
	if got := it.Dist(); got != 9 {
		t.Fatalf("third entry distance: got %d, want 9", got)
	}

	if it.Next() {
		t.Fatalf("chain should be exhausted after three entries")
	}
	if it.Valid() {
		t.Fatalf("exhausted iterator should report invalid")
	}
}

func TestHashChainIterateEmptyBucket(t *testing.T) {
	h := newTestHashChain()
	it := h.IterateFromHead(3, 0, 0xffffffff)
	if it.Valid() {
		t.Fatalf("empty bucket should start invalid")
	}
	if got := it.Dist(); got != 0xffffffff {
		t.Fatalf("invalid iterator distance: got %#x, want 0xffffffff", got)
	}
}

func TestHashChainNextStopsAtMaxDist(t *testing.T) {
	h := newTestHashChain()
	h.insert(2, 0)
	h.insert(2, 3)

	it := h.IterateFromHead(2, 3, 2)
	if !it.Valid() {
		t.Fatalf("head entry should be valid regardless of maxDist")
	}
	if it.Next() {
		t.Fatalf("next entry is beyond maxDist and should stop the walk")
	}
}

func TestHashChainGetHeadReportsNoneForEmptyBucket(t *testing.T) {
	h := newTestHashChain()
	if got := h.GetHead(5); got != chainNone {
		t.Fatalf("untouched bucket: got %d, want chainNone", got)
	}
	h.insert(5, 42)
	if got := h.GetHead(5); got != 42 {
		t.Fatalf("head after insert: got %d, want 42", got)
	}
}

func TestHashChainUpdateHashFillsStartPositionBucket(t *testing.T) {
	shift, mask := DeriveHashParams(9)
	h := newHashChain(9, shift, mask, 10)
	plaintext := []byte("abcabcabcabc")
	in := NewInput(plaintext)

	h.UpdateRunningHash(plaintext[0])
	h.UpdateRunningHash(plaintext[1])
	hashAtStart := h.curHashAt(in)
	h.UpdateHash(in, 4)
	in.Advance(4)

	if h.GetHead(hashAtStart) == chainNone {
		t.Fatalf("expected position 0's hash bucket to hold an entry after UpdateHash")
	}
}

func TestHashChainSkipHashAdvancesWithoutInserting(t *testing.T) {
	shift, mask := DeriveHashParams(9)
	h := newHashChain(9, shift, mask, 10)
	plaintext := []byte("abcabcabcabc")
	in := NewInput(plaintext)

	h.UpdateRunningHash(plaintext[0])
	h.UpdateRunningHash(plaintext[1])
	hashBefore := h.curHashAt(in)
	h.SkipHash(in, 4)
	in.Advance(4)

	if h.GetHead(hashBefore) != chainNone {
		t.Fatalf("SkipHash must not insert any position into the chain")
	}
}
