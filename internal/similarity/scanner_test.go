package similarity

import (
	"fmt"
	"testing"
)

func rec(id, name string) Record {
	return Record{ID: id, Name: name, RegistrationNumber: "BR-" + id}
}

func TestFindSimilarPairs_ExactDuplicate(t *testing.T) {
	records := []Record{
		rec("1", "ABC Enterprises"),
		rec("2", "ABC Enterprises"),
		rec("3", "XYZ Traders"),
	}
	pairs := FindSimilarPairs(records, 0.6, -1)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair, got %d: %+v", len(pairs), pairs)
	}
	p := pairs[0]
	if p.First.ID != "1" || p.Second.ID != "2" {
		t.Fatalf("unexpected pair: %+v", p)
	}
	if p.Score != 1.0 || p.Risk != TierHigh {
		t.Fatalf("expected score 1.0 high, got %+v", p)
	}
}

func TestFindSimilarPairs_EmptyAndSingle(t *testing.T) {
	if got := FindSimilarPairs(nil, 0.6, -1); len(got) != 0 {
		t.Fatalf("nil input: got %d pairs", len(got))
	}
	if got := FindSimilarPairs([]Record{}, 0.6, -1); len(got) != 0 {
		t.Fatalf("empty input: got %d pairs", len(got))
	}
	if got := FindSimilarPairs([]Record{rec("1", "Solo Ltd")}, 0.6, -1); len(got) != 0 {
		t.Fatalf("single input: got %d pairs", len(got))
	}
}

func TestFindSimilarPairs_ThresholdStrict(t *testing.T) {
	records := []Record{
		rec("1", "Freetown Bakery"),
		rec("2", "Freetown Bakerie"),
		rec("3", "Harbour Logistics"),
	}
	pairs := FindSimilarPairs(records, 0.6, -1)
	for _, p := range pairs {
		if p.Score <= 0.6 {
			t.Fatalf("pair below or at threshold leaked: %+v", p)
		}
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	// "Freetown Bakery" -> "Freetown Bakerie" is two edits (y->i, +e)
	// over the longer length 16.
	if pairs[0].Score != 1.0-2.0/16.0 {
		t.Fatalf("score = %v, want %v", pairs[0].Score, 1.0-2.0/16.0)
	}
	if pairs[0].Risk != TierHigh {
		t.Fatalf("risk = %q, want high", pairs[0].Risk)
	}
}

func TestFindSimilarPairs_Dedup(t *testing.T) {
	// Logical duplicates in the input must not produce the same unordered
	// ID pair twice.
	records := []Record{
		rec("1", "Delta Mining"),
		rec("2", "Delta Mining"),
		rec("1", "Delta Mining"),
		rec("2", "Delta Mining"),
	}
	pairs := FindSimilarPairs(records, 0.6, -1)
	seen := make(map[[2]string]bool)
	for _, p := range pairs {
		k := pairKey(p.First.ID, p.Second.ID)
		if seen[k] {
			t.Fatalf("duplicate unordered pair emitted: %+v", p)
		}
		seen[k] = true
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 deduped pair, got %d", len(pairs))
	}
}

func TestFindSimilarPairs_SortAndTies(t *testing.T) {
	records := []Record{
		rec("1", "Alpha Trading Co"),
		rec("2", "Alpha Trading Go"),  // 1 edit vs id 1
		rec("3", "Alpha Trading Coo"), // 1 edit vs id 1
		rec("4", "Alpha Trading Co"),  // exact vs id 1
	}
	pairs := FindSimilarPairs(records, 0.6, -1)
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Score > pairs[i-1].Score {
			t.Fatalf("pairs not sorted descending at %d: %v > %v", i, pairs[i].Score, pairs[i-1].Score)
		}
	}
	if pairs[0].First.ID != "1" || pairs[0].Second.ID != "4" {
		t.Fatalf("expected exact pair first, got %+v", pairs[0])
	}
	// Equal-score pairs keep generation order.
	var tied []Pair
	for _, p := range pairs {
		if p.Score == pairs[len(pairs)-1].Score {
			tied = append(tied, p)
		}
	}
	for i := 1; i < len(tied); i++ {
		a, b := tied[i-1], tied[i]
		if a.First.ID > b.First.ID || (a.First.ID == b.First.ID && a.Second.ID > b.Second.ID) {
			t.Fatalf("tie order not stable: %+v before %+v", a, b)
		}
	}
}

func TestFindSimilarPairs_Limit(t *testing.T) {
	records := []Record{
		rec("1", "Kappa Foods"),
		rec("2", "Kappa Foods"),
		rec("3", "Kappa Food"),
		rec("4", "Kappa Foodz"),
	}
	all := FindSimilarPairs(records, 0.6, -1)
	if len(all) < 3 {
		t.Fatalf("expected several pairs, got %d", len(all))
	}
	if got := FindSimilarPairs(records, 0.6, 2); len(got) != 2 {
		t.Fatalf("limit=2: got %d pairs", len(got))
	}
	if got := FindSimilarPairs(records, 0.6, 0); len(got) != 0 {
		t.Fatalf("limit=0: got %d pairs", len(got))
	}
}

func TestFindSimilarPairs_TruncatesOversizedInput(t *testing.T) {
	records := make([]Record, 0, MaxRecords+1)
	records = append(records,
		rec("dup-a", "Omega Shipping"),
		rec("dup-b", "Omega Shipping"),
	)
	for i := len(records); i < MaxRecords; i++ {
		records = append(records, rec(fmt.Sprintf("%d", i), fmt.Sprintf("Vendor %04d", i)))
	}
	// Past the cap: an exact duplicate of dup-a that a full scan would flag.
	records = append(records, rec("dup-c", "Omega Shipping"))

	// 0.99 keeps the near-identical filler names out; only exact
	// duplicates score strictly above it.
	pairs := FindSimilarPairs(records, 0.99, -1)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair from the truncated prefix, got %d: %+v", len(pairs), pairs)
	}
	p := pairs[0]
	if p.First.ID != "dup-a" || p.Second.ID != "dup-b" {
		t.Fatalf("unexpected pair: %+v", p)
	}
	for _, p := range pairs {
		if p.First.ID == "dup-c" || p.Second.ID == "dup-c" {
			t.Fatalf("record beyond the cap was scanned: %+v", p)
		}
	}
}

func TestFindSimilarPairs_InputNotMutated(t *testing.T) {
	records := []Record{rec("1", "One Ltd"), rec("2", "One Ltd")}
	FindSimilarPairs(records, 0.6, -1)
	if records[0].Name != "One Ltd" || records[1].Name != "One Ltd" {
		t.Fatalf("input records mutated: %+v", records)
	}
}
