package segment

import (
	"fmt"
	"strings"
	"testing"
)

const errCountFormat = "Split produced %d chunks, want %d"

func TestSplitEmptyInput(t *testing.T) {
	if got := Split("", 5); got != nil {
		t.Errorf("Split(empty) = %v, want nil", got)
	}

	if got := Split("   \n\n  ", 3); got != nil {
		t.Errorf("Split(blank) = %v, want nil", got)
	}
}

func TestSplitExactCountAndCoverage(t *testing.T) {
	var sb strings.Builder

	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "Paragraph %d carries enough prose to stand on its own as one chunk of the thread with room to spare.\n\n", i)
	}

	text := sb.String()

	for _, target := range []int{6, 8, 12} {
		t.Run(fmt.Sprintf("target_%d", target), func(t *testing.T) {
			chunks := Split(text, target)

			if len(chunks) != target {
				t.Fatalf(errCountFormat, len(chunks), target)
			}

			for i, c := range chunks {
				if strings.TrimSpace(c) == "" {
					t.Errorf("chunk %d is empty", i)
				}
			}

			// every word of the source must survive, in order
			joined := strings.Join(chunks, " ")
			for i := 0; i < 12; i++ {
				marker := fmt.Sprintf("Paragraph %d", i)
				if !strings.Contains(joined, marker) {
					t.Errorf("chunk output lost %q", marker)
				}
			}
		})
	}
}

func TestSplitOrderPreserved(t *testing.T) {
	text := "Alpha starts the story. Bravo continues it. Charlie adds detail. Delta keeps going. Echo nears the end. Foxtrot closes."

	chunks := Split(text, 3)
	if len(chunks) != 3 {
		t.Fatalf(errCountFormat, len(chunks), 3)
	}

	joined := strings.Join(chunks, " ")

	order := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"}

	last := -1
	for _, word := range order {
		idx := strings.Index(joined, word)
		if idx < 0 {
			t.Fatalf("lost %q", word)
		}

		if idx < last {
			t.Errorf("%q appears out of order", word)
		}

		last = idx
	}
}

func TestSplitSingleTarget(t *testing.T) {
	chunks := Split("One short line.", 1)
	if len(chunks) != 1 {
		t.Fatalf(errCountFormat, len(chunks), 1)
	}

	if chunks[0] != "One short line." {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestSplitClampsTarget(t *testing.T) {
	text := strings.Repeat("A solid sentence with several words in it. ", 60)

	chunks := Split(text, 99)
	if len(chunks) > 20 {
		t.Errorf("Split produced %d chunks, want at most 20", len(chunks))
	}

	chunks = Split(text, 0)
	if len(chunks) != 1 {
		t.Errorf(errCountFormat, len(chunks), 1)
	}
}

func TestSplitShortInputFallsShort(t *testing.T) {
	// Too little material to honor the target: fewer chunks are allowed,
	// and everything still must be non-empty.
	chunks := Split("Tiny input.", 5)

	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}

	if len(chunks) > 5 {
		t.Errorf("got %d chunks, want at most 5", len(chunks))
	}

	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitUnbrokenTextUsesFixedWidth(t *testing.T) {
	// no paragraphs, no sentence terminators: fixed width is the only way
	text := strings.Repeat("streamofconsciousness words flowing without any stops whatsoever ", 20)

	chunks := Split(strings.TrimSpace(text), 4)
	if len(chunks) != 4 {
		t.Fatalf(errCountFormat, len(chunks), 4)
	}

	// word-boundary backtracking keeps words whole
	vocabulary := []string{"streamofconsciousness", "words", "flowing", "without", "any", "stops", "whatsoever"}

	for i, c := range chunks {
		lastWord := c[strings.LastIndex(c, " ")+1:]

		whole := false
		for _, w := range vocabulary {
			if lastWord == w {
				whole = true
				break
			}
		}

		if !whole {
			t.Errorf("chunk %d ends mid-word: %q", i, lastWord)
		}
	}
}

func TestMergeRuntAbsorption(t *testing.T) {
	parts := []string{
		strings.Repeat("a", 200),
		strings.Repeat("b", 200),
		"tiny",
		"runt",
		"bits",
	}

	chunks := mergeToCount(parts, 3)
	if len(chunks) != 3 {
		t.Fatalf("mergeToCount produced %d chunks, want 3", len(chunks))
	}

	// once target-1 chunks exist, every remaining part folds into the tail
	last := chunks[len(chunks)-1]
	for _, marker := range []string{"runt", "bits"} {
		if !strings.Contains(last, marker) {
			t.Errorf("final chunk missing %q", marker)
		}
	}
}

func TestEnsureExactCountRemovesFromMiddle(t *testing.T) {
	chunks := EnsureExactCount([]string{"head", "mid1", "mid2", "mid3", "tail"}, 3)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	if chunks[0] != "head" {
		t.Errorf("first chunk = %q, want head", chunks[0])
	}

	if chunks[len(chunks)-1] != "tail" {
		t.Errorf("last chunk = %q, want tail", chunks[len(chunks)-1])
	}
}

func TestEnsureExactCountSplitsLongest(t *testing.T) {
	long := strings.Repeat("many words in this long chunk ", 10)

	chunks := EnsureExactCount([]string{"short", strings.TrimSpace(long)}, 3)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	for i, c := range chunks {
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestEnsureExactCountRespectsSplitFloor(t *testing.T) {
	// both chunks are under the floor: no further splitting happens
	chunks := EnsureExactCount([]string{"short one", "short two"}, 5)

	if len(chunks) != 2 {
		t.Errorf("got %d chunks, want 2 (floor stops splitting)", len(chunks))
	}
}

func TestEnsureExactCountDropsEmpty(t *testing.T) {
	chunks := EnsureExactCount([]string{"", "  ", "real"}, 1)

	if len(chunks) != 1 || chunks[0] != "real" {
		t.Errorf("chunks = %v, want [real]", chunks)
	}
}

func TestSplitAtMidpointSpace(t *testing.T) {
	head, tail := splitAtMidpointSpace("alpha beta gamma delta")

	if head == "" || tail == "" {
		t.Fatalf("split = (%q, %q), want two halves", head, tail)
	}

	if strings.HasSuffix(head, " ") || strings.HasPrefix(tail, " ") {
		t.Errorf("halves not trimmed: (%q, %q)", head, tail)
	}

	head, tail = splitAtMidpointSpace("unbreakable")
	if head != "unbreakable" || tail != "" {
		t.Errorf("spaceless split = (%q, %q)", head, tail)
	}
}

func TestSplitRebalancesUndershotParagraphMerge(t *testing.T) {
	// one oversized paragraph plus runts: greedy merging yields only two
	// chunks, so the shortfall must be repaired by splitting the big one
	// rather than abandoning paragraph boundaries
	huge := strings.TrimSpace(strings.Repeat("wide river delta carries silt ", 20))
	runts := "tiny one\n\ntiny two\n\ntiny three"

	chunks := Split(huge+"\n\n"+runts, 3)

	if len(chunks) != 3 {
		t.Fatalf(errCountFormat, len(chunks), 3)
	}

	if last := chunks[len(chunks)-1]; last != runts {
		t.Errorf("last chunk = %q, want the runt paragraphs kept together", last)
	}
}
