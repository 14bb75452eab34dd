package media

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func keys(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func assertDense(t *testing.T, c *Collection) {
	t.Helper()
	if c.Len() > c.Capacity() {
		t.Fatalf("Collection holds %d items, capacity %d", c.Len(), c.Capacity())
	}
	for i, it := range c.Items() {
		if it.Position() != i {
			t.Fatalf("Item %s at index %d reports position %d", it.Key(), i, it.Position())
		}
	}
}

func TestAppendAssignsTrailingPositions(t *testing.T) {
	c := NewCollection(5)
	a, b, cc := NewPersisted("a"), NewPersisted("b"), NewPersisted("c")

	if err := c.Append(a, b, cc); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	items := c.Items()
	if !reflect.DeepEqual(keys(items), []string{"a", "b", "c"}) {
		t.Errorf("Expected [a b c], got %v", keys(items))
	}
	for i, it := range items {
		if it.Position() != i {
			t.Errorf("Expected position %d, got %d", i, it.Position())
		}
	}
}

func TestAppendOverCapacityIsNoOp(t *testing.T) {
	c := NewCollection(5)
	_ = c.Append(NewPersisted("1"), NewPersisted("2"), NewPersisted("3"), NewPersisted("4"))

	err := c.Append(NewPersisted("5"), NewPersisted("6"))
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("Expected ErrCapacity, got %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("Expected collection unchanged, got %d items", c.Len())
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		expected []string
	}{
		{name: "forward", from: 0, to: 3, expected: []string{"b", "c", "d", "a", "e"}},
		{name: "backward", from: 4, to: 1, expected: []string{"a", "e", "b", "c", "d"}},
		{name: "adjacent", from: 1, to: 2, expected: []string{"a", "c", "b", "d", "e"}},
		{name: "same position", from: 2, to: 2, expected: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollection(5)
			_ = c.Append(NewPersisted("a"), NewPersisted("b"), NewPersisted("c"), NewPersisted("d"), NewPersisted("e"))

			if err := c.Move(tt.from, tt.to); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := keys(c.Items()); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			assertDense(t, c)
		})
	}
}

func TestMoveInvalidIndex(t *testing.T) {
	c := NewCollection(5)
	_ = c.Append(NewPersisted("a"), NewPersisted("b"))

	for _, pair := range [][2]int{{-1, 0}, {0, 2}, {5, 5}} {
		if err := c.Move(pair[0], pair[1]); !errors.Is(err, ErrIndex) {
			t.Errorf("Move(%d, %d): expected ErrIndex, got %v", pair[0], pair[1], err)
		}
	}
	if got := keys(c.Items()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Expected collection unchanged, got %v", got)
	}
}

func TestRemoveAt(t *testing.T) {
	c := NewCollection(5)
	staged := NewStaged(file("x.png", "image/png", 1))
	_ = c.Append(NewPersisted("a"), staged, NewPersisted("b"))

	removed, err := c.RemoveAt(1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if removed != Item(staged) {
		t.Errorf("Expected the staged item to be returned, got %v", removed.Key())
	}
	if got := keys(c.Items()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", got)
	}
	assertDense(t, c)

	if _, err := c.RemoveAt(2); !errors.Is(err, ErrIndex) {
		t.Errorf("Expected ErrIndex, got %v", err)
	}
}

func TestRemoveOnlyItem(t *testing.T) {
	c := NewCollection(5)
	_ = c.Append(NewPersisted("only"))

	if _, err := c.RemoveAt(0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Len() != 0 || len(c.Items()) != 0 {
		t.Errorf("Expected empty collection, got %d items", c.Len())
	}
}

func TestRemoveByKey(t *testing.T) {
	c := NewCollection(5)
	_ = c.Append(NewPersisted("a"), NewPersisted("b"))

	if _, err := c.Remove("b"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := c.Remove("b"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("Expected ErrUnknownItem, got %v", err)
	}
}

func TestPartitionAfterCrossBoundaryMove(t *testing.T) {
	c := NewCollection(5)
	s1 := NewStaged(file("s1.png", "image/png", 1))
	s2 := NewStaged(file("s2.png", "image/png", 1))
	_ = c.Append(NewPersisted("p1"), NewPersisted("p2"), NewPersisted("p3"), s1, s2)

	// s2 becomes the cover, p3 moves behind s1
	if err := c.Move(4, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Move(3, 4); err != nil {
		t.Fatal(err)
	}

	if got := keys(c.Items()); !reflect.DeepEqual(got, []string{s2.Key(), "p1", "p2", s1.Key(), "p3"}) {
		t.Fatalf("Unexpected order %v", got)
	}

	existing, staged := Partition(c.Items())
	if !reflect.DeepEqual(existing, []string{"p1", "p2", "p3"}) {
		t.Errorf("Expected existing [p1 p2 p3], got %v", existing)
	}
	if len(staged) != 2 || staged[0] != s2 || staged[1] != s1 {
		t.Errorf("Expected staged order [s2 s1]")
	}
}

func TestPartitionEmptyExistingIsNotNil(t *testing.T) {
	existing, staged := Partition(nil)
	if existing == nil {
		t.Error("Expected empty, non-nil existing slice")
	}
	if len(staged) != 0 {
		t.Errorf("Expected no staged items, got %d", len(staged))
	}
}

func TestRandomOperationsKeepPositionsDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := NewCollection(5)

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			n := rng.Intn(3) + 1
			items := make([]Item, n)
			for j := range items {
				if rng.Intn(2) == 0 {
					items[j] = NewPersisted(string(rune('a' + rng.Intn(26))))
				} else {
					items[j] = NewStaged(file("f.png", "image/png", 1))
				}
			}
			before := c.Len()
			err := c.Append(items...)
			if before+n > 5 && !errors.Is(err, ErrCapacity) {
				t.Fatalf("Expected ErrCapacity appending %d to %d", n, before)
			}
		case 1:
			if c.Len() > 0 {
				_, _ = c.RemoveAt(rng.Intn(c.Len()))
			}
		case 2:
			if c.Len() > 0 {
				_ = c.Move(rng.Intn(c.Len()), rng.Intn(c.Len()))
			}
		}
		assertDense(t, c)
	}
}
