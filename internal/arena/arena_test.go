package arena

import (
	"testing"
)

func TestPushGet(t *testing.T) {
	tests := []struct {
		name  string
		input []string
	}{
		{
			name:  "ascii names",
			input: []string{"Arial", "Times New Roman"},
		},
		{
			name:  "non-ascii names",
			input: []string{"メイリオ", "微软雅黑"},
		},
		{
			name:  "empty string",
			input: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			var handles []Handle
			for _, s := range tt.input {
				handles = append(handles, a.Push(s))
			}
			for i, h := range handles {
				if got := a.Get(h); got != tt.input[i] {
					t.Errorf("Get(%d) = %q, expected %q", h, got, tt.input[i])
				}
			}
		})
	}
}

func TestNextWalksInsertionOrder(t *testing.T) {
	a := New()
	names := []string{"Arial", "Meiryo", "MS Gothic"}
	for _, s := range names {
		a.Push(s)
	}

	p := Handle(0)
	for i, want := range names {
		if got := a.Get(p); got != want {
			t.Errorf("walk[%d] = %q, expected %q", i, got, want)
		}
		p = a.Next(p)
	}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		stored []string
		cand   string
		dup    bool
	}{
		{"exact match", []string{"Arial", "Meiryo"}, "Arial", true},
		{"case-insensitive match", []string{"Arial"}, "ARIAL", true},
		{"no match", []string{"Arial"}, "Meiryo", false},
		{"empty arena", nil, "Arial", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			for _, s := range tt.stored {
				a.Push(s)
			}
			h := a.Push(tt.cand)
			if got := a.IsDuplicate(0, h); got != tt.dup {
				t.Errorf("IsDuplicate(0, %d) = %v, expected %v", h, got, tt.dup)
			}
		})
	}
}

func TestRewindRemovesLastPush(t *testing.T) {
	a := New()
	a.Push("Arial")
	h := a.Push("Meiryo")
	a.Rewind(h)

	if n := a.Len(); n != 1 {
		t.Fatalf("Len() = %d after rewind, expected 1", n)
	}
	var got []string
	a.Each(func(s string) { got = append(got, s) })
	if len(got) != 1 || got[0] != "Arial" {
		t.Errorf("stored set = %v, expected [Arial]", got)
	}
}

// The insert-if-new pattern must keep the stored set equal to the value set
// regardless of input order and case.
func TestInsertKeepsValueSet(t *testing.T) {
	a := New()
	input := []string{"Arial", "arial", "Meiryo", "ARIAL", "Meiryo", "MS Gothic"}
	added := 0
	for _, s := range input {
		if a.Insert(s) {
			added++
		}
	}
	if added != 3 {
		t.Errorf("inserted %d distinct names, expected 3", added)
	}
	var got []string
	a.Each(func(s string) { got = append(got, s) })
	want := []string{"Arial", "Meiryo", "MS Gothic"}
	if len(got) != len(want) {
		t.Fatalf("stored set = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stored[%d] = %q, expected %q", i, got[i], want[i])
		}
	}
}
