package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 9}, Span{File: 1, Start: 2, End: 9}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanLenAndContains(t *testing.T) {
	outer := Span{File: 0, Start: 3, End: 12}
	if outer.Len() != 9 {
		t.Fatalf("expected len 9, got %d", outer.Len())
	}
	if !outer.Contains(Span{File: 0, Start: 3, End: 12}) {
		t.Fatalf("span must contain itself")
	}
	if outer.Contains(Span{File: 0, Start: 2, End: 5}) {
		t.Fatalf("span must not contain a range starting before it")
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Fatalf("expected empty span")
	}
}
