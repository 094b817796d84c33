package resolve

import "testing"

func TestTokenSortRatio_Identical(t *testing.T) {
	a := []string{"tasa", "referencia", "politica", "monetaria"}
	if got := tokenSortRatio(a, a); got != 100 {
		t.Errorf("identical sequences: got %v, want 100", got)
	}
}

func TestTokenSortRatio_OrderInsensitive(t *testing.T) {
	a := []string{"cambio", "tipo", "interbancario"}
	b := []string{"tipo", "cambio", "interbancario"}
	if got := tokenSortRatio(a, b); got != 100 {
		t.Errorf("reordered sequences: got %v, want 100", got)
	}
}

func TestTokenSortRatio_Symmetric(t *testing.T) {
	a := []string{"tasa", "interes"}
	b := []string{"tasa", "interes", "referencia"}
	if tokenSortRatio(a, b) != tokenSortRatio(b, a) {
		t.Error("ratio must be symmetric")
	}
}

func TestTokenSortRatio_Empty(t *testing.T) {
	if got := tokenSortRatio(nil, nil); got != 0 {
		t.Errorf("both empty: got %v, want 0", got)
	}
	if got := tokenSortRatio([]string{"tasa"}, nil); got != 0 {
		t.Errorf("one empty: got %v, want 0", got)
	}
}

func TestTokenSortRatio_Disjoint(t *testing.T) {
	a := []string{"xyz"}
	b := []string{"abc"}
	got := tokenSortRatio(a, b)
	if got >= 50 {
		t.Errorf("disjoint tokens scored too high: %v", got)
	}
}

func TestTokenSortRatio_KnownValue(t *testing.T) {
	// "a b" vs "a": total 4, indel distance 2, ratio 50.
	got := tokenSortRatio([]string{"a", "b"}, []string{"a"})
	if got != 50 {
		t.Errorf("got %v, want 50", got)
	}
}
