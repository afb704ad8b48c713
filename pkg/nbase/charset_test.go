package nbase

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRegistryValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		symbols string
	}{
		{"duplicate", "0012"},
		{"control", "01\t2"},
		{"decimal point", "0123.45"},
		{"minus", "01-2"},
		{"comma", "01,2"},
		{"space", "01 2"},
		{"single symbol", "0"},
		{"empty", ""},
		{"dash inside cluster", "ab-\u0301"},
	}
	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Validate(tt.symbols)
			if !errors.Is(err, ErrInvalidCharset) {
				t.Fatalf("Validate(%q) error = %v, want ErrInvalidCharset", tt.symbols, err)
			}
		})
	}
}

func TestRegistryValidateReportsSymbol(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Validate("abca")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *Error", err)
	}
	if e.Symbol != "a" || e.Position != 3 {
		t.Errorf("got symbol %q at %d, want \"a\" at 3", e.Symbol, e.Position)
	}
}

func TestCharsetGraphemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		symbols string
		want    []string
	}{
		{"ascii", "abc", []string{"a", "b", "c"}},
		{"emoji", "😀😁😂", []string{"😀", "😁", "😂"}},
		{"zwj family is one symbol", "👨‍👩‍👧x", []string{"👨‍👩‍👧", "x"}},
		{"flag is one symbol", "🇫🇷🇩🇪", []string{"🇫🇷", "🇩🇪"}},
		{"combining mark is normalized", "éa", []string{"é", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewRegistry().Validate(tt.symbols)
			if err != nil {
				t.Fatalf("Validate(%q) error = %v", tt.symbols, err)
			}
			got := c.Symbols()
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Symbols() = %q, want %q", got, tt.want)
			}
			for i, s := range tt.want {
				if d, ok := c.Value(s); !ok || d != i {
					t.Errorf("Value(%q) = %d, %v; want %d", s, d, ok, i)
				}
			}
		})
	}
}

func TestRegistryForBase(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if _, err := r.ForBase("0123", 5); !errors.Is(err, ErrInvalidCharset) {
		t.Errorf("ForBase(\"0123\", 5) error = %v, want ErrInvalidCharset", err)
	}
	c, err := r.ForBase("0123", 4)
	if err != nil {
		t.Fatalf("ForBase(\"0123\", 4) error = %v", err)
	}
	if c.Len() != 4 || !c.Supports(4) || c.Supports(5) {
		t.Errorf("unexpected charset %v (len %d)", c, c.Len())
	}
}

func TestRegistryCacheIdentityAndEviction(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithCapacity(3))
	a1, _ := r.Validate("ab")
	a2, _ := r.Validate("ab")
	if a1 != a2 {
		t.Fatal("repeated Validate returned different pointers")
	}
	for _, s := range []string{"cd", "ef"} {
		if _, err := r.Validate(s); err != nil {
			t.Fatal(err)
		}
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	// The fourth distinct charset flushes everything.
	if _, err := r.Validate("gh"); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() after flush = %d, want 1", r.Len())
	}

	a3, _ := r.Validate("ab")
	if a3 == a1 {
		t.Error("evicted charset was not rebuilt")
	}
	if !sameCharset(a1, a3) {
		t.Error("rebuilt charset does not compare equal to the original")
	}

	s := r.Stats()
	if s.Hits != 1 || s.Misses != 5 || s.Evictions != 1 || s.Size != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	results := make([]*Charset, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := r.Validate(DefaultCharset)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = c
		}(i)
	}
	wg.Wait()
	for _, c := range results[1:] {
		if c != results[0] {
			t.Fatal("concurrent lookups returned different charsets")
		}
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
