package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Hello World", "hello world"},
		{"strips punctuation", "one, two! (three)", "one two three"},
		{"collapses whitespace", "  one   two\tthree\n", "one two three"},
		{"keeps internal apostrophe", "Don't stop believin'", "don't stop believin"},
		{"drops quoting apostrophes", "'round the block", "round the block"},
		{"strips diacritics", "Beyoncé café naïve", "beyonce cafe naive"},
		{"curly apostrophe", "it’s fine", "it's fine"},
		{"digits kept", "Route 66", "route 66"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "Mamá, just killed a man..."
	once := Normalize(in)
	twice := Normalize(once)
	if once != twice {
		t.Errorf("Normalize not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeSymmetric(t *testing.T) {
	// Transcript and corpus spellings of the same lyric should canonicalize
	// to the same string.
	clip := "don’t   STOP me now"
	corpus := "Don't stop me now!"
	if Normalize(clip) != Normalize(corpus) {
		t.Errorf("expected symmetric normalization: %q vs %q", Normalize(clip), Normalize(corpus))
	}
}
