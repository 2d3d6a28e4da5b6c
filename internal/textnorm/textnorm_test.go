package textnorm

import "testing"

func TestNormalizeScenarios(t *testing.T) {
	cases := map[string]string{
		"  Hello, WORLD!!  ": "hello world",
		"A&B---C///D":        "a b c d",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  Hello, WORLD!!  ", "a b c", "", "123-456"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
		if len(once) > 0 {
			if once[0] == ' ' || once[len(once)-1] == ' ' {
				t.Errorf("Normalize(%q) has leading/trailing space: %q", in, once)
			}
		}
	}
}

func TestTruncateQuery(t *testing.T) {
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'a'
	}
	got := TruncateQuery(string(long))
	if len([]rune(got)) != MaxQueryChars {
		t.Fatalf("expected %d runes, got %d", MaxQueryChars, len([]rune(got)))
	}
}
