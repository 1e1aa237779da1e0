package fonts

import (
	"strings"
	"testing"
)

func TestParseFamilies(t *testing.T) {
	input := strings.Join([]string{
		"DejaVu Sans",
		"FontAwesome",
		"Noto Sans CJK JP,Noto Sans CJK JP Regular",
		`Font Awesome 6 Free\,Solid`,
		`Source Code Pro\-Medium`,
		"",
		"DejaVu Sans",
	}, "\n")
	got, err := ParseFamilies(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{
		"DejaVu Sans",
		"FontAwesome",
		"Noto Sans CJK JP",
		"Noto Sans CJK JP Regular",
		"Font Awesome 6 Free,Solid",
		"Source Code Pro-Medium",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("family %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
