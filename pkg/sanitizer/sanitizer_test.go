package sanitizer

import (
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"inner runs collapse", "Wedding   \t Photography", "Wedding Photography"},
		{"newlines", "line one\n\nline two", "line one line two"},
		{"already clean", "Pre Wedding", "Pre Wedding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(TrimAndNormalize(tt.input)); again != tt.want {
				t.Errorf("TrimAndNormalize is not idempotent for %q", tt.input)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Priya.Sharma@Example.COM "); got != "priya.sharma@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"ten digit indian mobile", "9876543210", "+919876543210"},
		{"with country code", "+91 98765 43210", "+919876543210"},
		{"leading zero trunk prefix", "09876543210", "+919876543210"},
		{"foreign number keeps its country", "+1 415 555 2671", "+14155552671"},
		{"garbage is returned trimmed", "  not-a-phone ", "not-a-phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhoneVariants(t *testing.T) {
	got := PhoneVariants("9876543210")
	if len(got) != 2 || got[0] != "9876543210" || got[1] != "+919876543210" {
		t.Errorf("PhoneVariants() = %v", got)
	}

	got = PhoneVariants("+919876543210")
	if len(got) != 1 {
		t.Errorf("already normalized phone should yield one variant, got %v", got)
	}
}

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{" a ", "b", "", "a", "b", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("UniqueStrings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueStrings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileExtension(t *testing.T) {
	tests := map[string]string{
		"photo.JPG":        ".jpg",
		"banner.final.png": ".png",
		"noext":            "",
		"weird.p$p":        "",
		"../../etc/passwd": "",
	}
	for input, want := range tests {
		if got := FileExtension(input); got != want {
			t.Errorf("FileExtension(%q) = %q, want %q", input, got, want)
		}
	}
}
