package imaging

import "testing"

func TestRGB_Hex(t *testing.T) {
	tests := []struct {
		c    RGB
		want string
	}{
		{RGB{}, "#000000"},
		{RGB{R: 255}, "#ff0000"},
		{RGB{R: 18, G: 52, B: 86}, "#123456"},
		{RGB{R: 255, G: 255, B: 255}, "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.c.Hex(); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
			back, err := ParseHex(tt.want)
			if err != nil {
				t.Fatalf("ParseHex failed: %v", err)
			}
			if back != tt.c {
				t.Errorf("ParseHex(%s) = %v, want %v", tt.want, back, tt.c)
			}
		})
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, s := range []string{"", "red", "#gggggg"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) should fail", s)
		}
	}
}

func TestColorSum_Mean(t *testing.T) {
	var empty ColorSum
	if _, ok := empty.Mean(); ok {
		t.Error("Mean of an empty sum should not be ok")
	}

	var sum ColorSum
	sum.Add(RGB{R: 255, G: 0, B: 10})
	sum.Add(RGB{R: 0, G: 1, B: 11})
	sum.Add(RGB{R: 0, G: 1, B: 255})

	got, ok := sum.Mean()
	if !ok {
		t.Fatal("Mean should be ok")
	}
	// Truncating: 255/3 = 85, 2/3 = 0, 276/3 = 92
	if want := (RGB{R: 85, G: 0, B: 92}); got != want {
		t.Errorf("Mean = %v, want %v", got, want)
	}
}

func TestDominantColors(t *testing.T) {
	colors := []RGB{
		{R: 250}, {R: 241}, {R: 255},
		{B: 255}, {B: 250},
		{G: 128},
	}

	got := DominantColors(colors, 2)
	if len(got) != 2 {
		t.Fatalf("got %d colors, want 2", len(got))
	}
	if got[0].RGB != (RGB{R: 240}) {
		t.Errorf("first color: got %v, want quantized red", got[0].RGB)
	}
	if got[0].Percentage != 50 {
		t.Errorf("first percentage: got %v, want 50", got[0].Percentage)
	}
	if got[1].Hex != "#0000f0" {
		t.Errorf("second color: got %s, want #0000f0", got[1].Hex)
	}

	if DominantColors(nil, 3) != nil {
		t.Error("DominantColors of no colors should be nil")
	}
}
