package overlay

import "testing"

func TestRender_Empty(t *testing.T) {
	if got := Render(nil, 4.5); got != "No data" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_Entries(t *testing.T) {
	entries := []Entry{
		{Stat: "Speed", DisplayNames: []string{"rainbow", "kitasan", "hint"}, TrainingValue: 5.5},
		{Stat: "Guts", TrainingValue: 0},
		{Stat: "Wits", DisplayNames: []string{"a"}, TrainingValue: 4.5},
	}
	want := "Speed:\n  Matches: rainbow, kitasan, hint\n  Training value: 5.5  Good training.\n" +
		"Guts:\n  Matches: None\n  Training value: 0.0\n" +
		"Wits:\n  Matches: a\n  Training value: 4.5"
	if got := Render(entries, 4.5); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatValue(t *testing.T) {
	cases := map[float64]string{
		0:    "0.0",
		5.5:  "5.5",
		3.25: "3.25",
		10:   "10.0",
		1.5:  "1.5",
	}
	for v, want := range cases {
		if got := FormatValue(v); got != want {
			t.Fatalf("FormatValue(%v) = %q, want %q", v, got, want)
		}
	}
}
