package catalog

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAmount_UnmarshalNumberOrString(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{`4.99`, 4.99},
		{`"0.99"`, 0.99},
		{`" 20.99 "`, 20.99},
		{`""`, 0},
		{`null`, 0},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tc.in, err)
		}
		if a != tc.want {
			t.Fatalf("Unmarshal(%s) = %v, want %v", tc.in, a, tc.want)
		}
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"cheap"`), &a); err == nil {
		t.Fatalf("Unmarshal(cheap) returned nil error, want error")
	}
	if got := Amount(2.5).String(); got != "$2.50" {
		t.Fatalf("String = %q, want $2.50", got)
	}
}

func TestFlag_UnmarshalBoolOrNumber(t *testing.T) {
	for in, want := range map[string]Flag{`true`: true, `1`: true, `"1"`: true, `false`: false, `0`: false, `null`: false} {
		var f Flag
		if err := json.Unmarshal([]byte(in), &f); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", in, err)
		}
		if f != want {
			t.Fatalf("Unmarshal(%s) = %v, want %v", in, f, want)
		}
	}
	var f Flag
	if err := json.Unmarshal([]byte(`2`), &f); err == nil {
		t.Fatalf("Unmarshal(2) returned nil error, want error")
	}
}

func TestFilmValidate(t *testing.T) {
	ok := Film{ID: 1, Length: 90, RentalRate: 0.99, ReplacementCost: 9.99}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	for name, f := range map[string]Film{
		"negative rate":   {ID: 1, Length: 90, RentalRate: -1},
		"negative cost":   {ID: 1, Length: 90, ReplacementCost: -1},
		"zero length":     {ID: 1},
		"negative length": {ID: 1, Length: -5},
	} {
		if err := f.Validate(); err == nil {
			t.Fatalf("%s: Validate returned nil error", name)
		}
	}
}

func TestActorDisplayName(t *testing.T) {
	if got := (Actor{FirstName: "PENELOPE", LastName: "GUINESS"}).DisplayName(); got != "PENELOPE GUINESS" {
		t.Fatalf("DisplayName = %q, want derived name", got)
	}
	if got := (Actor{Name: "Nick Wahlberg", FirstName: "X"}).DisplayName(); got != "Nick Wahlberg" {
		t.Fatalf("DisplayName = %q, want explicit name", got)
	}
}

func TestRentalIsActive(t *testing.T) {
	returned := "2005-05-26 22:04:30"
	blank := ""
	cases := []struct {
		name string
		r    Rental
		want bool
	}{
		{"status active", Rental{Status: "Active", ReturnDate: &returned}, true},
		{"status returned", Rental{Status: "Returned"}, false},
		{"no status nil date", Rental{}, true},
		{"no status blank date", Rental{ReturnDate: &blank}, true},
		{"no status with date", Rental{ReturnDate: &returned}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.IsActive(); got != tc.want {
				t.Fatalf("IsActive = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchTypeCycle(t *testing.T) {
	if got := ParseSearchType(" Actor "); got != SearchByActor {
		t.Fatalf("ParseSearchType = %q, want actor", got)
	}
	if got := ParseSearchType("director"); got != SearchByTitle {
		t.Fatalf("ParseSearchType unknown = %q, want title", got)
	}
	if got := SearchByGenre.Next(); got != SearchByTitle {
		t.Fatalf("genre.Next = %q, want title", got)
	}
	if got := SearchByTitle.Next(); got != SearchByActor {
		t.Fatalf("title.Next = %q, want actor", got)
	}
}

func TestParseTime(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.UTC
	defer func() { time.Local = oldLocal }()

	cases := map[string]time.Time{
		"2006-02-14T15:16:03Z": time.Date(2006, 2, 14, 15, 16, 3, 0, time.UTC),
		"2005-05-24 22:53:30":  time.Date(2005, 5, 24, 22, 53, 30, 0, time.UTC),
		"2006-02-14":           time.Date(2006, 2, 14, 0, 0, 0, 0, time.UTC),
		"":                     {},
		"last tuesday":         {},
	}
	for in, want := range cases {
		if got := parseTime(in); !got.Equal(want) {
			t.Fatalf("parseTime(%q) = %v, want %v", in, got, want)
		}
	}
}
