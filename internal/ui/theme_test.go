package ui

import "testing"

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	if len(names) != 4 {
		t.Fatalf("ThemeNames() = %v, want 4 themes", names)
	}
	current := names[0]
	for i := 1; i <= len(names); i++ {
		current = NextTheme(current)
		if want := names[i%len(names)]; current != want {
			t.Fatalf("NextTheme step %d = %q, want %q", i, current, want)
		}
	}
	if got := NextTheme("missing"); got != names[0] {
		t.Fatalf("NextTheme(missing) = %q, want %q", got, names[0])
	}
}

func TestGetThemeFallsBackToDracula(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Dracula" {
		t.Fatalf("GetTheme(nope).Name = %q, want Dracula", got)
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, th.Name)
		}
		for _, status := range []string{"active", "inactive", "rented", "returned", "available", "unavailable", "online", "offline"} {
			if th.StatusColors[status] == "" {
				t.Fatalf("theme %s missing status color %q", name, status)
			}
		}
	}
}
