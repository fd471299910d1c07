package theme

import "testing"

func TestBuiltinPalettes(t *testing.T) {
	all := All()
	if len(all) != 17 {
		t.Fatalf("expected 17 palettes, got %d", len(all))
	}
	for _, p := range all {
		if p.Bg == "" || p.Fg == "" || p.Accent == "" {
			t.Errorf("palette %s is missing colors: %+v", p.ID, p)
		}
	}
	if got := ByID("nord").Name; got != "Nord" {
		t.Errorf("ByID(nord).Name = %q", got)
	}
	if got := ByID("no-such-theme").ID; got != all[0].ID {
		t.Errorf("unknown id should fall back to %s, got %s", all[0].ID, got)
	}
	if _, ok := Lookup("no-such-theme"); ok {
		t.Error("Lookup should report unknown ids")
	}
	if ForMode(ModeLight).Dark {
		t.Error("light default palette is dark")
	}
	if !ForMode(ModeDark).Dark {
		t.Error("dark default palette is light")
	}
}

func TestParseRejectsBadFiles(t *testing.T) {
	bad := []string{
		"palettes: []",
		"palettes:\n  - name: NoID",
		"palettes:\n  - id: a\n  - id: a",
		"palettes: [",
	}
	for _, src := range bad {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("Parse(%q) should fail", src)
		}
	}
}

func TestPreferenceCycle(t *testing.T) {
	tests := []struct {
		pref     Preference
		resolved Mode
		want     Preference
	}{
		{PreferSystem, ModeDark, PreferLight},
		{PreferSystem, ModeLight, PreferDark},
		{PreferDark, ModeDark, PreferLight},
		{PreferLight, ModeLight, PreferSystem},
	}
	for _, tt := range tests {
		if got := tt.pref.Next(tt.resolved); got != tt.want {
			t.Errorf("%s.Next(%s) = %s, want %s", tt.pref, tt.resolved, got, tt.want)
		}
	}

	if PreferSystem.Resolve(true) != ModeDark || PreferSystem.Resolve(false) != ModeLight {
		t.Error("system preference should follow the environment")
	}
	if PreferLight.Resolve(true) != ModeLight {
		t.Error("explicit preference should win")
	}
	if _, err := ParsePreference("purple"); err == nil {
		t.Error("expected error for unknown preference")
	}
}
