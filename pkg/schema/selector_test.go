package schema

import "testing"

func TestSelectorMatch(t *testing.T) {
	tests := []struct {
		selector string
		tag      string
		attrs    map[string]string
		want     bool
	}{
		{"custom-el", "custom-el", nil, true},
		{"custom-el", "CUSTOM-EL", nil, true},
		{"custom-el", "div", nil, false},
		{"[ngIf]", "ng-template", map[string]string{"ngif": ""}, true},
		{"[ngIf]", "ng-template", map[string]string{"ngfor": ""}, false},
		{"[ngFor][ngForOf]", "ng-template", map[string]string{"ngfor": "", "ngforof": ""}, true},
		{"[ngFor][ngForOf]", "ng-template", map[string]string{"ngforof": ""}, false},
		{"button[type=submit]", "button", map[string]string{"type": "submit"}, true},
		{"button[type=submit]", "button", map[string]string{"type": "reset"}, false},
		{`[role="tab"]`, "li", map[string]string{"role": "tab"}, true},
		{".card", "div", map[string]string{"class": "big card"}, true},
		{".card.wide", "div", map[string]string{"class": "card"}, false},
		{"a, [routerLink]", "span", map[string]string{"routerlink": ""}, true},
		{"a, [routerLink]", "a", nil, true},
		{"*[x]", "p", map[string]string{"x": ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.selector+"/"+tt.tag, func(t *testing.T) {
			s, err := ParseSelector(tt.selector)
			if err != nil {
				t.Fatalf("ParseSelector(%q) error: %v", tt.selector, err)
			}
			if got := s.Match(tt.tag, tt.attrs); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSelectorErrors(t *testing.T) {
	for _, src := range []string{"", "a,", "[", "[x", "[=y]", ".", "div]"} {
		if _, err := ParseSelector(src); err == nil {
			t.Errorf("ParseSelector(%q) succeeded, want error", src)
		}
	}
}

func TestSelectorMatchesTag(t *testing.T) {
	s := MustParseSelector("my-comp, [myComp]")
	if !s.MatchesTag("my-comp") || s.MatchesTag("div") {
		t.Error("MatchesTag wrong")
	}
	if s.String() != "my-comp, [myComp]" {
		t.Errorf("String() = %q", s.String())
	}
	if s.Tag() != "my-comp" || MustParseSelector("[ngIf]").Tag() != "" {
		t.Errorf("Tag() = %q", s.Tag())
	}
	var zero Selector
	if !zero.IsZero() || zero.Match("div", nil) {
		t.Error("zero selector should match nothing")
	}
}

func TestMustParseSelectorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseSelector("[")
}
