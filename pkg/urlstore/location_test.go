package urlstore

import (
	"reflect"
	"testing"
)

func TestNewMemoryLocation(t *testing.T) {
	tests := []struct {
		raw      string
		protocol string
		host     string
		path     string
		query    string
		fragment string
	}{
		{"https://cat.net/hey#count=5", "https:", "cat.net", "/hey", "", "#count=5"},
		{"https://cat.net/hey?count=5&name=birds", "https:", "cat.net", "/hey", "?count=5&name=birds", ""},
		{"http://localhost:8080?q=1#a=b", "http:", "localhost:8080", "/", "?q=1", "#a=b"},
		{"/relative/path#x=1", "", "", "/relative/path", "", "#x=1"},
		{"https://cat.net/a/b?#", "https:", "cat.net", "/a/b", "?", "#"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			l := NewMemoryLocation(tt.raw)
			got := []string{l.Protocol(), l.Host(), l.Path(), l.Query(), l.Fragment()}
			want := []string{tt.protocol, tt.host, tt.path, tt.query, tt.fragment}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("components = %q, want %q", got, want)
			}
		})
	}
}

func TestMemoryLocation_ReplaceFragmentDoesNotNotify(t *testing.T) {
	l := NewMemoryLocation("https://cat.net/hey")
	calls := 0
	l.SetFragmentChangeHandler(func() { calls++ })

	l.ReplaceFragment("a=1")
	l.ReplaceFragment("")

	if calls != 0 {
		t.Fatalf("ReplaceFragment notified %d times", calls)
	}
	if l.Fragment() != "" {
		t.Errorf("Fragment() = %q, want empty", l.Fragment())
	}
	if got := l.Replacements(); !reflect.DeepEqual(got, []string{"#a=1", ""}) {
		t.Errorf("Replacements() = %q", got)
	}
}

func TestMemoryLocation_Navigate(t *testing.T) {
	l := NewMemoryLocation("https://cat.net/hey")
	calls := 0
	l.SetFragmentChangeHandler(func() { calls++ })

	l.Navigate("a=1")
	if calls != 1 || l.Fragment() != "#a=1" {
		t.Errorf("after Navigate: calls=%d fragment=%q", calls, l.Fragment())
	}
	l.Navigate("#b=2")
	if l.Fragment() != "#b=2" {
		t.Errorf("Navigate with prefix: fragment=%q", l.Fragment())
	}
}

func TestMemoryLocation_Query(t *testing.T) {
	l := NewMemoryLocation("https://cat.net/hey")
	l.SetQuery("a=1")
	if l.Query() != "?a=1" {
		t.Errorf("Query() = %q", l.Query())
	}
	l.ClearQuery()
	if l.Query() != "" || l.QueryClears() != 1 {
		t.Errorf("after ClearQuery: query=%q clears=%d", l.Query(), l.QueryClears())
	}
}

func TestHref(t *testing.T) {
	tests := []string{
		"https://cat.net/hey#count=5",
		"https://cat.net/hey?x=1#count=5",
		"http://localhost:8080/",
		"/only/path#a=b",
	}
	for _, raw := range tests {
		if got := Href(NewMemoryLocation(raw)); got != raw {
			t.Errorf("Href(%q) = %q", raw, got)
		}
	}
}

type bareLocation struct {
	MemoryLocation
}

func (bareLocation) Protocol() string { return "https" }

func TestHrefAddsProtocolColon(t *testing.T) {
	l := &bareLocation{MemoryLocation: *NewMemoryLocation("https://cat.net/hey#a=1")}
	if got := Href(l); got != "https://cat.net/hey#a=1" {
		t.Errorf("Href() = %q", got)
	}
}
