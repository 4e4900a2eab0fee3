package urlstore

import "strings"

// Location is the address-bar collaborator a Store reads from and writes to.
//
// ReplaceFragment must update the fragment without adding a history entry
// and without invoking the fragment change handler. The Store drops
// notifications that arrive during its own writes, but a Location that
// honours the contract never produces them.
type Location interface {
	// Protocol returns the scheme, with or without the trailing ':'.
	Protocol() string
	Host() string
	Path() string

	// Query returns the search component including its leading '?', or "".
	Query() string

	// Fragment returns the fragment including its leading '#', or "".
	Fragment() string

	// ReplaceFragment sets the fragment to fragment, which has no leading '#'.
	ReplaceFragment(fragment string)

	// ClearQuery removes the search component.
	ClearQuery()

	// SetFragmentChangeHandler registers fn to be called whenever the
	// fragment changes for a reason other than ReplaceFragment.
	SetFragmentChangeHandler(fn func())
}

// MemoryLocation is an in-process Location. It is used by tests, by the
// command line tool and by the HTTP service for one-shot conversions.
type MemoryLocation struct {
	protocol string
	host     string
	path     string
	query    string
	fragment string

	onChange     func()
	replacements []string
	queryClears  int
}

// NewMemoryLocation parses rawURL into its components. The URL is split,
// not validated: anything before "://" is the protocol, the host runs to
// the first '/', '?' or '#'.
func NewMemoryLocation(rawURL string) *MemoryLocation {
	l := &MemoryLocation{}

	rest := rawURL
	if before, after, ok := strings.Cut(rest, "#"); ok {
		rest = before
		l.fragment = "#" + after
	}
	if before, after, ok := strings.Cut(rest, "?"); ok {
		rest = before
		l.query = "?" + after
	}
	if scheme, after, ok := strings.Cut(rest, "://"); ok {
		l.protocol = scheme + ":"
		rest = after
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			l.host, l.path = rest[:i], rest[i:]
		} else {
			l.host = rest
		}
	} else {
		l.path = rest
	}
	if l.path == "" && l.host != "" {
		l.path = "/"
	}
	return l
}

func (l *MemoryLocation) Protocol() string { return l.protocol }
func (l *MemoryLocation) Host() string     { return l.host }
func (l *MemoryLocation) Path() string     { return l.path }
func (l *MemoryLocation) Query() string    { return l.query }
func (l *MemoryLocation) Fragment() string { return l.fragment }

// ReplaceFragment records fragment without notifying the change handler.
func (l *MemoryLocation) ReplaceFragment(fragment string) {
	l.fragment = ""
	if fragment != "" {
		l.fragment = "#" + fragment
	}
	l.replacements = append(l.replacements, l.fragment)
}

// ClearQuery removes the search component.
func (l *MemoryLocation) ClearQuery() {
	l.query = ""
	l.queryClears++
}

// SetFragmentChangeHandler registers fn.
func (l *MemoryLocation) SetFragmentChangeHandler(fn func()) {
	l.onChange = fn
}

// Navigate sets the fragment the way a user would, by editing the address
// bar or going back in history, and calls the change handler.
func (l *MemoryLocation) Navigate(fragment string) {
	l.fragment = withPrefix('#', fragment)
	if l.onChange != nil {
		l.onChange()
	}
}

// SetQuery replaces the search component. It does not notify.
func (l *MemoryLocation) SetQuery(query string) {
	l.query = withPrefix('?', query)
}

// Replacements returns every fragment written by ReplaceFragment, oldest
// first.
func (l *MemoryLocation) Replacements() []string {
	return append([]string(nil), l.replacements...)
}

// QueryClears returns how many times ClearQuery was called.
func (l *MemoryLocation) QueryClears() int {
	return l.queryClears
}

// Href composes the full URL of loc.
func Href(loc Location) string {
	protocol := loc.Protocol()
	if protocol != "" && !strings.HasSuffix(protocol, ":") {
		protocol += ":"
	}
	var b strings.Builder
	if protocol != "" || loc.Host() != "" {
		b.WriteString(protocol)
		b.WriteString("//")
		b.WriteString(loc.Host())
	}
	b.WriteString(loc.Path())
	b.WriteString(loc.Query())
	b.WriteString(loc.Fragment())
	return b.String()
}

func withPrefix(prefix byte, s string) string {
	if s == "" || (len(s) == 1 && s[0] == prefix) {
		return ""
	}
	if s[0] == prefix {
		return s
	}
	return string(prefix) + s
}
