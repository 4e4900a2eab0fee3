package qs

import (
	"sort"
	"strconv"
	"strings"
)

// Decode parses a query string into a nested map. The input must not carry
// a leading '?' or '#'; see TrimPrefix.
//
// Repeated plain keys collect into a slice ("a=1&a=2" gives []any{"1","2"}).
// When a path is assigned both a scalar and a nested value, the later pair
// wins.
func Decode(s string, opts ...Option) map[string]any {
	o := newOptions(opts)
	root := newBranch()

	count := 0
	for _, pair := range splitPairs(s, o.Separators) {
		if pair == "" {
			continue
		}
		if o.ParameterLimit > 0 && count >= o.ParameterLimit {
			break
		}
		count++

		rawKey, rawValue, hasValue := strings.Cut(pair, "=")
		key := o.Decoder(rawKey, TokenKey, "")
		if key == "" {
			continue
		}
		segments := splitKey(key, o.Depth)

		value := ""
		if hasValue {
			value = o.Decoder(rawValue, TokenValue, segments[0])
		}
		root.assign(segments, value)
	}

	return root.object(o.ArrayLimit)
}

func splitPairs(s string, seps []rune) []string {
	if len(seps) == 1 {
		return strings.Split(s, string(seps[0]))
	}
	return strings.FieldsFunc(s, func(r rune) bool {
		for _, sep := range seps {
			if r == sep {
				return true
			}
		}
		return false
	})
}

// splitKey breaks "a[b][c]" into ["a", "b", "c"]. "[]" becomes the append
// segment "". Segments beyond depth are joined back into one literal.
func splitKey(key string, depth int) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 && len(segments) <= depth {
		if rest[0] != '[' {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		inner := rest[1:end]
		if strings.IndexByte(inner, '[') >= 0 {
			break
		}
		segments = append(segments, inner)
		rest = rest[end+1:]
	}
	if rest != "" {
		if len(segments) == 1 {
			return []string{key}
		}
		segments = append(segments, rest)
	}
	return segments
}

// appendKey marks an element added through "[]". The NUL prefix cannot
// collide with a decoded index.
const appendKey = "\x00"

// branch is a container under construction. Whether it becomes an array or
// an object is only known once every pair has been read.
type branch struct {
	children map[string]any // string, *multi or *branch
	order    []string
	pushes   int
}

// multi collects repeated scalar assignments to the same path.
type multi struct {
	values []string
}

func newBranch() *branch {
	return &branch{children: make(map[string]any)}
}

func (b *branch) set(key string, v any) {
	if _, ok := b.children[key]; !ok {
		b.order = append(b.order, key)
	}
	b.children[key] = v
}

func (b *branch) assign(segments []string, value string) {
	key := segments[0]
	if key == "" {
		key = appendKey + strconv.Itoa(b.pushes)
		b.pushes++
	}

	if len(segments) == 1 {
		switch existing := b.children[key].(type) {
		case string:
			b.set(key, &multi{values: []string{existing, value}})
		case *multi:
			existing.values = append(existing.values, value)
		default:
			b.set(key, value)
		}
		return
	}

	child, ok := b.children[key].(*branch)
	if !ok {
		child = newBranch()
		b.set(key, child)
	}
	child.assign(segments[1:], value)
}

// finish converts the branch tree into plain maps and slices. arrayLimit
// is the largest index allowed in an array.
func (b *branch) finish(arrayLimit int) any {
	if arr, ok := b.asArray(arrayLimit); ok {
		return arr
	}
	return b.object(arrayLimit)
}

// object converts b to a map. Pushed values are numbered after the
// highest explicit index so they never replace an indexed value.
func (b *branch) object(arrayLimit int) map[string]any {
	next := 0
	for _, key := range b.order {
		if n, err := strconv.Atoi(key); err == nil && n >= next && strconv.Itoa(n) == key {
			next = n + 1
		}
	}

	out := make(map[string]any, len(b.children))
	for _, key := range b.order {
		name := key
		if strings.HasPrefix(key, appendKey) {
			name = strconv.Itoa(next)
			next++
		}
		out[name] = finishValue(b.children[key], arrayLimit)
	}
	return out
}

func (b *branch) asArray(arrayLimit int) ([]any, bool) {
	type slot struct {
		index int
		push  bool
		key   string
	}
	slots := make([]slot, 0, len(b.order))
	for _, key := range b.order {
		if strings.HasPrefix(key, appendKey) {
			n, _ := strconv.Atoi(strings.TrimPrefix(key, appendKey))
			slots = append(slots, slot{index: n, push: true, key: key})
			continue
		}
		n, err := strconv.Atoi(key)
		if err != nil || n < 0 || n > arrayLimit || strconv.Itoa(n) != key {
			return nil, false
		}
		slots = append(slots, slot{index: n, key: key})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].push != slots[j].push {
			return !slots[i].push
		}
		return slots[i].index < slots[j].index
	})

	arr := make([]any, 0, len(slots))
	for _, s := range slots {
		arr = append(arr, finishValue(b.children[s.key], arrayLimit))
	}
	return arr, true
}

func finishValue(v any, arrayLimit int) any {
	switch v := v.(type) {
	case *branch:
		return v.finish(arrayLimit)
	case *multi:
		out := make([]any, len(v.values))
		for i, s := range v.values {
			out[i] = s
		}
		return out
	default:
		return v
	}
}
