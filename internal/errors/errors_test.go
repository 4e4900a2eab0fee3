package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "codec error",
			code:    "E001",
			wantMsg: "Malformed JSON in field",
			wantCat: CategoryCodec,
		},
		{
			name:    "schema error",
			code:    "E003",
			wantMsg: "Field declared under more than one kind",
			wantCat: CategorySchema,
		},
		{
			name:    "protocol error",
			code:    "E160",
			wantMsg: "Invalid location message",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.Offset != -1 {
				t.Errorf("Offset = %d, want -1", err.Offset)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "file %q not found", "urlstore.json")
	if err.Message != `file "urlstore.json" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "urlstore.json" not found`)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want %q", err.Category, CategoryConfig)
	}
}

func TestStoreError_Error(t *testing.T) {
	err := New("E001")
	if got, want := err.Error(), "E001: Malformed JSON in field"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.WithField("birdlist")
	if got, want := err.Error(), `E001: Malformed JSON in field (field "birdlist")`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Wrap(&testError{msg: "unexpected end"})
	if got, want := err.Error(), `E001: Malformed JSON in field (field "birdlist"): unexpected end`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &StoreError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestStoreError_Builders(t *testing.T) {
	err := New("E001").
		WithField("birdlist").
		WithInput(`{"a":`, 5).
		WithSuggestion("Re-encode the field").
		WithDetail("Custom detail")

	if err.Field != "birdlist" {
		t.Errorf("Field = %q, want birdlist", err.Field)
	}
	if err.Input != `{"a":` || err.Offset != 5 {
		t.Errorf("Input/Offset = %q/%d", err.Input, err.Offset)
	}
	if err.Suggestion != "Re-encode the field" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q, want %q", err.Detail, "Custom detail")
	}
}

func TestStoreError_Wrap(t *testing.T) {
	inner := New("E002")
	outer := New("E001").Wrap(inner)

	if outer.Wrapped != inner {
		t.Error("Wrapped error mismatch")
	}
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !errors.Is(outer, New("E002")) {
		t.Error("errors.Is should match wrapped code")
	}
	if errors.Is(outer, New("E005")) {
		t.Error("errors.Is should not match unrelated code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	se := New("E001")
	if FromError(se, "E002") != se {
		t.Error("FromError should return StoreError as-is")
	}

	stdErr := &testError{msg: "test error"}
	result := FromError(stdErr, "E001")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
}

func TestHasCode(t *testing.T) {
	err := New("E120").Wrap(New("E001").Wrap(&testError{msg: "boom"}))
	if !HasCode(err, "E120") {
		t.Error("HasCode should find outer code")
	}
	if !HasCode(err, "E001") {
		t.Error("HasCode should find nested code")
	}
	if HasCode(err, "E002") {
		t.Error("HasCode should not find absent code")
	}
	if HasCode(&testError{msg: "plain"}, "E001") {
		t.Error("HasCode should be false for plain errors")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E001").
		WithField("birdlist").
		WithInput(`[{"name":"Crow"`, 15).
		WithSuggestion("Write the field through the store")

	formatted := err.Format()

	for _, want := range []string{
		"E001",
		"Malformed JSON in field",
		"field birdlist",
		`[{"name":"Crow"`,
		"               ^",
		"Hint:",
		"Learn more:",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E001").WithField("birdlist").WithInput("[", 1)
	want := "birdlist@1: E001: Malformed JSON in field"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}

	err = New("E005")
	want = "E005: Unsupported value type in query"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E001").WithField("birdlist").WithInput("[", 1)
	json := err.FormatJSON()

	for _, want := range []string{
		`"code":"E001"`,
		`"category":"codec"`,
		`"message":"Malformed JSON in field"`,
		`"field":"birdlist"`,
		`"offset":1`,
	} {
		if !strings.Contains(json, want) {
			t.Errorf("JSON should contain %s, got %s", want, json)
		}
	}
}

func TestInputWindow(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		offset    int
		width     int
		want      string
		wantCaret int
	}{
		{"short", "abc", 1, 10, "abc", 1},
		{"unknown offset", "abc", -1, 10, "abc", -1},
		{"unknown offset long", "abcdefghij", -1, 4, "abcd…", -1},
		{"head", "abcdefghij", 1, 4, "abcd…", 1},
		{"middle", "abcdefghij", 5, 4, "…defg…", 3},
		{"tail", "abcdefghij", 9, 4, "…ghij", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, caret := inputWindow(tt.input, tt.offset, tt.width)
			if got != tt.want || caret != tt.wantCaret {
				t.Errorf("inputWindow() = %q, %d; want %q, %d", got, caret, tt.want, tt.wantCaret)
			}
		})
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Error("GetAllCodes() should return codes")
	}

	found := false
	for _, code := range codes {
		if code == "E001" {
			found = true
			break
		}
	}
	if !found {
		t.Error("E001 should be in the codes list")
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E003")
	if !ok {
		t.Error("E003 should exist")
	}
	if template.Category != CategorySchema {
		t.Errorf("Category = %q, want schema", template.Category)
	}

	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryCodec,
		Message:  "Custom test error",
		Detail:   "This is a test error",
		DocURL:   "https://test.dev/E999",
	})
	defer delete(registry, "E999")

	err := New("E999")
	if err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}

func TestFprintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	FprintError(&b, New("E140"))
	if !strings.Contains(b.String(), "ERROR E140: Invalid input") {
		t.Errorf("unexpected output: %q", b.String())
	}

	b.Reset()
	FprintError(&b, &testError{msg: "plain"})
	if !strings.Contains(b.String(), "ERROR: plain") {
		t.Errorf("unexpected output: %q", b.String())
	}
}
