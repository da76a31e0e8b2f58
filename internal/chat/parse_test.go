package chat

import "testing"

func TestParseReply(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"array first element output", `[{"output":"hello"}]`, "hello"},
		{"array first element message", `[{"message":"hi there"}]`, "hi there"},
		{"array with extra elements", `[{"output":"first"},{"output":"second"}]`, "first"},
		{"object output", `{"output":"direct"}`, "direct"},
		{"object message", `{"message":"via message"}`, "via message"},
		{"object field priority", `{"reply":"lowest","output":"highest"}`, "highest"},
		{"double-encoded object", `"{\"output\":\"nested\"}"`, "nested"},
		{"json string plain", `"plain text"`, "plain text"},
		{"raw text fallback", `just some words`, "just some words"},
		{"raw text trimmed", "  padded  ", "padded"},
		{"empty body", ``, ""},
		{"empty array falls back to raw", `[]`, "[]"},
		{"array of scalars falls back to raw", `[1,2,3]`, "[1,2,3]"},
		{"object without known fields falls back", `{"status":"ok"}`, `{"status":"ok"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseReply([]byte(tc.raw)); got != tc.want {
				t.Fatalf("ParseReply(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
