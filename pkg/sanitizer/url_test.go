package sanitizer

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "adds scheme", input: "example.com/rooms", want: "https://example.com/rooms"},
		{name: "upgrades http", input: "http://example.com", want: "https://example.com"},
		{name: "lowercases host only", input: "https://Example.COM/Images/Suite.JPG", want: "https://example.com/Images/Suite.JPG"},
		{name: "strips trailing slash", input: "https://example.com/rooms/", want: "https://example.com/rooms"},
		{name: "drops utm params", input: "https://example.com/?utm_source=x&size=large", want: "https://example.com?size=large"},
		{name: "drops fragment", input: "https://example.com/a#top", want: "https://example.com/a"},
		{name: "rejects other schemes", input: "javascript://alert(1)", want: ""},
		{name: "empty", input: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	once := NormalizeURL("HTTP://Example.com/Path/?utm_medium=a&b=C")
	if twice := NormalizeURL(once); twice != once {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}
