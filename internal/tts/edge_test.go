package tts

import (
	"strings"
	"testing"
)

func TestRemoveControlCharacters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "今天的新闻", "今天的新闻"},
		{"bell and vertical tab", "a\x07b\x0bc", "a b c"},
		{"newline and tab kept", "a\nb\tc", "a\nb\tc"},
		{"carriage return kept", "a\rb", "a\rb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeControlCharacters(tt.in); got != tt.want {
				t.Errorf("removeControlCharacters(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseWireMessage(t *testing.T) {
	raw := []byte("Path:audio.metadata\r\nContent-Type:application/json\r\n\r\n{\"ok\":true}")
	headers, body := parseWireMessage(raw)
	if headers["Path"] != "audio.metadata" {
		t.Errorf("expected Path header, got %q", headers["Path"])
	}
	if headers["Content-Type"] != "application/json" {
		t.Errorf("expected Content-Type header, got %q", headers["Content-Type"])
	}
	if !strings.HasSuffix(string(body), "{\"ok\":true}") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestParseWireMessageNoSeparator(t *testing.T) {
	headers, body := parseWireMessage([]byte("no separator here"))
	if len(headers) != 0 {
		t.Errorf("expected no headers, got %v", headers)
	}
	if body != nil {
		t.Errorf("expected nil body, got %q", body)
	}
}

func TestConnectID(t *testing.T) {
	id := connectID()
	if len(id) != 32 {
		t.Fatalf("expected 32 hex characters, got %d: %s", len(id), id)
	}
	if id != strings.ToUpper(id) {
		t.Errorf("expected uppercase hex, got %s", id)
	}
	if connectID() == id {
		t.Error("expected fresh id per call")
	}
}

func TestSecMSGEC(t *testing.T) {
	token := secMSGEC()
	if len(token) != 64 {
		t.Fatalf("expected 64 hex characters, got %d: %s", len(token), token)
	}
	if token != strings.ToUpper(token) {
		t.Errorf("expected uppercase hex, got %s", token)
	}
	// stable within the same 5-minute window
	if again := secMSGEC(); again != token {
		t.Errorf("expected stable token within a window, got %s and %s", token, again)
	}
}
