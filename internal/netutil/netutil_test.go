package netutil

import (
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "ipv4 with port", input: "192.0.2.4:8080", expected: "192.0.2.4", ok: true},
		{name: "ipv6 with port", input: "[2001:db8::1]:443", expected: "2001:db8::1", ok: true},
		{name: "ipv6 textual port", input: "[::1]:port", expected: "::1", ok: true},
		{name: "mapped ipv4", input: "::ffff:10.0.0.1", expected: "10.0.0.1", ok: true},
		{name: "plain ipv6", input: "2001:db8::5", expected: "2001:db8::5", ok: true},
		{name: "garbage", input: "not-an-ip", expected: "not-an-ip", ok: false},
		{name: "empty", input: "  ", expected: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeIP(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestClientIPIgnoresForwardingWithoutTrust(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.7:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")

	if got := ClientIP(r, false); got != "198.51.100.7" {
		t.Fatalf("untrusted proxy headers used: %q", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.1" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}
}

func TestTruncateUserAgent(t *testing.T) {
	long := strings.Repeat("é", MaxUserAgentLength+10)
	got := TruncateUserAgent(long)
	if utf8.RuneCountInString(got) != MaxUserAgentLength {
		t.Fatalf("expected %d runes, got %d", MaxUserAgentLength, utf8.RuneCountInString(got))
	}
	if TruncateUserAgent("curl/8") != "curl/8" {
		t.Fatalf("short agents must be untouched")
	}
}
