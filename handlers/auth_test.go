package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		origin  string
		want    bool
	}{
		{"empty list allows any", "", "https://evil.example", true},
		{"absent origin allows non-browser clients", "https://shop.example", "", true},
		{"exact match", "https://shop.example", "https://shop.example", true},
		{"case-insensitive match", "https://Shop.Example", "https://shop.example", true},
		{"wildcard", "*", "https://anywhere.example", true},
		{"wildcard among entries", "https://a.example, *", "https://b.example", true},
		{"list match with spaces", "https://a.example, https://b.example", "https://b.example", true},
		{"no match", "https://a.example,https://b.example", "https://c.example", false},
		{"whitespace-only list allows any", "   ", "https://c.example", true},
		{"empty entries skipped", ",,https://a.example,", "https://a.example", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := originAllowed(test.allowed, test.origin); got != test.want {
				t.Errorf("originAllowed(%q, %q) = %v; want %v", test.allowed, test.origin, got, test.want)
			}
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	makeCtx := func(ip, ua, lang string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/vto/shades", nil)
		c.Request.RemoteAddr = ip + ":12345"
		c.Request.Header.Set("User-Agent", ua)
		c.Request.Header.Set("Accept-Language", lang)
		c.Request.Header.Set("Accept-Encoding", "gzip")
		return c
	}

	fp1, ip1, ua1 := fingerprint(makeCtx("203.0.113.7", "widget/1.0", "en-US"))
	fp2, ip2, ua2 := fingerprint(makeCtx("203.0.113.7", "widget/1.0", "en-US"))

	if fp1 != fp2 || ip1 != ip2 || ua1 != ua2 {
		t.Error("same request attributes produced different fingerprints")
	}
	if len(fp1) != 64 || len(ua1) != 64 {
		t.Errorf("fingerprint hashes should be 64 hex chars; got %d and %d", len(fp1), len(ua1))
	}

	fp3, _, _ := fingerprint(makeCtx("203.0.113.8", "widget/1.0", "en-US"))
	if fp3 == fp1 {
		t.Error("different client addresses produced the same fingerprint")
	}

	fp4, _, _ := fingerprint(makeCtx("203.0.113.7", "widget/2.0", "en-US"))
	if fp4 == fp1 {
		t.Error("different user agents produced the same fingerprint")
	}
}
