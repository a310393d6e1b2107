package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func fromIP(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimit_UnderLimit(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Max: 5, Window: time.Minute})(okHandler())

	for i := range 5 {
		w := serve(handler, fromIP("192.168.1.1:12345"))
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	for range 2 {
		require.Equal(t, http.StatusOK, serve(handler, fromIP("10.0.0.1:9999")).Code)
	}

	w := serve(handler, fromIP("10.0.0.1:9999"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var (
		code    int
		message string
	)
	require.NoError(t, jx.DecodeBytes(w.Body.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			code, err = d.Int()
		case "message":
			message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}))
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", message)
}

func TestRateLimit_DifferentIPs(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	assert.Equal(t, http.StatusOK, serve(handler, fromIP("10.0.0.1:1234")).Code)
	assert.Equal(t, http.StatusOK, serve(handler, fromIP("10.0.0.2:1234")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, fromIP("10.0.0.1:5678")).Code)
}

func TestRateLimit_IgnoresClientIDAndForwardedFor(t *testing.T) {
	handler := Wrap(okHandler(),
		ClientID(),
		RateLimit(RateLimitConfig{Max: 2, Window: time.Minute}),
	)

	accepted := 0
	for i := range 10 {
		req := fromIP("10.0.0.1:1234")
		req.Header.Set(ClientIDHeader, "client-"+strconv.Itoa(i))
		req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i))
		if serve(handler, req).Code == http.StatusOK {
			accepted++
		}
	}
	assert.Equal(t, 2, accepted)
}

func TestRateLimit_TrustedProxy(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"192.168.0.0/16"})
	require.NoError(t, err)
	handler := RateLimit(RateLimitConfig{
		Max:     1,
		Window:  time.Minute,
		KeyFunc: ProxiedClientIP(trusted),
	})(okHandler())

	viaProxy := func(xff string) *http.Request {
		req := fromIP("192.168.1.1:4444")
		req.Header.Set("X-Forwarded-For", xff)
		return req
	}
	assert.Equal(t, http.StatusOK, serve(handler, viaProxy("203.0.113.50")).Code)
	assert.Equal(t, http.StatusOK, serve(handler, viaProxy("203.0.113.51")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, viaProxy("198.51.100.1, 203.0.113.50")).Code,
		"only the hop the proxy saw counts")
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Max: 4, Window: time.Minute})
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := range 4 {
		_, _, ok := rl.Allow("k", base.Add(time.Duration(i)*time.Second))
		require.True(t, ok)
	}
	_, resetAt, ok := rl.Allow("k", base.Add(10*time.Second))
	assert.False(t, ok)
	assert.Equal(t, base.Add(time.Minute), resetAt)

	// Halfway through the next window half of the previous count still
	// applies: 4*0.5 = 2, so two more requests fit.
	mid := base.Add(90 * time.Second)
	_, _, ok = rl.Allow("k", mid)
	assert.True(t, ok)
	_, _, ok = rl.Allow("k", mid)
	assert.True(t, ok)
	_, _, ok = rl.Allow("k", mid)
	assert.False(t, ok)

	// After two idle windows the history is gone.
	remaining, _, ok := rl.Allow("k", base.Add(5*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	rl.Allow("old", base)
	rl.Allow("new", base.Add(2*time.Minute))
	require.Equal(t, 2, rl.Len())

	rl.evict(base.Add(2*time.Minute + time.Second))
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_RunStops(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Max: 1, Window: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClientIP(t *testing.T) {
	req := fromIP("192.0.2.1:80")
	req.Header.Set("X-Real-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	assert.Equal(t, "not-an-addr", ClientIP(fromIP("not-an-addr")))
}

func TestProxiedClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.10", " "})
	require.NoError(t, err)
	resolve := ProxiedClientIP(trusted)

	tests := []struct {
		name   string
		remote string
		xff    []string
		want   string
	}{
		{name: "untrusted peer", remote: "198.51.100.7:1", xff: []string{"203.0.113.9"}, want: "198.51.100.7"},
		{name: "trusted peer", remote: "10.1.2.3:1", xff: []string{"203.0.113.9"}, want: "203.0.113.9"},
		{name: "chain of proxies", remote: "192.0.2.10:1", xff: []string{"203.0.113.9, 10.0.0.5"}, want: "203.0.113.9"},
		{name: "spoofed left hops", remote: "10.1.2.3:1", xff: []string{"1.1.1.1, 203.0.113.9"}, want: "203.0.113.9"},
		{name: "repeated header", remote: "10.1.2.3:1", xff: []string{"1.1.1.1", "203.0.113.9"}, want: "203.0.113.9"},
		{name: "no header", remote: "10.1.2.3:1", want: "10.1.2.3"},
		{name: "only proxies", remote: "10.1.2.3:1", xff: []string{"10.0.0.1"}, want: "10.1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fromIP(tt.remote)
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, resolve(req))
		})
	}

	untrusted := ProxiedClientIP(nil)
	req := fromIP("198.51.100.7:1")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "198.51.100.7", untrusted(req))
}

func TestParseTrustedProxies_Invalid(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"10.0.0.0/33"})
	require.Error(t, err)
	_, err = ParseTrustedProxies([]string{"proxy.local"})
	require.Error(t, err)
}
