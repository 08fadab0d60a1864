package llm

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// newHTTPClient builds the client used for provider calls. Explicit proxy
// settings win; otherwise the standard proxy environment variables apply.
func newHTTPClient(config Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &http.Client{
		Transport: transport,
		Timeout:   timeoutOf(config),
	}
}

func proxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	cfg := &httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}
	fn := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return fn(req.URL)
	}
}

func timeoutOf(config Config) time.Duration {
	if config.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(config.Timeout) * time.Second
}
