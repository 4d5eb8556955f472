package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/ridloal/meoris-storefront/internal/platform/config"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("target URL '%s' needs a scheme and host", targetHost)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error(fmt.Sprintf("Gateway: proxy error for %s %s to %s", req.Method, req.URL.Path, targetURL), err)
		http.Error(rw, "Service unavailable or proxy error", http.StatusBadGateway)
	}
	return proxy, nil
}

// newGatewayMux routes API calls to the storefront service and image paths to the object store.
// Paths are forwarded unchanged.
func newGatewayMux(cfg config.GatewayConfig) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	serviceMappings := []struct {
		prefix string
		target string
	}{
		{"/api/", cfg.StorefrontServiceURL},
		{"/images/", cfg.ObjectStoreURL},
		{"/health", cfg.StorefrontServiceURL},
	}

	for _, m := range serviceMappings {
		proxy, err := newSingleHostReverseProxy(m.target)
		if err != nil {
			return nil, fmt.Errorf("failed to create reverse proxy for prefix %s: %w", m.prefix, err)
		}
		mux.Handle(m.prefix, proxy)
		logger.Info(fmt.Sprintf("Routing %s to %s", m.prefix, m.target))
	}
	return mux, nil
}

func main() {
	config.LoadDotEnv()
	cfg := config.LoadGatewayConfig()
	logger.Info("Starting API Gateway on port " + cfg.ListenPort)

	mux, err := newGatewayMux(cfg)
	if err != nil {
		logger.Error("API Gateway misconfigured", err)
		return
	}

	server := &http.Server{
		Addr:    ":" + cfg.ListenPort,
		Handler: mux,
	}

	logger.Info(fmt.Sprintf("API Gateway successfully configured and listening on :%s", cfg.ListenPort))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API Gateway failed to start or crashed", err)
	}
}
