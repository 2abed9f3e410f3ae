package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	APISvcURL string
	StaticDir string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger logrus.FieldLogger
}

func NewGateway(config Config, client HTTPClient, logger logrus.FieldLogger) *Gateway {
	config.APISvcURL = strings.TrimRight(config.APISvcURL, "/")
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

// Hop-by-hop headers apply to a single connection and are not forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ProxyRequest forwards r to targetURL keeping method, path, query, headers
// and body. The upstream status and headers are passed back unchanged.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	logger := g.logger.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path, "target": targetURL})

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		logger.WithError(err).Error("failed to build upstream request")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	req.ContentLength = r.ContentLength
	for k, v := range r.Header {
		req.Header[k] = v
	}
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if prior := r.Header.Get("X-Forwarded-For"); prior != "" {
			ip = prior + ", " + ip
		}
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.WithError(err).Warn("upstream unavailable")
		writeError(w, http.StatusBadGateway, "upstream service unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	for _, h := range hopHeaders {
		w.Header().Del(h)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.WithError(err).Warn("failed to copy upstream response")
	}
	logger.WithField("status", resp.StatusCode).Debug("proxied")
}

func (g *Gateway) APIHandler(w http.ResponseWriter, r *http.Request) {
	g.ProxyRequest(w, r, g.config.APISvcURL)
}

// SPAHandler serves a file from the static dir when one matches the path and
// index.html otherwise, so client-side routes survive a reload.
func (g *Gateway) SPAHandler(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	file := filepath.Join(g.config.StaticDir, filepath.FromSlash(clean))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		http.ServeFile(w, r, file)
		return
	}
	index := filepath.Join(g.config.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, index)
}

// StaticHandler serves regular files under /static/. Directories are not listed.
func (g *Gateway) StaticHandler(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + strings.TrimPrefix(r.URL.Path, "/static/"))
	file := filepath.Join(g.config.StaticDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, file)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods(http.MethodGet)
	r.PathPrefix("/api/").HandlerFunc(g.APIHandler)
	r.PathPrefix("/uploads/").HandlerFunc(g.APIHandler)
	r.PathPrefix("/static/").HandlerFunc(g.StaticHandler)
	r.PathPrefix("/").HandlerFunc(g.SPAHandler)
	return r
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
