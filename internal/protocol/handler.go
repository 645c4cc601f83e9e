// Package protocol serves the pytron:// virtual scheme from a root directory
// and injects the bridge bootstrap into HTML responses.
package protocol

import (
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pytrondev/pytron/internal/bridge"
	"github.com/pytrondev/pytron/internal/registry"
)

// blankSentinel is served as an empty 200 so about:blank navigations resolve.
const blankSentinel = "about:blank"

// AssetFunc is the host-provided fallback for paths with no file on disk.
type AssetFunc func(path string) (data []byte, contentType string, ok bool)

// Response is one virtual-scheme reply.
type Response struct {
	Status      int
	ContentType string
	Headers     map[string]string
	Body        []byte
}

// Handler resolves virtual-scheme requests against a root directory. The
// bootstrap injection is recomputed per response so it always reflects the
// live registry.
type Handler struct {
	Root       string
	Registry   *registry.Registry
	Assets     AssetFunc
	PendingTTL time.Duration
	Logger     *slog.Logger
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "*",
	}
}

// Handle serves one request. rawPath is the still-encoded URI path.
func (h *Handler) Handle(method, rawPath string) Response {
	// CORS preflight is answered before any file resolution.
	if strings.EqualFold(method, "OPTIONS") {
		return Response{Status: 200, Headers: corsHeaders()}
	}

	path := strings.TrimPrefix(rawPath, "/")
	path = strings.TrimPrefix(path, "app/")

	if path == blankSentinel {
		return Response{Status: 200}
	}

	decoded, err := url.PathUnescape(path)
	if err != nil {
		decoded = path
	}

	target := filepath.Join(h.Root, filepath.FromSlash(decoded))
	if !h.underRoot(target) {
		return Response{Status: 404}
	}
	if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
		target = filepath.Join(target, "index.html")
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return h.serveFallback(decoded)
	}

	contentType := typeByExtension(target)
	if isHTML(contentType) {
		data = h.inject(data)
	}

	headers := map[string]string{"Access-Control-Allow-Origin": "*"}
	return Response{Status: 200, ContentType: contentType, Headers: headers, Body: data}
}

// underRoot rejects joined paths that escape the root directory. Join cleans
// the path, so any surviving escape starts outside the cleaned root.
func (h *Handler) underRoot(target string) bool {
	root := filepath.Clean(h.Root)
	return target == root || strings.HasPrefix(target, root+string(filepath.Separator))
}

// serveFallback delegates a missing file to the virtual asset provider: the
// explicit Assets hook when set, else the pytron_serve_asset registry slot,
// resolved per request so late binding is honored.
func (h *Handler) serveFallback(decoded string) Response {
	provider := AssetFunc(h.Assets)
	if provider == nil && h.Registry != nil {
		if fn, ok := h.Registry.Provider(registry.ServeAssetMethod); ok {
			provider = AssetFunc(fn)
		}
	}
	if provider != nil {
		if data, contentType, ok := provider(decoded); ok {
			headers := map[string]string{"Access-Control-Allow-Origin": "*"}
			return Response{Status: 200, ContentType: contentType, Headers: headers, Body: data}
		}
	}
	if h.Logger != nil {
		h.Logger.Debug("virtual scheme miss", "path", decoded)
	}
	return Response{Status: 404}
}

// inject places the bootstrap block before </head>, falling back to right
// after <body> when the document has no head tag.
func (h *Handler) inject(data []byte) []byte {
	script := "<script>\n" + bridge.Bootstrap(h.Registry.Names(), h.PendingTTL) + "</script>"
	content := string(data)

	if strings.Contains(content, "</head>") {
		content = strings.Replace(content, "</head>", script+"</head>", 1)
	} else {
		content = strings.Replace(content, "<body>", "<body>"+script, 1)
	}
	return []byte(content)
}

func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}

func typeByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	// mime's table is environment-dependent; cover what app bundles ship.
	switch ext {
	case ".js", ".mjs":
		return "text/javascript"
	case ".wasm":
		return "application/wasm"
	case ".map", ".json":
		return "application/json"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
