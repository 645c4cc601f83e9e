package protocol

import "net/http"

// ServeHTTP adapts the virtual-scheme handler to a loopback HTTP listener,
// used when the rendering surface cannot intercept a custom scheme itself.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.Handle(r.Method, r.URL.EscapedPath())

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
