package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	quoted, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(quoted)
}

// BindStub returns the forwarding stub installed under a bound method name.
func BindStub(name string) string {
	q := jsString(name)
	return fmt.Sprintf("window[%s] = (...args) => window.__pytron_native_bridge(%s, args);", q, q)
}

// ReturnScript converts a Return into the idempotent resolve/reject instruction
// executed on the rendering side. A settled or unknown seq is a no-op.
func ReturnScript(seq string, status int, result string) string {
	if result == "" {
		result = "null"
	}
	q := jsString(seq)
	return fmt.Sprintf(
		"if (window._rpc && window._rpc[%s]) { if (%d === 0) window._rpc[%s].resolve(%s); else window._rpc[%s].reject(%s); delete window._rpc[%s]; }",
		q, status, q, result, q, result, q)
}

// Bootstrap builds the bridge bootstrap script: the pending-continuation table,
// the dispatcher, reserved-method helpers, and one forwarding stub per name.
// It is safe to execute repeatedly and before the document has loaded; pending
// entries reject themselves after ttl so abandoned calls are reclaimed.
func Bootstrap(names []string, ttl time.Duration) string {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}

	var b strings.Builder
	b.WriteString("window.pytron_is_native = true;\n")
	b.WriteString("window.pytron = window.pytron || {};\n")
	b.WriteString("window.pytron.is_ready = true;\n")
	b.WriteString("window._rpc = window._rpc || {};\n")
	fmt.Fprintf(&b, `window.__pytron_native_bridge = (method, args) => {
    const seq = Math.random().toString(36).substring(2, 10).padEnd(8, '0');
    window.ipc.postMessage(JSON.stringify({id: seq, method: method, params: args}));
    return new Promise((resolve, reject) => {
        const timer = setTimeout(() => {
            if (window._rpc[seq]) { delete window._rpc[seq]; reject("Call '" + method + "' timed out."); }
        }, %d);
        window._rpc[seq] = {
            resolve: (v) => { clearTimeout(timer); resolve(v); },
            reject: (e) => { clearTimeout(timer); reject(e); }
        };
    });
};
`, ttl.Milliseconds())
	b.WriteString("window.pytron_close = () => window.__pytron_native_bridge('pytron_close', []);\n")
	b.WriteString("window.pytron_drag = () => window.__pytron_native_bridge('pytron_drag', []);\n")
	b.WriteString("window.pytron_log = (msg) => window.__pytron_native_bridge('pytron_log', [msg]);\n")
	b.WriteString("window.alert = (msg) => { window.__pytron_native_bridge('pytron_message_box', ['Alert', String(msg), 'info']); };\n")

	for _, name := range names {
		b.WriteString(BindStub(name))
		b.WriteString("\n")
	}
	return b.String()
}
