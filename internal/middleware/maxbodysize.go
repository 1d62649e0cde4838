package middleware

import "net/http"

// NewMaxBodySizeHandler caps request bodies at limit bytes. A request whose
// Content-Length already exceeds the limit is answered with 413 without
// calling next. Otherwise the body is wrapped in http.MaxBytesReader so a
// streamed body fails on read once it crosses the limit; the JSON decoder in
// the handler package turns that into a 413 as well.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":{"code":"validation_error","message":"request body too large"}}`))
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
