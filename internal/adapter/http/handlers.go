package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/careport/clinicgate/internal/adapter/otel"
	"github.com/careport/clinicgate/internal/adapter/tagcache"
	"github.com/careport/clinicgate/internal/cachepolicy"
	"github.com/careport/clinicgate/internal/directory"
	"github.com/careport/clinicgate/internal/domain"
	"github.com/careport/clinicgate/internal/logger"
	"github.com/careport/clinicgate/internal/middleware"
	"github.com/careport/clinicgate/internal/resilience"
	"github.com/careport/clinicgate/internal/resolve"
	"github.com/careport/clinicgate/internal/upstream"
)

// Handlers holds the proxy handler dependencies.
type Handlers struct {
	Upstream  *upstream.Client
	Cache     *tagcache.Cache
	Tokens    upstream.TokenProvider
	Directory *directory.Directory
	Breaker   *resilience.Breaker // optional
	Metrics   *otel.Metrics       // optional
	Log       *slog.Logger
}

// forwardHeaders builds the headers forwarded upstream for one inbound
// request: the Authorization header verbatim when present, else a bearer
// token from the trusted cookie store, plus the request ID.
func (h *Handlers) forwardHeaders(r *http.Request) http.Header {
	hdr := http.Header{}
	if auth := r.Header.Get("Authorization"); auth != "" {
		hdr.Set("Authorization", auth)
	} else if h.Tokens != nil {
		if tok, ok := h.Tokens.Token(r); ok {
			hdr.Set("Authorization", "Bearer "+tok)
		}
	}
	if id := logger.RequestID(r.Context()); id != "" {
		hdr.Set("X-Request-ID", id)
	}
	return hdr
}

// proxyGet forwards a GET to upstreamPath, serving and populating the tagged
// response cache according to the resource class directive. Cached replays
// are byte-identical to the stored upstream body.
func (h *Handlers) proxyGet(w http.ResponseWriter, r *http.Request, class cachepolicy.Class, upstreamPath string) {
	ctx := r.Context()
	slug := middleware.ClinicSlugFromContext(ctx)
	d := cachepolicy.ForGet(class, slug)
	key := tagcache.Key(http.MethodGet, r.URL.Path, r.URL.RawQuery)

	if !d.Disabled {
		if entry, found, err := h.Cache.Get(ctx, key); err == nil && found {
			if h.Metrics != nil {
				h.Metrics.CacheHits.Add(ctx, 1)
			}
			setCacheControl(w, d)
			w.Header().Set("X-Cache", "HIT")
			writeRaw(w, entry.Status, entry.ContentType, entry.Body)
			return
		}
		if h.Metrics != nil {
			h.Metrics.CacheMisses.Add(ctx, 1)
		}
	}

	res, ok := h.callUpstream(w, r, upstream.Request{
		Method:   http.MethodGet,
		Path:     upstreamPath,
		RawQuery: r.URL.RawQuery,
		Header:   h.forwardHeaders(r),
	})
	if !ok {
		return
	}

	if !d.Disabled {
		entry := tagcache.Entry{Status: res.Status, ContentType: "application/json", Body: res.Body}
		if err := h.Cache.Set(ctx, key, entry, d.RevalidateAfter, d.Tags); err != nil {
			h.Log.Warn("response cache store failed", "key", key, "error", err)
		}
	}

	setCacheControl(w, d)
	w.Header().Set("X-Cache", "MISS")
	writeRaw(w, res.Status, "application/json", res.Body)
}

// proxyMutation forwards a POST/PUT/DELETE to upstreamPath with caching
// disabled. On upstream success the resource class tags are invalidated
// synchronously so the next GET observes the mutation.
func (h *Handlers) proxyMutation(w http.ResponseWriter, r *http.Request, class cachepolicy.Class, upstreamPath string) {
	ctx := r.Context()
	setNoStore(w)

	var body []byte
	if r.Method != http.MethodDelete {
		var ok bool
		body, ok = readBody(w, r)
		if !ok {
			return
		}
	}

	res, ok := h.callUpstream(w, r, upstream.Request{
		Method:   r.Method,
		Path:     upstreamPath,
		RawQuery: r.URL.RawQuery,
		Body:     body,
		Header:   h.forwardHeaders(r),
	})
	if !ok {
		return
	}

	slug := middleware.ClinicSlugFromContext(ctx)
	if tags := cachepolicy.InvalidationTags(class, slug); len(tags) > 0 {
		if err := h.Cache.Invalidate(ctx, tags...); err != nil {
			h.Log.Warn("cache invalidation failed", "tags", tags, "error", err)
		}
	}

	writeRaw(w, res.Status, "application/json", res.Body)
}

// callUpstream performs the upstream call and handles every failure mode at
// the endpoint boundary. A false return means the response has been written.
func (h *Handlers) callUpstream(w http.ResponseWriter, r *http.Request, req upstream.Request) (*upstream.Result, bool) {
	ctx := r.Context()
	start := time.Now()
	res, err := h.Upstream.Do(ctx, req)
	if h.Metrics != nil {
		h.Metrics.RequestsProxied.Add(ctx, 1)
		h.Metrics.UpstreamLatency.Record(ctx, time.Since(start).Seconds())
	}
	if err == nil {
		return res, true
	}

	if h.Metrics != nil {
		h.Metrics.UpstreamFailures.Add(ctx, 1)
	}

	// Upstream-reported failures pass through with their original status and
	// body; everything else becomes the uniform internal-error envelope.
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		if len(ue.Body) > 0 {
			writeRaw(w, ue.Status, "application/json", ue.Body)
		} else {
			writeFailure(w, ue.Status, ue.Message)
		}
		return nil, false
	}

	var ae *domain.ApplicationError
	if errors.As(err, &ae) {
		writeRaw(w, ae.Status, "application/json", ae.Body)
		return nil, false
	}

	var te *domain.TimeoutError
	switch {
	case errors.As(err, &te):
		writeInternalError(w, te.Error())
	default:
		h.Log.Error("upstream call failed",
			"method", req.Method, "path", req.Path, "error", err,
			"request_id", logger.RequestID(ctx))
		writeInternalError(w, "upstream request failed")
	}
	return nil, false
}

// resolveResponse is the payload of the resolution endpoint.
type resolveResponse struct {
	State    string `json:"state"`
	Clinic   any    `json:"clinic,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Resolve applies tenant resolution to the path given in the "path" query
// parameter and reports the outcome without performing navigation; the
// rendering layer owns the actual redirect.
func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeFailure(w, http.StatusBadRequest, "path query parameter is required")
		return
	}

	// First call after startup may still need the directory; the load is
	// coalesced so racing requests share one fetch.
	if !h.Directory.Loaded() {
		_ = h.Directory.LoadAll(r.Context())
	}

	dec := resolve.Decide(path, h.Directory)

	resp := resolveResponse{State: dec.State.String(), Redirect: dec.Redirect}
	status := http.StatusOK
	switch dec.State {
	case resolve.StateUnresolved:
		status = http.StatusServiceUnavailable
		if dec.Err != nil {
			resp.Error = dec.Err.Error()
		}
	default:
		resp.Clinic = dec.Tenant
	}

	setNoStore(w)
	writeJSON(w, status, resp)
}

// Health reports gateway liveness and directory state.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	type dirStatus struct {
		Loaded  bool   `json:"loaded"`
		Clinics int    `json:"clinics"`
		Error   string `json:"error,omitempty"`
	}

	ds := dirStatus{Loaded: h.Directory.Loaded(), Clinics: len(h.Directory.Clinics())}
	if err := h.Directory.LoadErr(); err != nil {
		ds.Error = err.Error()
	}

	resp := map[string]any{
		"status":    "ok",
		"directory": ds,
	}
	if h.Breaker != nil {
		resp["upstream"] = map[string]string{"circuit": h.Breaker.State()}
	}

	setNoStore(w)
	writeJSON(w, http.StatusOK, resp)
}
