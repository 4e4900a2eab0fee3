package server

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/remoteloc"
	"github.com/vango-dev/urlstore/pkg/urlstore"
)

// DecodeRequest is the body of POST /v1/decode. URL wins over Fragment
// when both are set. With Migrate, the query of URL is moved into the
// fragment before reading.
type DecodeRequest struct {
	Fragment string `json:"fragment,omitempty"`
	URL      string `json:"url,omitempty"`
	Migrate  bool   `json:"migrate,omitempty"`
}

// DecodeResponse is the reply to POST /v1/decode.
type DecodeResponse struct {
	State    urlstore.State `json:"state"`
	Fragment string         `json:"fragment"`
}

// EncodeRequest is the body of POST /v1/encode. State is merged over the
// state decoded from Fragment.
type EncodeRequest struct {
	State    urlstore.State `json:"state"`
	Fragment string         `json:"fragment,omitempty"`
}

// EncodeResponse is the reply to POST /v1/encode.
type EncodeResponse struct {
	Fragment string         `json:"fragment"`
	State    urlstore.State `json:"state"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	raw := req.URL
	if raw == "" {
		raw = ensureHash(req.Fragment)
	}
	store, loc, err := s.memoryStore(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Migrate {
		if err := store.MoveQueryToFragment(); err != nil {
			s.writeError(w, err)
			return
		}
	}

	state, err := store.Read()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DecodeResponse{State: state, Fragment: loc.Fragment()})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var merged urlstore.State
	store, loc, err := s.memoryStore(ensureHash(req.Fragment),
		urlstore.WithOnUpdate(func(st urlstore.State) { merged = st }))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := store.Write(req.State); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EncodeResponse{Fragment: loc.Fragment(), State: merged})
}

func (s *Server) memoryStore(rawURL string, extra ...urlstore.Option) (*urlstore.Store, *urlstore.MemoryLocation, error) {
	loc := urlstore.NewMemoryLocation(rawURL)
	store, err := urlstore.New(loc, s.options(extra...)...)
	if err != nil {
		return nil, nil, err
	}
	return store, loc, nil
}

// handleWebSocket runs one browser session: handshake, migrate the query,
// normalize the fragment, then follow hashchange events until the socket
// closes. Everything happens on this goroutine.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.activeSessions.Set(float64(s.sessions.Add(1)))
	defer func() {
		s.activeSessions.Set(float64(s.sessions.Add(-1)))
	}()

	ctx := r.Context()
	logger := s.logger.With("remote", r.RemoteAddr)
	loc := remoteloc.New(conn, remoteloc.WithLogger(logger))
	if err := loc.Handshake(ctx); err != nil {
		logger.Warn("location handshake failed", "error", err)
		return
	}

	store, err := urlstore.New(loc, s.options(urlstore.WithLogger(logger))...)
	if err != nil {
		logger.Error("store setup failed", "error", err)
		return
	}
	if err := store.MoveQueryToFragment(); err != nil {
		logger.Warn("query migration failed", "error", err)
	}
	store.OnFragmentChange()

	if err := loc.Serve(ctx); err != nil && !stderrors.Is(err, ctx.Err()) {
		logger.Warn("location session ended", "error", err)
	}
}

// options returns the configured store options followed by extra. The
// shared slice is never appended to in place.
func (s *Server) options(extra ...urlstore.Option) []urlstore.Option {
	opts := make([]urlstore.Option, 0, len(s.storeOpts)+len(extra))
	opts = append(opts, s.storeOpts...)
	return append(opts, extra...)
}

func ensureHash(fragment string) string {
	if fragment == "" || fragment[0] == '#' {
		return fragment
	}
	return "#" + fragment
}

func readJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.New("E162").Wrap(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.New("E162").WithInput(string(data), -1).Wrap(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError replies 400 with the error's JSON form for coded errors and
// 500 for anything else.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var se *errors.StoreError
	if !stderrors.As(err, &se) {
		s.logger.Error("request failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte(`{"error":` + se.FormatJSON() + `}`))
}
