package urlstore

import (
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/fieldkind"
	"github.com/vango-dev/urlstore/pkg/qs"
)

// State maps keys to values. Declared keys hold typed values after a read;
// everything else is whatever the query decoder produced.
type State = map[string]any

// Store synchronizes a State with the fragment of a Location.
type Store struct {
	loc      Location
	pipeline *fieldkind.Pipeline
	defaults State
	onUpdate func(State)
	encoder  qs.EncodeFunc
	decoder  qs.DecodeFunc

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	// writing is set while the store replaces the fragment. Change
	// notifications that arrive meanwhile are dropped.
	writing    bool
	suppressed int
}

// New creates a Store on loc and registers it as loc's fragment change
// handler.
func New(loc Location, opts ...Option) (*Store, error) {
	if loc == nil {
		return nil, errors.New("E006")
	}

	var config storeConfig
	for _, opt := range opts {
		opt(&config)
	}

	schema, err := fieldkind.NewSchema(config.decl)
	if err != nil {
		return nil, err
	}

	s := &Store{
		loc:      loc,
		pipeline: fieldkind.NewPipeline(schema, fieldkind.WithStrictNumbers(config.strictNumbers)),
		defaults: config.defaults,
		onUpdate: config.onUpdate,
		encoder:  config.encoder,
		decoder:  config.decoder,
		logger:   config.logger,
		metrics:  config.metrics,
		tracer:   config.tracer,
	}
	if s.defaults == nil {
		s.defaults = State{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = defaultTracer()
	}

	loc.SetFragmentChangeHandler(s.OnFragmentChange)
	return s, nil
}

// Schema returns the declared key kinds.
func (s *Store) Schema() *fieldkind.Schema {
	return s.pipeline.Schema()
}

// Read decodes the current fragment over a copy of the defaults and
// converts declared keys to typed values.
func (s *Store) Read() (State, error) {
	span := s.startSpan("read")
	state, err := s.read()
	if err != nil {
		s.metrics.recordError("read")
	} else {
		span.SetAttributes(attribute.Int("urlstore.keys", len(state)))
	}
	endSpan(span, err)
	return state, err
}

func (s *Store) read() (State, error) {
	s.metrics.recordRead()

	state := cloneState(s.defaults)
	parsed := qs.Decode(qs.TrimPrefix(s.loc.Fragment()), qs.WithDecoder(s.decoder))
	for k, v := range parsed {
		state[k] = v
	}
	if err := s.pipeline.Deserialize(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Write merges partial over the current state, writes the result to the
// fragment and passes it to the update callback. Keys in partial win.
func (s *Store) Write(partial State) error {
	return s.update(partial, sourceWrite)
}

// Clear is Write with no new values. Defaults and declared booleans are
// written again.
func (s *Store) Clear() error {
	return s.update(State{}, sourceClear)
}

// OnFragmentChange re-normalizes the fragment after it changed out of
// band. It is registered with the Location by New and may also be called
// directly. Errors are logged, since the caller is the host environment.
func (s *Store) OnFragmentChange() {
	if s.writing {
		s.suppressed++
		s.metrics.recordSuppressed()
		s.logger.Warn("urlstore: dropped fragment change during write",
			"fragment", s.loc.Fragment(),
			"suppressed", s.suppressed)
		return
	}
	if err := s.update(State{}, sourceNotify); err != nil {
		s.logger.Error("urlstore: fragment change failed",
			"fragment", s.loc.Fragment(),
			"error", err)
	}
}

func (s *Store) update(partial State, source string) error {
	span := s.startSpan(source, attribute.Int("urlstore.partial_keys", len(partial)))
	merged, err := s.commit(partial, source)
	if err != nil {
		s.metrics.recordError(source)
		endSpan(span, err)
		return err
	}
	endSpan(span, nil)

	if s.onUpdate != nil {
		s.onUpdate(merged)
	}
	return nil
}

// commit performs the read-merge-write cycle with notifications
// suppressed and returns the merged typed state.
func (s *Store) commit(partial State, source string) (State, error) {
	prev := s.writing
	s.writing = true
	defer func() { s.writing = prev }()

	merged, err := s.read()
	if err != nil {
		return nil, err
	}
	for k, v := range partial {
		merged[k] = v
	}

	wire := cloneState(merged)
	if err := s.pipeline.Serialize(wire); err != nil {
		return nil, err
	}
	fragment, err := qs.Encode(wire, qs.WithEncoder(s.encoder))
	if err != nil {
		return nil, err
	}

	s.replace(fragment, source, len(wire))
	return merged, nil
}

// MoveQueryToFragment moves the search component of the URL into the
// fragment and clears it. The query is copied without decoding so escapes
// survive for the next read; declared booleans are written as "yes" or
// "no". Defaults are not merged. An empty query is a no-op.
func (s *Store) MoveQueryToFragment() error {
	query := s.loc.Query()
	if query == "" || query == "?" {
		return nil
	}

	span := s.startSpan(sourceMigrate, attribute.Int("urlstore.query_bytes", len(query)))
	err := s.moveQuery(query)
	if err != nil {
		s.metrics.recordError(sourceMigrate)
	}
	endSpan(span, err)
	return err
}

func (s *Store) moveQuery(query string) error {
	state := qs.Decode(qs.TrimPrefix(query), qs.WithDecoder(qs.Verbatim))
	if err := s.pipeline.Normalize(state); err != nil {
		return err
	}
	fragment, err := qs.Encode(state, qs.WithEncoder(qs.Verbatim))
	if err != nil {
		return err
	}

	prev := s.writing
	s.writing = true
	s.replace(fragment, sourceMigrate, len(state))
	s.writing = prev

	s.loc.ClearQuery()
	return nil
}

func (s *Store) replace(fragment, source string, keys int) {
	s.loc.ReplaceFragment(fragment)
	s.metrics.recordWrite(source, fragment)
	s.logger.Debug("urlstore: fragment replaced",
		"source", source,
		"keys", keys,
		"bytes", len(fragment))
}

// Fragment returns the current fragment, including its leading '#'.
func (s *Store) Fragment() string {
	return s.loc.Fragment()
}

// Href returns the full URL of the store's Location.
func (s *Store) Href() string {
	return Href(s.loc)
}

// SuppressedNotifications returns how many change notifications were
// dropped because they arrived while the store was writing.
func (s *Store) SuppressedNotifications() int {
	return s.suppressed
}
