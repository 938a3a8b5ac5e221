package session

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"tabular-rag/internal/helper"
	"tabular-rag/internal/models"
	"tabular-rag/internal/parser"
	"tabular-rag/internal/rag"
)

var ErrEmptyQuestion = errors.New("question is empty")

// state is replaced as a whole; it is never mutated after construction.
type state struct {
	fingerprint string
	variant     models.Variant
	units       []models.TextUnit
	pipeline    rag.Pipeline
}

// Session owns the rows, index and pipeline built from one set of uploads.
// It is not safe for concurrent use; callers serialize requests per session.
type Session struct {
	id      string
	factory Factory
	parser  parser.Parser
	current *state
}

type Option func(*Session)

func WithParser(p parser.Parser) Option {
	return func(s *Session) {
		s.parser = p
	}
}

func New(factory Factory, opts ...Option) (*Session, error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:      id,
		factory: factory,
		parser:  parser.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) ID() string { return s.id }

// Fingerprint identifies an upload set: sorted base names joined with "_",
// then the variant.
func Fingerprint(paths []string, variant models.Variant) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	sort.Strings(names)
	return strings.Join(names, "_") + "#" + string(variant)
}

// Load rebuilds the session from paths unless the fingerprint is unchanged.
// The previous state stays in place until the new one is fully built.
func (s *Session) Load(ctx context.Context, paths []string, variant models.Variant) (bool, error) {
	fp := Fingerprint(paths, variant)
	if s.current != nil && s.current.fingerprint == fp {
		log.Debug().Str("session", s.id).Str("fingerprint", fp).Msg("Fingerprint unchanged, reusing index")
		return false, nil
	}

	log.Info().Str("session", s.id).Str("fingerprint", fp).Msg("Reprocessing due to new files or variant switch")

	units, err := s.parser.FlattenAll(paths)
	if err != nil {
		return false, err
	}

	pipeline, err := s.factory.Build(ctx, variant, units)
	if err != nil {
		return false, err
	}

	previous := s.current
	s.current = &state{
		fingerprint: fp,
		variant:     variant,
		units:       units,
		pipeline:    pipeline,
	}
	log.Info().Str("session", s.id).Int("units", len(units)).Str("variant", string(variant)).Msg("Index ready")

	if previous != nil {
		s.release(previous.pipeline)
	}
	return true, nil
}

// release frees a replaced pipeline that holds its own store.
func (s *Session) release(p rag.Pipeline) {
	closer, ok := p.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Warn().Err(err).Str("session", s.id).Msg("Error releasing previous index")
	}
}

// Ask answers question with the current pipeline. Nothing is cached per
// question.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if s.current == nil {
		return "", models.ErrIndexNotReady
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	return s.current.pipeline.Answer(ctx, question)
}

func (s *Session) Fingerprint() string {
	if s.current == nil {
		return ""
	}
	return s.current.fingerprint
}

func (s *Session) Variant() models.Variant {
	if s.current == nil {
		return ""
	}
	return s.current.variant
}

// Units returns the units of the current state in index order.
func (s *Session) Units() []models.TextUnit {
	if s.current == nil {
		return nil
	}
	return s.current.units
}
