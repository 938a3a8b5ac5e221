package models

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileNotFound      = errors.New("file not found")
	ErrEmptyCorpus       = errors.New("empty corpus")
	ErrIndexNotReady     = errors.New("index not ready")
	ErrEmbeddingService  = errors.New("embedding service error")
	ErrGenerationService = errors.New("generation service error")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrUnknownVariant    = errors.New("unknown pipeline variant")
	ErrUnknownProvider   = errors.New("unknown provider")
)
