package models

import (
	"fmt"
	"strings"
)

// Variant selects how a question is answered once the rows are indexed.
type Variant string

const (
	// VariantDirect assembles embedder, flat index, retriever and generator by hand.
	VariantDirect Variant = "direct"
	// VariantChain hands indexing, retrieval and generation to a langchaingo chain.
	VariantChain Variant = "chain"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantDirect, VariantChain:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}
