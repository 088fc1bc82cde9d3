package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mbellec/bocage/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidProspect    = errors.New("invalid prospect")
	ErrInvalidInteraction = errors.New("invalid interaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProspects validates a slice of prospects for bulk insertion.
func validateProspects(prospects []model.Prospect) error {
	if prospects == nil {
		return fmt.Errorf("%w: prospects", ErrNilParameter)
	}
	if len(prospects) == 0 {
		return fmt.Errorf("%w: prospects", ErrEmptySlice)
	}
	for i := range prospects {
		if err := validateProspect(&prospects[i]); err != nil {
			return fmt.Errorf("prospect at index %d: %w", i, err)
		}
	}
	return nil
}

// validateProspect validates a single prospect.
func validateProspect(p *model.Prospect) error {
	if strings.TrimSpace(p.ExternalRef) == "" {
		return fmt.Errorf("%w: missing external reference", ErrInvalidProspect)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProspect)
	}
	if p.RelevanceScore < 0 || p.RelevanceScore > 100 {
		return fmt.Errorf("%w: relevance score %d outside [0,100]", ErrInvalidProspect, p.RelevanceScore)
	}
	return nil
}

// validateNewInteraction validates an interaction insert.
func validateNewInteraction(in *model.NewInteraction) error {
	if in.ProspectID <= 0 {
		return fmt.Errorf("%w: missing prospect id", ErrInvalidInteraction)
	}
	if _, err := model.ParseInteractionKind(string(in.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInteraction, err)
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return fmt.Errorf("%w: missing actor", ErrInvalidInteraction)
	}
	return nil
}
