// Package seed loads site content from a YAML file into the content
// repositories. It is used to bootstrap new environments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/validation"
)

// File is the seed document layout.
type File struct {
	TeamTypes []domain.TeamType      `yaml:"team_types"`
	Carousels []domain.CarouselImage `yaml:"carousels"`
	Flyers    []domain.Flyer         `yaml:"flyers"`
	Videos    []domain.Video         `yaml:"videos"`
	Popup     *domain.PopupSettings  `yaml:"popup"`
}

// Target is the set of repositories a seed is applied to.
type Target interface {
	Carousels() domain.CarouselRepository
	Flyers() domain.FlyerRepository
	Videos() domain.VideoRepository
	TeamTypes() domain.TeamTypeRepository
	Popup() domain.PopupRepository
}

// Result counts created and skipped records.
type Result struct {
	Created int
	Skipped int
}

// Load decodes and validates a seed document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	check := func(kind string, i int, v any) error {
		if verr := validation.Struct(v); !verr.Empty() {
			return fmt.Errorf("seed: %s[%d]: %w", kind, i, verr)
		}
		return nil
	}
	for i := range f.TeamTypes {
		if err := check("team_types", i, &f.TeamTypes[i]); err != nil {
			return err
		}
	}
	for i := range f.Carousels {
		if err := check("carousels", i, &f.Carousels[i]); err != nil {
			return err
		}
	}
	for i := range f.Flyers {
		if err := check("flyers", i, &f.Flyers[i]); err != nil {
			return err
		}
	}
	for i := range f.Videos {
		if err := check("videos", i, &f.Videos[i]); err != nil {
			return err
		}
	}
	if f.Popup != nil {
		return check("popup", 0, f.Popup)
	}
	return nil
}

// Apply creates every record of f. Team types that already exist are
// skipped; any other error stops the run.
func Apply(ctx context.Context, t Target, f *File) (Result, error) {
	var res Result
	for i := range f.TeamTypes {
		err := t.TeamTypes().Create(ctx, &f.TeamTypes[i])
		if errors.Is(err, domain.ErrConflict) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed: team type %q: %w", f.TeamTypes[i].Name, err)
		}
		res.Created++
	}
	for i := range f.Carousels {
		if err := t.Carousels().Create(ctx, &f.Carousels[i]); err != nil {
			return res, fmt.Errorf("seed: carousel %q: %w", f.Carousels[i].Title, err)
		}
		res.Created++
	}
	for i := range f.Flyers {
		if err := t.Flyers().Create(ctx, &f.Flyers[i]); err != nil {
			return res, fmt.Errorf("seed: flyer %q: %w", f.Flyers[i].Title, err)
		}
		res.Created++
	}
	for i := range f.Videos {
		if err := t.Videos().Create(ctx, &f.Videos[i]); err != nil {
			return res, fmt.Errorf("seed: video %q: %w", f.Videos[i].Title, err)
		}
		res.Created++
	}
	if f.Popup != nil {
		if err := t.Popup().Upsert(ctx, f.Popup); err != nil {
			return res, fmt.Errorf("seed: popup: %w", err)
		}
		res.Created++
	}
	return res, nil
}
