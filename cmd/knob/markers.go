package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/marker"
	"github.com/alkime/knobs/internal/store"
)

// MarkersCmd groups subcommands that work on the saved marker record.
type MarkersCmd struct {
	List   ListMarkersCmd   `cmd:"" default:"1" help:"List saved markers"`
	Export ExportMarkersCmd `cmd:"" help:"Write saved markers to stdout"`
	Clear  ClearMarkersCmd  `cmd:"" help:"Delete saved markers"`
}

// ListMarkersCmd prints one line per saved marker.
type ListMarkersCmd struct{}

// Run executes the list command.
func (c *ListMarkersCmd) Run(cfg *config.Config) error {
	markers, err := loadMarkers(context.Background(), cfg)
	if err != nil {
		return err
	}

	if len(markers) == 0 {
		fmt.Println("no markers saved")
		return nil
	}

	for i, m := range markers {
		fmt.Printf("%2d  %.4f  length %.1f  width %.1f  color %v\n",
			i, m.Value, m.Length, m.LineWidth, m.Color.Components())
	}

	return nil
}

// ExportMarkersCmd re-encodes the saved record.
type ExportMarkersCmd struct {
	Format string `flag:"" default:"json" enum:"json,yaml,cbor" help:"Output format (json, yaml or cbor)"`
}

// Run executes the export command.
func (c *ExportMarkersCmd) Run(cfg *config.Config) error {
	markers, err := loadMarkers(context.Background(), cfg)
	if err != nil {
		return err
	}

	codec, err := marker.CodecByName(c.Format)
	if err != nil {
		return err
	}

	data, err := marker.Encode(markers, codec)
	if err != nil {
		return fmt.Errorf("failed to encode markers: %w", err)
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write markers: %w", err)
	}

	return nil
}

// ClearMarkersCmd deletes the saved record.
type ClearMarkersCmd struct{}

// Run executes the clear command.
func (c *ClearMarkersCmd) Run(cfg *config.Config) error {
	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}

	if err := s.Delete(context.Background(), cfg.MarkerKey); err != nil {
		return fmt.Errorf("failed to delete markers: %w", err)
	}

	fmt.Printf("markers cleared from %s\n", storeName(cfg))

	return nil
}

// loadMarkers reads the saved record. A missing record is an empty set.
func loadMarkers(ctx context.Context, cfg *config.Config) ([]marker.Marker, error) {
	s, codec, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	data, err := s.Get(ctx, cfg.MarkerKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read markers: %w", err)
	}

	markers, err := marker.Decode(data, codec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode markers: %w", err)
	}

	return markers, nil
}
