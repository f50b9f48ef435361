package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"curriculum/internal/catalog"
	"curriculum/internal/config"
	"curriculum/internal/curriculum"
	"curriculum/internal/fileutil"
)

// manifest is the YAML document written by `curriculum export`.
type manifest struct {
	GeneratedAt time.Time       `yaml:"generated_at"`
	Tracks      []manifestTrack `yaml:"tracks"`
}

type manifestTrack struct {
	curriculum.Track `yaml:",inline"`
	Missions         []*curriculum.Mission `yaml:"missions"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a YAML manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				doc, err := buildManifest(cmd.Context(), store)
				if err != nil {
					return err
				}
				data, err := encodeManifest(doc)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outputPath)
				if target == "" || target == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if target, err = config.ExpandPath(target); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
					return fmt.Errorf("write manifest: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d track(s) to %s\n", len(doc.Tracks), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the manifest to this file instead of stdout")
	return cmd
}

func buildManifest(ctx context.Context, store *catalog.Store) (*manifest, error) {
	tracks, err := store.ListTracks(ctx)
	if err != nil {
		return nil, err
	}
	doc := &manifest{GeneratedAt: time.Now().UTC(), Tracks: make([]manifestTrack, 0, len(tracks))}
	for _, track := range tracks {
		missions, err := store.ListMissions(ctx, track.ID)
		if err != nil {
			return nil, err
		}
		ordered, _ := orderMissions(missions)
		doc.Tracks = append(doc.Tracks, manifestTrack{Track: *track, Missions: ordered})
	}
	return doc, nil
}

func encodeManifest(doc *manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
