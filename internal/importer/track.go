package importer

import (
	"context"
	"fmt"

	"curriculum/internal/curriculum"
	"curriculum/internal/logging"
	"curriculum/internal/slug"
	"curriculum/internal/textutil"
)

// importTrack loads, saves, and then imports the missions of one track
// directory. Directories without a track description are skipped.
func (r *run) importTrack(ctx context.Context, dir string) error {
	doc, ok := r.loadDocument(ctx, dir, TrackDescription, TrackConfig)
	if !ok {
		return nil
	}
	cfg := r.importer.cfg

	title := r.title(ctx, doc)
	id := slug.Normalize(title)
	if owner, taken := r.tracks[id]; taken {
		r.diags.Errorf(ctx, doc.subject, "duplicate track id %q (also used by %s), skipping", id, owner)
		return nil
	}
	r.tracks[id] = doc.subject
	ctx = logging.WithTrack(ctx, id)

	languages, ok := r.languages(doc)
	if !ok {
		languages = textutil.OrderedSet(cfg.Import.DefaultLanguages)
	}
	track := &curriculum.Track{
		ID:               id,
		Title:            title,
		DefaultLanguages: languages,
		DefaultReward:    r.reward(ctx, doc, cfg.Import.DefaultReward),
		Path:             dir,
	}
	track.DescriptionHTML = r.describe(ctx, doc)

	if err := r.importer.repo.SaveTrack(ctx, track); err != nil {
		return fmt.Errorf("save track %s: %w", doc.subject, err)
	}
	r.result.Tracks = append(r.result.Tracks, track)
	logging.WithContext(ctx, r.importer.logger).Info(
		"track saved",
		logging.String("title", track.Title),
		logging.Strings("languages", track.DefaultLanguages),
		logging.Int("reward", track.DefaultReward),
	)

	return r.importMissions(ctx, track)
}
