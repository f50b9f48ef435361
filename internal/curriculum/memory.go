package curriculum

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps saved tracks and missions in memory in save order.
// Dry-run imports use it in place of the catalog. The zero value is ready to
// use.
type MemoryRepository struct {
	mu       sync.Mutex
	tracks   []*Track
	missions []*Mission
}

var _ Repository = (*MemoryRepository)(nil)

// SaveTrack stores a copy of track, replacing an earlier save with the same ID.
func (r *MemoryRepository) SaveTrack(_ context.Context, track *Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *track
	clone.DefaultLanguages = slices.Clone(track.DefaultLanguages)
	for i, existing := range r.tracks {
		if existing.ID == track.ID {
			r.tracks[i] = &clone
			return nil
		}
	}
	r.tracks = append(r.tracks, &clone)
	return nil
}

// SaveMission stores a copy of mission, replacing an earlier save with the same ID.
func (r *MemoryRepository) SaveMission(_ context.Context, mission *Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *mission
	clone.Parents = slices.Clone(mission.Parents)
	clone.Languages = slices.Clone(mission.Languages)
	clone.Stars = slices.Clone(mission.Stars)
	clone.TestSuite = slices.Clone(mission.TestSuite)
	for i, existing := range r.missions {
		if existing.ID == mission.ID {
			r.missions[i] = &clone
			return nil
		}
	}
	r.missions = append(r.missions, &clone)
	return nil
}

// Tracks returns the saved tracks in save order.
func (r *MemoryRepository) Tracks() []*Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Track(nil), r.tracks...)
}

// Missions returns the saved missions in save order.
func (r *MemoryRepository) Missions() []*Mission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Mission(nil), r.missions...)
}

// Track returns the saved track with id, or nil.
func (r *MemoryRepository) Track(id string) *Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Mission returns the saved mission with id, or nil.
func (r *MemoryRepository) Mission(id string) *Mission {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.missions {
		if m.ID == id {
			return m
		}
	}
	return nil
}
