package team

import (
	"context"

	"mainstage/internal/domain/announcement"
	"mainstage/internal/domain/schedule"
	"mainstage/internal/domain/team"
	"mainstage/internal/domain/techvideo"
)

// Store defines the persistence interface for team records. Every write is a
// wholesale replace of one sub-path guarded by optimistic concurrency: the
// caller passes the version it read, and the write fails with
// team.ErrVersionConflict when another writer committed in between.
type Store interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
	List(ctx context.Context) ([]team.Record, error)
	Create(ctx context.Context, rec team.Record) error
	UpdateSchedule(ctx context.Context, teamID string, s schedule.Schedule, expectedVersion int64) error
	UpdateTechVideo(ctx context.Context, teamID string, v techvideo.TechVideo, expectedVersion int64) error
	UpdateInformation(ctx context.Context, teamID string, info team.Information, expectedVersion int64) error
	UpdateLocations(ctx context.Context, teamID string, locations []team.Location, expectedVersion int64) error
	ReplaceAnnouncements(ctx context.Context, teamID string, list []announcement.Announcement, expectedVersion int64) error
}
