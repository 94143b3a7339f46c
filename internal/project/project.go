// Package project provides the Project aggregate that ties a name and a
// timeline document together, with repository ports for persistence.
package project

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// Project is one editing session's persistent state: the timeline document
// plus naming and bookkeeping metadata.
type Project struct {
	mu sync.RWMutex

	// ID is the unique identifier for this project.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Timeline is the editable document. It carries its own lock; the
	// project lock only guards the metadata fields.
	Timeline *timeline.Document `json:"timeline"`
	// CreatedAt is when the project was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the project was last saved.
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultName is used when a project is created without a name.
const DefaultName = "Untitled Project"

// New creates a project with a generated ID and a starter timeline holding
// one video and one audio track.
func New(name string) *Project {
	if name == "" {
		name = DefaultName
	}
	doc := timeline.NewDocument()
	// Seed errors are impossible for the built-in track types.
	_, _ = doc.AddTrack(timeline.TrackVideo, "Video 1")
	_, _ = doc.AddTrack(timeline.TrackAudio, "Audio 1")

	now := time.Now().UTC()
	return &Project{
		ID:        newProjectID(),
		Name:      name,
		Timeline:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newProjectID returns a fresh project identifier.
func newProjectID() string {
	return "proj-" + uuid.NewString()
}

// Rename changes the display name. Empty names are ignored.
func (p *Project) Rename(name string) {
	if name == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
}

// Touch bumps the modification timestamp.
func (p *Project) Touch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
}

// Clone creates a deep copy of the project for safe reads.
func (p *Project) Clone() *Project {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c := &Project{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Timeline != nil {
		c.Timeline = p.Timeline.Clone()
	}
	return c
}
