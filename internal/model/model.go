package model

import "time"

// Environment names.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Scope carries the acting identity through use cases.
type Scope struct {
	UserID string
}

// Project is a produced content project: the container for the slides and
// media artifacts one generation task creates.
type Project struct {
	ID        string
	Title     string
	Topic     string
	Status    string // "draft", "ready"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArtifactKind classifies produced media.
type ArtifactKind string

const (
	ArtifactScript ArtifactKind = "script"
	ArtifactImage  ArtifactKind = "image"
	ArtifactSlide  ArtifactKind = "slide" // image with text overlay applied
	ArtifactAudio  ArtifactKind = "audio"
	ArtifactVideo  ArtifactKind = "video"
)

// Artifact is one produced media file belonging to a project.
type Artifact struct {
	ID        string
	ProjectID string
	Kind      ArtifactKind
	URL       string
	MimeType  string
	Position  int // slide order within the project, 0 when not applicable
	CreatedAt time.Time
}
