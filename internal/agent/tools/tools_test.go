package tools_test

import (
	"context"
	"errors"
	"testing"

	"content-pilot/internal/agent/tools"
	"content-pilot/internal/memory"
	"content-pilot/internal/model"
	"content-pilot/internal/project/repository"
	"content-pilot/pkg/llmprovider"
	"content-pilot/pkg/mediagen"
)

// mockLogger
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any) {}

// mockModel
type mockModel struct {
	text string
	err  error
}

func (m *mockModel) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{
		Content: llmprovider.Message{Role: "assistant", Parts: []llmprovider.Part{{Text: m.text}}},
	}, nil
}

// mockMediaGen
type mockMediaGen struct {
	asset *mediagen.Asset
	err   error
	calls []string
}

func (m *mockMediaGen) RenderImage(ctx context.Context, req mediagen.ImageRequest) (*mediagen.Asset, error) {
	m.calls = append(m.calls, "render")
	return m.asset, m.err
}
func (m *mockMediaGen) OverlayText(ctx context.Context, req mediagen.OverlayRequest) (*mediagen.Asset, error) {
	m.calls = append(m.calls, "overlay")
	return m.asset, m.err
}
func (m *mockMediaGen) SynthesizeSpeech(ctx context.Context, req mediagen.SpeechRequest) (*mediagen.Asset, error) {
	m.calls = append(m.calls, "speech")
	return m.asset, m.err
}
func (m *mockMediaGen) AssembleVideo(ctx context.Context, req mediagen.VideoRequest) (*mediagen.Asset, error) {
	m.calls = append(m.calls, "video")
	return m.asset, m.err
}

// mockProjectRepo
type mockProjectRepo struct {
	projects  map[string]*model.Project
	artifacts []*model.Artifact
	statuses  map[string]string
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: map[string]*model.Project{}, statuses: map[string]string{}}
}

func (m *mockProjectRepo) CreateProject(ctx context.Context, p *model.Project) error {
	if p.Status == "" {
		p.Status = "draft"
	}
	m.projects[p.ID] = p
	return nil
}
func (m *mockProjectRepo) GetProject(ctx context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}
func (m *mockProjectRepo) ListProjects(ctx context.Context) ([]model.Project, error) {
	return nil, nil
}
func (m *mockProjectRepo) UpdateProjectStatus(ctx context.Context, id, status string) error {
	m.statuses[id] = status
	return nil
}
func (m *mockProjectRepo) AddArtifact(ctx context.Context, a *model.Artifact) error {
	m.artifacts = append(m.artifacts, a)
	return nil
}
func (m *mockProjectRepo) GetArtifact(ctx context.Context, id string) (*model.Artifact, error) {
	for _, a := range m.artifacts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (m *mockProjectRepo) ListArtifacts(ctx context.Context, projectID string) ([]model.Artifact, error) {
	var out []model.Artifact
	for _, a := range m.artifacts {
		if a.ProjectID == projectID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// mockMemory
type mockMemory struct {
	learnings map[string][]string
	active    string
	err       error
}

func newMockMemory() *mockMemory {
	return &mockMemory{learnings: map[string][]string{}}
}

func (m *mockMemory) RecordLearning(ctx context.Context, category, text string) error {
	if m.err != nil {
		return m.err
	}
	m.learnings[category] = append(m.learnings[category], text)
	return nil
}
func (m *mockMemory) Checkpoint(ctx context.Context, update memory.Update) error {
	if m.err != nil {
		return m.err
	}
	if update.ActiveProjectID != nil {
		m.active = *update.ActiveProjectID
	}
	return nil
}
func (m *mockMemory) Load() *memory.Snapshot { return &memory.Snapshot{} }

func seedProject(repo *mockProjectRepo) *model.Project {
	p := &model.Project{ID: "p1", Title: "Spring launch", Topic: "spring shoes", Status: "draft"}
	repo.projects[p.ID] = p
	return p
}

func TestGenerateScriptTool(t *testing.T) {
	tool := tools.NewGenerateScriptTool(&mockModel{text: "Line one\nLine two\nLine three\n"}, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"topic":       "spring shoes",
		"slide_count": float64(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	script := out.(tools.GenerateScriptOutput)
	if script.SlideCount != 2 || len(script.Slides) != 2 {
		t.Errorf("slide count: %+v", script)
	}
	if script.Slides[0] != "Line one" {
		t.Errorf("first slide: %q", script.Slides[0])
	}
}

func TestGenerateScriptTool_ModelFailure(t *testing.T) {
	tool := tools.NewGenerateScriptTool(&mockModel{err: errors.New("quota")}, &mockLogger{})

	if _, err := tool.Execute(context.Background(), map[string]interface{}{"topic": "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderImageTool(t *testing.T) {
	repo := newMockProjectRepo()
	seedProject(repo)
	media := &mockMediaGen{asset: &mediagen.Asset{URL: "https://assets.example/bg.png", MimeType: "image/png"}}
	tool := tools.NewRenderImageTool(media, repo, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_id": "p1",
		"prompt":     "spring shoes on grass",
		"position":   float64(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ref := out.(tools.ArtifactOutput)
	if ref.ArtifactURL() != "https://assets.example/bg.png" {
		t.Errorf("artifact url: %q", ref.ArtifactURL())
	}
	if len(repo.artifacts) != 1 || repo.artifacts[0].Kind != model.ArtifactImage {
		t.Errorf("stored artifacts: %+v", repo.artifacts)
	}
	if repo.artifacts[0].Position != 1 {
		t.Errorf("position: %d", repo.artifacts[0].Position)
	}
}

func TestRenderImageTool_UnknownProject(t *testing.T) {
	media := &mockMediaGen{asset: &mediagen.Asset{URL: "x"}}
	tool := tools.NewRenderImageTool(media, newMockProjectRepo(), &mockLogger{})

	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_id": "missing",
		"prompt":     "x",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(media.calls) != 0 {
		t.Error("vendor should not be called for an unknown project")
	}
}

func TestOverlayTextTool(t *testing.T) {
	repo := newMockProjectRepo()
	seedProject(repo)
	media := &mockMediaGen{asset: &mediagen.Asset{URL: "https://assets.example/slide.png", MimeType: "image/png"}}
	tool := tools.NewOverlayTextTool(media, repo, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_id": "p1",
		"image_url":  "https://assets.example/bg.png",
		"text":       "Line one",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(tools.ArtifactOutput).Kind != string(model.ArtifactSlide) {
		t.Errorf("kind: %+v", out)
	}
}

func TestSynthesizeVoiceTool(t *testing.T) {
	repo := newMockProjectRepo()
	seedProject(repo)
	media := &mockMediaGen{asset: &mediagen.Asset{URL: "https://assets.example/voice.mp3", MimeType: "audio/mpeg"}}
	tool := tools.NewSynthesizeVoiceTool(media, repo, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_id": "p1",
		"text":       "Line one. Line two.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(tools.ArtifactOutput).Kind != string(model.ArtifactAudio) {
		t.Errorf("kind: %+v", out)
	}
}

func TestAssembleVideoTool(t *testing.T) {
	repo := newMockProjectRepo()
	seedProject(repo)
	media := &mockMediaGen{asset: &mediagen.Asset{URL: "https://assets.example/final.mp4", MimeType: "video/mp4"}}
	tool := tools.NewAssembleVideoTool(media, repo, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_id": "p1",
		"slide_urls": []interface{}{"https://assets.example/s1.png", "https://assets.example/s2.png"},
		"audio_url":  "https://assets.example/voice.mp3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(tools.ArtifactOutput).Kind != string(model.ArtifactVideo) {
		t.Errorf("kind: %+v", out)
	}
	if repo.statuses["p1"] != "ready" {
		t.Errorf("project should be marked ready, got %q", repo.statuses["p1"])
	}
}

func TestAssembleVideoTool_EmptySlides(t *testing.T) {
	repo := newMockProjectRepo()
	seedProject(repo)
	tool := tools.NewAssembleVideoTool(&mockMediaGen{}, repo, &mockLogger{})

	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_id": "p1",
		"slide_urls": []interface{}{},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveLearningTool(t *testing.T) {
	mem := newMockMemory()
	tool := tools.NewSaveLearningTool(mem, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"category": "brand",
		"text":     "always use the sans-serif logo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.(tools.SaveLearningOutput).Saved {
		t.Error("expected saved=true")
	}
	if len(mem.learnings["brand"]) != 1 {
		t.Errorf("learnings: %+v", mem.learnings)
	}
}

func TestSetActiveProjectTool(t *testing.T) {
	repo := newMockProjectRepo()
	seedProject(repo)
	mem := newMockMemory()
	tool := tools.NewSetActiveProjectTool(mem, repo, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{"project_id": "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(tools.SetActiveProjectOutput).ActiveProjectID != "p1" {
		t.Errorf("output: %+v", out)
	}
	if mem.active != "p1" {
		t.Errorf("memory pointer: %q", mem.active)
	}
}

func TestSetActiveProjectTool_UnknownProject(t *testing.T) {
	tool := tools.NewSetActiveProjectTool(newMockMemory(), newMockProjectRepo(), &mockLogger{})

	if _, err := tool.Execute(context.Background(), map[string]interface{}{"project_id": "missing"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateProjectTool(t *testing.T) {
	repo := newMockProjectRepo()
	mem := newMockMemory()
	tool := tools.NewCreateProjectTool(repo, mem, &mockLogger{})

	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"title": "Spring launch",
		"topic": "spring shoes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := out.(tools.CreateProjectOutput)
	if created.ProjectID == "" || created.Status != "draft" {
		t.Errorf("output: %+v", created)
	}
	if mem.active != created.ProjectID {
		t.Error("new project should become active")
	}
	if _, ok := repo.projects[created.ProjectID]; !ok {
		t.Error("project not stored")
	}
}
