package mediagen

import "context"

// IMediaGen defines the interface for the media generation vendor API.
// Every call is a plain request/response; all generation state lives vendor-side.
type IMediaGen interface {
	RenderImage(ctx context.Context, req ImageRequest) (*Asset, error)
	OverlayText(ctx context.Context, req OverlayRequest) (*Asset, error)
	SynthesizeSpeech(ctx context.Context, req SpeechRequest) (*Asset, error)
	AssembleVideo(ctx context.Context, req VideoRequest) (*Asset, error)
}
