package mediagen

// Config configures the media generation client.
type Config struct {
	APIKey  string
	BaseURL string
}

// ImageRequest asks the vendor to synthesize an image.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// OverlayRequest composites text onto an existing image.
type OverlayRequest struct {
	ImageURL string `json:"image_url"`
	Text     string `json:"text"`
	Position string `json:"position,omitempty"` // "top", "center", "bottom"
}

// SpeechRequest synthesizes narration audio from text.
type SpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// VideoRequest assembles slides and narration into a video.
type VideoRequest struct {
	SlideURLs []string `json:"slide_urls"`
	AudioURL  string   `json:"audio_url,omitempty"`
	FPS       int      `json:"fps,omitempty"`
}

// Asset is the vendor's reference to a produced media file.
type Asset struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Bytes    int64  `json:"bytes,omitempty"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
