package openai

import (
	"appointment-ivr/internal/observability"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/"
	defaultVoice   = "alloy"
	ttsModel       = "tts-1"
)

var (
	ErrMissingAPIKey = errors.New("OpenAI API key is required")
	ErrEmptyAudio    = errors.New("audio is empty")
	ErrEmptyText     = errors.New("text is empty")
)

// SpeechClient wraps the hosted speech endpoints: Whisper transcription,
// text-to-speech and realtime transcription.
type SpeechClient struct {
	apiKey     string
	baseURL    string
	realtime   string
	httpClient *http.Client
	logger     *observability.Logger
}

type Option func(*SpeechClient)

// WithBaseURL points REST calls at another host. The URL must end in a slash.
func WithBaseURL(url string) Option {
	return func(c *SpeechClient) {
		c.baseURL = url
	}
}

// WithRealtimeURL overrides the realtime transcription websocket endpoint.
func WithRealtimeURL(url string) Option {
	return func(c *SpeechClient) {
		c.realtime = url
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *SpeechClient) {
		c.httpClient = client
	}
}

func NewSpeechClient(apiKey string, logger *observability.Logger, opts ...Option) (*SpeechClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &SpeechClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		realtime:   realtimeURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Transcribe sends audio to Whisper and returns the transcript.
func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if filename == "" {
		filename = "audio.wav"
	}
	if contentType == "" {
		contentType = "audio/wav"
	}

	client := openai.NewClient(
		openaiOption.WithAPIKey(c.apiKey),
		openaiOption.WithBaseURL(c.baseURL),
		openaiOption.WithHTTPClient(c.httpClient),
	)

	file := openai.File(bytes.NewReader(audio), filename, contentType)
	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  file,
	}
	resp, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		c.logger.Error(ctx, "whisper transcription failed", err)
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Synthesize renders text to MP3 with the TTS endpoint.
func (c *SpeechClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if voice == "" {
		voice = defaultVoice
	}

	bodyBytes, err := json.Marshal(map[string]interface{}{
		"model":           ttsModel,
		"voice":           voice,
		"input":           text,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"audio/speech", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "TTS request failed", err)
		return nil, fmt.Errorf("OpenAI TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("OpenAI TTS error: status %d: %s", resp.StatusCode, string(respBody))
		c.logger.Error(ctx, "TTS request rejected", err)
		return nil, err
	}

	return io.ReadAll(resp.Body)
}
