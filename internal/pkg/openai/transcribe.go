package openai

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// Audio is an uploaded recording waiting for transcription.
type Audio struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Extension picks the temp file extension, which the API uses to detect the format.
func (a Audio) Extension() string {
	if ext := filepath.Ext(a.Filename); ext != "" {
		return strings.ToLower(ext)
	}
	if mt, _, err := mime.ParseMediaType(a.ContentType); err == nil {
		switch mt {
		case "audio/mpeg", "audio/mp3":
			return ".mp3"
		case "audio/wav", "audio/x-wav", "audio/wave":
			return ".wav"
		case "audio/mp4", "audio/x-m4a", "audio/m4a":
			return ".m4a"
		case "audio/ogg":
			return ".ogg"
		case "audio/webm":
			return ".webm"
		case "audio/flac", "audio/x-flac":
			return ".flac"
		}
	}
	return ".mp3"
}

// Transcriber turns recordings into text with whisper.
type Transcriber struct {
	client *openai.Client
	model  openai.AudioModel
	tmpDir string
	logger *zap.Logger
}

func NewTranscriber(client *openai.Client, logger *zap.Logger) *Transcriber {
	return &Transcriber{client: client, model: openai.AudioModelWhisper1, logger: logger}
}

// WithTempDir sets where scoped audio files are written. Empty means os.TempDir.
func (t *Transcriber) WithTempDir(dir string) *Transcriber {
	t.tmpDir = dir
	return t
}

// Transcribe writes the audio to a temp file for the duration of the call.
// The file is removed on every return path.
func (t *Transcriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	f, err := os.CreateTemp(t.tmpDir, uuid.NewString()+"-*"+audio.Extension())
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %v", ErrTranscription, err)
	}
	defer func() {
		_ = f.Close()
		if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("failed to remove temp audio", zap.String("path", f.Name()), zap.Error(err))
		}
	}()

	if _, err := f.Write(audio.Data); err != nil {
		return "", fmt.Errorf("%w: failed to write temp file: %v", ErrTranscription, err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", fmt.Errorf("%w: failed to rewind temp file: %v", ErrTranscription, err)
	}

	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: t.model,
		File:  openai.File(f, filepath.Base(f.Name()), contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	return resp.Text, nil
}
