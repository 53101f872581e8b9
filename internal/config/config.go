package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port string

	StorageBackend string // "gcs" or "fs"
	BucketName     string
	StorageDir     string // base directory for the fs backend

	OpenAIAPIKey  string
	OpenAIBaseURL string
	WhisperModel  string
	ChatModel     string

	YtDlpBin   string
	FfmpegBin  string
	ScratchDir string

	StaticDir  string
	ReportPath string // empty disables the results workbook
}

// FromEnv loads .env when present and fills the config with defaults.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Port:           envOr("PORT", "5001"),
		StorageBackend: envOr("STORAGE_BACKEND", "gcs"),
		BucketName:     os.Getenv("BUCKET_NAME"),
		StorageDir:     envOr("STORAGE_DIR", "./data"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		WhisperModel:   envOr("WHISPER_MODEL", "whisper-1"),
		ChatModel:      envOr("CHAT_MODEL", "gpt-4-turbo"),
		YtDlpBin:       envOr("YTDLP_BIN", "yt-dlp"),
		FfmpegBin:      envOr("FFMPEG_BIN", "ffmpeg"),
		ScratchDir:     envOr("SCRATCH_DIR", "./downloads"),
		StaticDir:      os.Getenv("STATIC_DIR"),
		ReportPath:     os.Getenv("REPORT_PATH"),
	}
}

// TranscriptionEndpoint is the speech-to-text URL on the configured host.
func (c Config) TranscriptionEndpoint() string {
	return strings.TrimRight(c.OpenAIBaseURL, "/") + "/v1/audio/transcriptions"
}

// CompletionEndpoint is the chat-completions URL on the configured host.
func (c Config) CompletionEndpoint() string {
	return strings.TrimRight(c.OpenAIBaseURL, "/") + "/v1/chat/completions"
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
