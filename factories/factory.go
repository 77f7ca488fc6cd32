package factories

import (
	"fmt"
	"os"
	"strconv"

	"voxlate/audio"
	"voxlate/core"
	"voxlate/history"
	"voxlate/services/openai/translate"
	"voxlate/services/openai/tts"
	"voxlate/session"
	"voxlate/storage"
)

// Settings configures the whole process.
type Settings struct {
	Addr           string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	TranslateModel string
	SpeechModel    string
	SpeechSpeed    float64
	DBPath         string
	OutputDir      string
}

// SettingsFromEnv loads settings from environment variables with defaults.
func SettingsFromEnv() Settings {
	return Settings{
		Addr:           getEnv("VOXLATE_ADDR", ":8080"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		TranslateModel: getEnv("VOXLATE_TRANSLATE_MODEL", ""),
		SpeechModel:    getEnv("VOXLATE_SPEECH_MODEL", ""),
		SpeechSpeed:    getEnvAsFloat("VOXLATE_SPEECH_SPEED", 0),
		DBPath:         getEnv("VOXLATE_DB_PATH", "./data/voxlate.db"),
		OutputDir:      getEnv("VOXLATE_OUTPUT_DIR", "./out"),
	}
}

// Deps bundles the long-lived collaborators shared across controllers:
// the AI service clients, the history store and its backing database.
// Constructed once at startup and torn down with Close.
type Deps struct {
	Translator  *translate.Translator
	Synthesizer *tts.Synthesizer
	History     *history.Store
	Logger      *core.Logger

	kv *storage.SQLiteKV
}

// Build wires the service clients and the history store from settings.
func Build(settings Settings, logger *core.Logger) (*Deps, error) {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}

	translator, err := translate.NewTranslator(translate.Config{
		APIKey:  settings.OpenAIAPIKey,
		BaseURL: settings.OpenAIBaseURL,
		Model:   settings.TranslateModel,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}

	synthesizer, err := tts.NewSynthesizer(tts.Config{
		APIKey:  settings.OpenAIAPIKey,
		BaseURL: settings.OpenAIBaseURL,
		Model:   settings.SpeechModel,
		Speed:   settings.SpeechSpeed,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}

	kv, err := storage.OpenSQLite(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store, err := history.NewStore(kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &Deps{
		Translator:  translator,
		Synthesizer: synthesizer,
		History:     store,
		Logger:      logger,
		kv:          kv,
	}, nil
}

// NewController assembles a session controller whose playback goes to the
// given output device. Each controller gets its own player and pipeline;
// the AI clients and the history store are shared.
func (d *Deps) NewController(device audio.OutputDevice) *session.Controller {
	player := audio.NewPlayer(func() (audio.OutputDevice, error) { return device, nil }, d.Logger)
	pipeline := audio.NewPipeline(d.Synthesizer, player, d.Logger)
	return session.NewController(d.Translator, pipeline, d.History, d.Logger)
}

// Close releases the backing database.
func (d *Deps) Close() error {
	return d.kv.Close()
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float with a default fallback.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return defaultValue
	}
	return val
}
