package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"voxlate/audio"
	"voxlate/core"
	"voxlate/factories"
	"voxlate/session"
	wstransport "voxlate/transports/websocket"

	"github.com/joho/godotenv"
)

func main() {
	var (
		speakText string
		source    string
		target    string
		voiceID   string
	)
	flag.StringVar(&speakText, "speak", "", "translate and speak one line to a WAV file, then exit")
	flag.StringVar(&source, "source", "en", "source language code")
	flag.StringVar(&target, "target", "es", "target language code")
	flag.StringVar(&voiceID, "voice", core.DefaultVoice.ID, "synthesis voice")
	flag.Parse()

	logger := core.NewDevelopmentLogger()

	if err := godotenv.Load(".env.local"); err != nil {
		logger.Debug("no .env.local file found", "error", err)
	}
	settings := factories.SettingsFromEnv()

	deps, err := factories.Build(settings, logger)
	if err != nil {
		logger.Fatal("startup failed", "error", err)
	}
	defer deps.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if speakText != "" {
		if err := runOneShot(ctx, deps, settings, speakText, source, target, voiceID); err != nil {
			logger.Error("speak failed", "error", err)
			os.Exit(1)
		}
		return
	}

	server := wstransport.NewServer(settings.Addr, deps.NewController, logger)
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatal("server failed", "error", err)
	}
	logger.Info("shut down")
}

// runOneShot translates and speaks a single line into the output directory,
// waiting for playback to run its course.
func runOneShot(ctx context.Context, deps *factories.Deps, settings factories.Settings, text, source, target, voiceID string) error {
	device, err := audio.NewWAVDevice(settings.OutputDir, deps.Logger)
	if err != nil {
		return err
	}

	ctrl := deps.NewController(device)
	if err := ctrl.SetLanguages(core.LanguagePair{Source: source, Target: target}); err != nil {
		return err
	}
	if err := ctrl.SetVoice(voiceID); err != nil {
		return err
	}

	done := make(chan session.Snapshot, 1)
	var once sync.Once
	ctrl.SetOnChange(func(snap session.Snapshot) {
		if snap.State == session.StateIdle || snap.State == session.StateError {
			once.Do(func() { done <- snap })
		}
	})

	if err := ctrl.Submit(ctx, text); err != nil {
		return err
	}

	select {
	case snap := <-done:
		if snap.State == session.StateIdle {
			deps.Logger.Info("done", "translation", snap.Translation)
		}
	case <-ctx.Done():
	}
	return nil
}
