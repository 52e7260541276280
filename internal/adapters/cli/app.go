package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/devbush/vid2brief/internal/adapters/bilibili"
	"github.com/devbush/vid2brief/internal/adapters/ledger"
	"github.com/devbush/vid2brief/internal/adapters/llm"
	"github.com/devbush/vid2brief/internal/adapters/mail"
	"github.com/devbush/vid2brief/internal/adapters/report"
	"github.com/devbush/vid2brief/internal/adapters/speech"
	"github.com/devbush/vid2brief/internal/adapters/ytdlp"
	"github.com/devbush/vid2brief/internal/application"
	"github.com/devbush/vid2brief/internal/config"
	"github.com/devbush/vid2brief/internal/ports"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Feed       *bilibili.Feed
	Downloader *ytdlp.Downloader
	Extractor  *ytdlp.Extractor
	Recognizer *speech.Recognizer
	Ledger     ports.Ledger
	Writer     *report.Writer
	Notifier   *mail.Sender

	Scanner   *application.FeedScanner
	Processor *application.Processor
}

// NewApp creates and wires up all dependencies
func NewApp(quiet bool) (*App, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	feed, err := bilibili.NewFeed(config.FeedCookie())
	if err != nil {
		return nil, err
	}

	downloader := ytdlp.NewDownloader(config.FeedCookie())
	extractor := ytdlp.NewExtractor()

	appID, secretID, secretKey := config.SpeechCredentials()
	recognizer := speech.NewRecognizer(speech.Credentials{
		AppID:     appID,
		SecretID:  secretID,
		SecretKey: secretKey,
	}, cfg.Speech.EngineType)

	synth := llm.NewSynthesizer(llm.NewClient(cfg.LLM.BaseURL, config.LLMAPIKey(), cfg.LLM.Model))

	store := ledger.Open(config.LedgerPath(), logger)
	writer := report.NewWriter(afero.NewOsFs(), cfg.ReportsDir())

	notifier := mail.NewSender(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.From,
		splitRecipients(cfg.Mail.To),
		config.SMTPPassword(),
	)

	pipeline := application.NewTranscriptionPipeline(downloader, extractor, recognizer, os.TempDir(), logger)
	resolver := application.NewResolver(feed, pipeline, logger)
	processor := application.NewProcessor(store, resolver, synth, writer, logger)
	scanner := application.NewFeedScanner(feed, cfg.Feed.UID, cfg.Feed.PageSize, cfg.Feed.Keywords, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Feed:       feed,
		Downloader: downloader,
		Extractor:  extractor,
		Recognizer: recognizer,
		Ledger:     store,
		Writer:     writer,
		Notifier:   notifier,
		Scanner:    scanner,
		Processor:  processor,
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	return a.Ledger.Close()
}

func splitRecipients(to string) []string {
	var out []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
