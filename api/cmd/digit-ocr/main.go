package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"digit-ocr/api/internal/config"
	"digit-ocr/api/internal/handle"
	"digit-ocr/api/internal/httpserver"
	"digit-ocr/api/internal/middleware"
	"digit-ocr/api/internal/ocr"
	"digit-ocr/api/internal/ocr/gemini"
	"digit-ocr/api/internal/ocr/openai"
	"digit-ocr/api/internal/ocr/tesseract"
	"digit-ocr/api/internal/ocr/yandex"
	"digit-ocr/api/internal/telegram"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engines := ocr.NewEngines()
	engines.Register(tesseract.New())
	if cfg.GeminiAPIKey != "" {
		engines.Register(gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel))
	}
	if cfg.OpenAIAPIKey != "" {
		engines.Register(openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	}
	if cfg.YCOAuthToken != "" && cfg.YCFolderID != "" {
		engines.Register(yandex.New(cfg.YCOAuthToken, cfg.YCFolderID))
	}
	if err := engines.SetDefault(cfg.Engine); err != nil {
		log.Fatalf("OCR_ENGINE: %v", err)
	}
	log.Printf("ocr engines: %v (default %s)", engines.Names(), cfg.Engine)

	opt := ocr.Options{Language: cfg.Language, Whitelist: cfg.Whitelist}

	if cfg.TelegramBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		r := telegram.NewRouter(bot, engines, opt, cfg.OCRTimeout)
		log.Printf("telegram bot @%s polling", bot.Self.UserName)
		go telegram.RunPolling(ctx, bot, r.HandleUpdate)
	}

	h := handle.New(engines, opt, cfg.OCRTimeout)
	cors := middleware.CORSConfig{
		AllowOrigin:  cfg.CORSAllowOrigin,
		AllowMethods: cfg.CORSAllowMethods,
		AllowHeaders: cfg.CORSAllowHeaders,
		MaxAge:       cfg.CORSMaxAge,
	}

	addr := ":" + cfg.Port
	if err := httpserver.StartHTTP(ctx, addr, httpserver.NewRouter(h, cors)); err != nil {
		log.Fatal(err)
	}
}
