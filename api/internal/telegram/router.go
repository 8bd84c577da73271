package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"digit-ocr/api/internal/ocr"
)

// BotAPI is the part of *tgbotapi.BotAPI the router needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot     BotAPI
	Engines *ocr.Engines
	Options ocr.Options
	Timeout time.Duration

	httpc   *http.Client
	chatEng sync.Map // chatID -> engine name
}

func NewRouter(bot BotAPI, engs *ocr.Engines, opt ocr.Options, timeout time.Duration) *Router {
	return &Router{
		Bot:     bot,
		Engines: engs,
		Options: opt,
		Timeout: timeout,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(upd.Message)
		return
	}
	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(ctx, upd.Message)
		return
	}
	r.send(upd.Message.Chat.ID, "Send a photo of a 4-digit code.")
}

func (r *Router) HandleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.send(cid, "Send a photo of a 4-digit code and I will read it.\nCommands: /health, /engine")
	case "health":
		r.send(cid, "OK")
	case "engine":
		name := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
		if name == "" {
			r.send(cid, "Current engine: "+r.engineFor(cid)+"\nAvailable: "+strings.Join(r.Engines.Names(), " | "))
			return
		}
		if _, err := r.Engines.GetEngine(name); err != nil {
			r.send(cid, err.Error())
			return
		}
		r.chatEng.Store(cid, name)
		r.send(cid, "Engine switched to: "+name)
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) engineFor(chatID int64) string {
	if v, ok := r.chatEng.Load(chatID); ok {
		return v.(string)
	}
	if eng, err := r.Engines.GetEngine(""); err == nil {
		return eng.Name()
	}
	return ""
}

func (r *Router) acceptPhoto(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1] // largest size
	url, err := r.Bot.GetFileDirectURL(ph.FileID)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	img, err := r.download(ctx, url)
	if err != nil {
		r.SendError(cid, err)
		return
	}

	eng, err := r.Engines.GetEngine(r.engineFor(cid))
	if err != nil {
		r.SendError(cid, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	code, err := ocr.RecognizeDigits(ctx, eng, img, r.Options)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	r.send(cid, "Code: "+code)
}

func (r *Router) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("telegram send: %v", err)
	}
}

func (r *Router) SendError(chatID int64, err error) {
	log.Printf("telegram chat=%d: %v", chatID, err)
	var re *ocr.RecognitionError
	if errors.As(err, &re) && re.Kind == ocr.KindInsufficientDigits {
		r.send(chatID, re.Error()+"\nTry a sharper photo.")
		return
	}
	r.send(chatID, "Error: "+err.Error())
}
