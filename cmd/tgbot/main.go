package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"Equil/internal/calc/weakacid"
	"Equil/internal/config"
	"Equil/internal/logging"
	"Equil/internal/shell"
)

type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

const usage = "Send two numbers: initial concentration c0 (mol/L) and Ka.\nExample: 0.1 1.8e-5"

type Bot struct {
	Token   string
	BaseURL string
	Client  *http.Client
	Log     *slog.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.Setup(os.Stderr, cfg.LogLevel)
	if cfg.BotToken == "" {
		log.Error("TOKEN_BOT missing")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot := &Bot{
		Token:   cfg.BotToken,
		BaseURL: "https://api.telegram.org",
		Client:  &http.Client{Timeout: 30 * time.Second},
		Log:     log,
	}
	log.Info("bot polling started")
	bot.Poll(ctx)
	log.Info("bot stopped")
}

// Poll answers incoming messages until ctx is canceled.
func (b *Bot) Poll(ctx context.Context) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.Log.Warn("getUpdates failed", "err", err)
			sleep(ctx, 2*time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			if err := b.sendMessage(ctx, u.Message.Chat.ID, Reply(u.Message.Text)); err != nil {
				b.Log.Warn("sendMessage failed", "chat", u.Message.Chat.ID, "err", err)
			}
		}
	}
}

// Reply computes the answer text for one chat message.
func Reply(text string) string {
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(fields) == 0 || strings.HasPrefix(fields[0], "/") {
		return usage
	}
	if len(fields) != 2 {
		return "Expected exactly two numbers.\n" + usage
	}

	in, err := shell.ParseInput(fields[0], fields[1])
	if err != nil {
		return shell.Message(err)
	}
	res, err := weakacid.Calculate(in)
	if err != nil {
		return "Calculation failed: " + shell.Message(err)
	}
	return shell.FormatResult(res)
}

func (b *Bot) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	q := url.Values{}
	q.Set("timeout", "20")
	q.Set("offset", fmt.Sprint(offset))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.method("getUpdates")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("getUpdates: telegram returned ok=false (status %d)", res.StatusCode)
	}
	return out.Result, nil
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]any{"chat_id": chatID, "text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.method("sendMessage"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage: status %d", res.StatusCode)
	}
	return nil
}

func (b *Bot) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", b.BaseURL, b.Token, name)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
