package speech

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

const defaultHost = "asr.cloud.tencent.com"

// Credentials holds the cloud recognition key material.
type Credentials struct {
	AppID     string
	SecretID  string
	SecretKey string
}

// Complete reports whether every field is present.
func (c Credentials) Complete() bool {
	return c.AppID != "" && c.SecretID != "" && c.SecretKey != ""
}

// Recognizer implements SpeechRecognizer against the flash recognition
// endpoint: one synchronous HTTP call per audio file, full text back.
type Recognizer struct {
	creds      Credentials
	engineType string
	host       string
	scheme     string
	http       *http.Client
}

// NewRecognizer creates a recognizer. engineType selects the acoustic
// model, e.g. "16k_zh".
func NewRecognizer(creds Credentials, engineType string) *Recognizer {
	if engineType == "" {
		engineType = "16k_zh"
	}
	return &Recognizer{
		creds:      creds,
		engineType: engineType,
		host:       defaultHost,
		scheme:     "https",
		http:       &http.Client{Timeout: 2 * time.Minute},
	}
}

func (r *Recognizer) Configured() bool {
	return r.creds.Complete()
}

// Transcribe uploads the audio file and returns the recognized text.
func (r *Recognizer) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if !r.Configured() {
		return "", fmt.Errorf("speech credentials missing: %w", domain.ErrAuthRequired)
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	params := map[string]string{
		"secretid":            r.creds.SecretID,
		"engine_type":         r.engineType,
		"voice_format":        "mp3",
		"timestamp":           strconv.FormatInt(time.Now().Unix(), 10),
		"speaker_diarization": "0",
		"filter_dirty":        "0",
		"filter_modal":        "0",
		"filter_punc":         "0",
		"convert_num_mode":    "1",
		"word_info":           "0",
	}

	path := "/asr/flash/v1/" + r.creds.AppID
	query := canonicalQuery(params)
	signature := sign(r.creds.SecretKey, "POST"+r.host+path+"?"+query)

	reqURL := fmt.Sprintf("%s://%s%s?%s", r.scheme, r.host, path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", signature)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("recognition: %w", domain.ErrSpeechTimeout)
		}
		return "", fmt.Errorf("recognition: %v: %w", err, domain.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("recognition: read response: %w", domain.ErrNetworkFailure)
	}

	var result struct {
		Code        int    `json:"code"`
		Message     string `json:"message"`
		RequestID   string `json:"request_id"`
		FlashResult []struct {
			Text string `json:"text"`
		} `json:"flash_result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("recognition: malformed response: %w", err)
	}
	if result.Code != 0 {
		return "", recognitionError(result.Code, result.Message)
	}

	var text strings.Builder
	for _, fr := range result.FlashResult {
		text.WriteString(fr.Text)
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", domain.ErrEmptyTranscript
	}
	return out, nil
}

// recognitionError maps service error codes to domain sentinels.
func recognitionError(code int, message string) error {
	var sentinel error
	switch {
	case code == 4001 || code == 4002 || code == 4003:
		sentinel = domain.ErrAuthRequired
	case code == 4005 || strings.Contains(message, "limit"):
		sentinel = domain.ErrQuotaExceeded
	case code == 5002 || strings.Contains(strings.ToLower(message), "timeout"):
		sentinel = domain.ErrSpeechTimeout
	default:
		sentinel = domain.ErrNetworkFailure
	}
	return fmt.Errorf("recognition failed: code %d (%s): %w", code, message, sentinel)
}

// canonicalQuery renders params sorted by key; values are NOT
// percent-escaped in the signing string, per the flash protocol.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

func sign(secretKey, payload string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// setEndpoint redirects the recognizer at a local server in tests.
func (r *Recognizer) setEndpoint(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	r.scheme = u.Scheme
	r.host = u.Host
	return nil
}

var _ ports.SpeechRecognizer = (*Recognizer)(nil)
