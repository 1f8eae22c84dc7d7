// Package gemini wraps a single translation call against the Gemini
// generateContent API using one credential from the pool.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"translator-go/internal/history"
	"translator-go/internal/httpclient"
	"translator-go/internal/keypool"
	"translator-go/internal/types"
	"translator-go/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// systemInstruction is the translator persona sent with every request. The
// model is told to answer with the translation alone.
const systemInstruction = `You are a professional English <-> Urdu translator.

1. Translate the input text focusing on semantic meaning and cultural nuance.
2. Silently review the translation: does it sound human, does the flow match the context?
3. Correct any awkward or overly literal phrasing internally.

Output ONLY the final, polished translation. No explanations or extra sentences.`

// Request carries one translation attempt. Context is chronological, oldest
// first, already truncated to the history limit by the caller.
type Request struct {
	Text      string
	Direction types.Direction
	Context   []history.Entry
}

// Client performs remote translation calls. It holds no mutable state and
// never touches the pool or the history; classification results are returned
// to the router, which owns all rotation decisions.
type Client struct {
	httpClient  *http.Client
	upstreamURL string
	model       string
}

// NewClient creates a remote translation client.
func NewClient(clients *httpclient.Manager, cfg types.TranslateConfig) *Client {
	httpClient := clients.GetClient(&httpclient.Config{
		ConnectTimeout:        cfg.ConnectTimeout,
		RequestTimeout:        cfg.RequestTimeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
	})

	return &Client{
		httpClient:  httpClient,
		upstreamURL: cfg.UpstreamURL,
		model:       cfg.Model,
	}
}

// generateContent request/response payloads (Gemini v1beta REST shape).

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

// Translate performs one translation attempt with the given credential.
// Failures are returned as *UpstreamError so the router can distinguish
// rate limits, credential rejections, transient faults and garbage responses.
func (c *Client) Translate(ctx context.Context, req Request, cred *keypool.Credential) (string, error) {
	reqURL, err := url.JoinPath(c.upstreamURL, "v1beta", "models", c.model+":generateContent")
	if err != nil {
		return "", fmt.Errorf("failed to build request URL: %w", err)
	}
	reqURL += "?key=" + url.QueryEscape(cred.Value)

	payload, err := json.Marshal(generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: c.buildPrompt(req)}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := classifyStatusError(resp.StatusCode, body)
		logrus.WithFields(logrus.Fields{
			"key":    cred.Preview(),
			"status": resp.StatusCode,
			"kind":   upstreamErr.Kind,
		}).Debug("Remote translation attempt failed")
		return "", upstreamErr
	}

	translated := strings.TrimSpace(gjson.GetBytes(body, "candidates.0.content.parts.0.text").String())
	if translated == "" {
		return "", &UpstreamError{
			Kind:       FailureMalformed,
			StatusCode: resp.StatusCode,
			Message:    "response contained no translation candidate",
		}
	}

	return translated, nil
}

// buildPrompt assembles the single-shot prompt: persona, prior turns in
// chronological order (oldest first), then the normalized input text.
func (c *Client) buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nTranslate this text from ")
	b.WriteString(req.Direction.SourceName())
	b.WriteString(" to ")
	b.WriteString(req.Direction.TargetName())
	b.WriteString(".\n")

	if len(req.Context) > 0 {
		b.WriteString("Background context, oldest first:\n")
		for _, turn := range req.Context {
			b.WriteString(turn.Direction.SourceName())
			b.WriteString(": ")
			b.WriteString(turn.SourceText)
			b.WriteString("\n")
			b.WriteString(turn.Direction.TargetName())
			b.WriteString(": ")
			b.WriteString(turn.TranslatedText)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nInput Text: ")
	b.WriteString(utils.NormalizeText(req.Text))
	b.WriteString("\nFinal Translation:")
	return b.String()
}
