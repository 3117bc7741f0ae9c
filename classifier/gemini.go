package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxImageBytes = 10 << 20

var errModelNotFound = errors.New("gemini: model endpoint not found")

var classifyPrompt = "Look at this image and categorize it as ONLY ONE of these civic issue types: " +
	strings.Join(Categories, ", ") + ". Respond with just the category name, nothing else."

type geminiClient struct {
	key     string
	model   string
	baseURL string
	http    *http.Client
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// describe fetches the image and returns the model's lower-cased single-turn reply.
func (g *geminiClient) describe(ctx context.Context, imageURL string) (string, error) {
	img, mimeType, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	var body generateRequest
	body.Contents = []content{{Parts: []part{
		{Text: classifyPrompt},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(img)}},
	}}}
	body.GenerationConfig.Temperature = 0.1
	body.GenerationConfig.MaxOutputTokens = 10

	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %s", strings.ReplaceAll(err.Error(), g.key, "***"))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errModelNotFound
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini status=%d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("gemini: no candidates")
	}
	parts := out.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("gemini: no content")
	}
	return strings.ToLower(strings.TrimSpace(parts[0].Text)), nil
}

func (g *geminiClient) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build image request: %w", err)
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch image: status=%d", resp.StatusCode)
	}

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(img) > maxImageBytes {
		return nil, "", errors.New("image exceeds 10MB")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return img, mimeType, nil
}
