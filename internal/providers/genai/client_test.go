package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

type capturedRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				MIMEType string `json:"mimeType"`
				Data     string `json:"data"`
			} `json:"inlineData"`
		} `json:"parts"`
	} `json:"contents"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestGenerateImageSendsPartsInOrderAndReturnsFirstImage(t *testing.T) {
	out := tinyPNG(t)
	var got capturedRequest
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{
						map[string]any{"text": "here you go"},
						map[string]any{"inlineData": map[string]any{"mimeType": "image/png", "data": base64.StdEncoding.EncodeToString(out)}},
						map[string]any{"inlineData": map[string]any{"mimeType": "image/png", "data": base64.StdEncoding.EncodeToString([]byte("second"))}},
					},
				},
			}},
		})
	})

	asset, err := c.GenerateImage(context.Background(), ImageRequest{
		Parts: []Part{
			InlinePart("image/jpeg", []byte("source")),
			TextPart("TASK: restyle"),
			InlinePart("image/png", []byte("logo")),
		},
		RequestID: "img-1",
	})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !bytes.Equal(asset.Data, out) {
		t.Fatalf("asset data mismatch")
	}
	if asset.Format != "image/png" || asset.Width != 3 || asset.Height != 2 {
		t.Fatalf("asset = %s %dx%d", asset.Format, asset.Width, asset.Height)
	}
	if !strings.Contains(path, DefaultModel) || !strings.HasSuffix(path, ":generateContent") {
		t.Fatalf("path = %q", path)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 3 {
		t.Fatalf("contents = %+v", got.Contents)
	}
	parts := got.Contents[0].Parts
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Fatalf("first part = %+v, want jpeg source", parts[0])
	}
	if parts[1].Text != "TASK: restyle" {
		t.Fatalf("second part text = %q", parts[1].Text)
	}
	if parts[2].InlineData == nil || parts[2].InlineData.MIMEType != "image/png" {
		t.Fatalf("third part = %+v, want png logo", parts[2])
	}
}

func TestGenerateImageWithoutInlineImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"I cannot do that"}]}}]}`)
	})
	_, err := c.GenerateImage(context.Background(), ImageRequest{Parts: []Part{TextPart("x")}})
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
}

func TestGenerateImagePassesRemoteErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	})
	_, err := c.GenerateImage(context.Background(), ImageRequest{Parts: []Part{TextPart("x")}})
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("err = %v", err)
	}
}
