package openai

import (
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lunavoice/luna/internal/domain"
)

func TestParseAPIError_RequestErrorWithDetail(t *testing.T) {
	err := parseAPIError(&openai.RequestError{
		HTTPStatusCode: 429,
		Body:           []byte(`{"detail":"rate limit exceeded"}`),
	})

	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error sentinel, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("expected detail in message, got %q", err.Error())
	}
}

func TestParseAPIError_APIError(t *testing.T) {
	err := parseAPIError(&openai.APIError{
		HTTPStatusCode: 500,
		Message:        "internal",
	})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error sentinel, got %v", err)
	}
}

func TestParseAPIError_Unknown(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: refused"))
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error sentinel, got %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"boom"}`)); got != "boom" {
		t.Errorf("expected boom, got %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("expected empty detail, got %q", got)
	}
}
