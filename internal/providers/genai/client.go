package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pixstudio/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini generateContent endpoint for
// image-to-image editing. It sends the source image plus a natural-language
// instruction and decodes the single returned image, mapping upstream refusal
// shapes onto typed errors.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// Point is a pixel coordinate in the source image's natural resolution.
type Point struct {
	X int
	Y int
}

// EditRequest describes one image edit.
type EditRequest struct {
	Data        []byte
	MIME        string
	Instruction string
	// AspectRatio, when set, is passed as an output shape hint. Values
	// outside the service enum are remapped to the nearest supported one.
	AspectRatio string
	// RequestID is carried into logs only.
	RequestID string
}

// EditResult is the returned image.
type EditResult struct {
	Data []byte
	MIME string
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiGenerationConfig struct {
	ImageConfig *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason        string `json:"blockReason,omitempty"`
	BlockReasonMessage string `json:"blockReasonMessage,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with sensible timeouts will be created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("genai: api key is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// EditImage sends the source image and instruction upstream and returns the
// edited image. Failures are typed: *PolicyBlockError when the prompt was
// rejected before generation, *StopError when generation halted early, and
// *NoImageError when the response carried only text.
func (c *Client) EditImage(ctx context.Context, req EditRequest) (EditResult, error) {
	if len(req.Data) == 0 {
		return EditResult{}, fmt.Errorf("genai: source image is required")
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return EditResult{}, fmt.Errorf("genai: instruction is required")
	}

	mime := req.MIME
	if mime == "" {
		mime = "image/png"
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: mime,
					Data:     base64.StdEncoding.EncodeToString(req.Data),
				}},
				{Text: req.Instruction},
			},
		}},
	}
	if aspect := strings.TrimSpace(req.AspectRatio); aspect != "" {
		payload.GenerationConfig = &geminiGenerationConfig{
			ImageConfig: &geminiImageConfig{AspectRatio: NormalizeAspectRatio(aspect)},
		}
	}

	var response geminiGenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model))
	if err := c.invokeGemini(ctx, path, payload, &response); err != nil {
		return EditResult{}, err
	}

	result, err := decodeEditResponse(&response)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("request_id", req.RequestID).
			Str("model", c.model).
			Msg("genai: edit did not yield an image")
		return EditResult{}, err
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Str("mime", result.MIME).
		Int("bytes", len(result.Data)).
		Msg("genai: edit completed")

	return result, nil
}

// decodeEditResponse classifies the response per the upstream refusal shapes
// before looking for inline image data.
func decodeEditResponse(response *geminiGenerateContentResponse) (EditResult, error) {
	if fb := response.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return EditResult{}, &PolicyBlockError{Reason: fb.BlockReason, Message: fb.BlockReasonMessage}
	}
	if len(response.Candidates) == 0 {
		return EditResult{}, &NoImageError{}
	}

	candidate := response.Candidates[0]
	var textParts []string
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return EditResult{}, fmt.Errorf("genai: decode inline data: %w", err)
			}
			mime := part.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return EditResult{Data: data, MIME: mime}, nil
		}
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
	}

	if reason := candidate.FinishReason; reason != "" && reason != "STOP" {
		return EditResult{}, &StopError{Reason: reason}
	}
	return EditResult{}, &NoImageError{Text: strings.TrimSpace(strings.Join(textParts, " "))}
}

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	endpoint := c.baseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

// supportedAspectRatios is the service's native output-shape enum.
var supportedAspectRatios = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}

// NormalizeAspectRatio maps a requested ratio onto the service enum. The one
// documented exact remap is 4:5 -> 3:4; anything else unsupported falls to
// the nearest enum value by ratio, and unparseable input passes through for
// the service to reject.
func NormalizeAspectRatio(aspect string) string {
	aspect = strings.TrimSpace(aspect)
	for _, s := range supportedAspectRatios {
		if aspect == s {
			return s
		}
	}
	if aspect == "4:5" {
		return "3:4"
	}
	value, ok := parseRatio(aspect)
	if !ok {
		return aspect
	}
	best := supportedAspectRatios[0]
	bestDelta := -1.0
	for _, s := range supportedAspectRatios {
		sv, _ := parseRatio(s)
		delta := value - sv
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			best = s
			bestDelta = delta
		}
	}
	return best
}

func parseRatio(aspect string) (float64, bool) {
	parts := strings.Split(aspect, ":")
	if len(parts) != 2 {
		return 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a <= 0 || b <= 0 {
		return 0, false
	}
	return float64(a) / float64(b), true
}
