package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/logging"
	"github.com/tidwall/gjson"
)

const (
	analyzePath  = "/analyze"
	feedbackPath = "/feedback"
	reportPath   = "/report"
)

// Client implements Service against the detection service's HTTP endpoints.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	debug   bool
	now     func() time.Time
}

// New constructs a Client configured with the application's server URL and request timeout.
func New(cfg *appconfig.Config) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		baseURL: cfg.BaseURL(),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
		now:     time.Now,
	}
}

// Analyze posts the screenshot and model selections as a multipart form.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	body, contentType, err := encodeAnalyzeForm(req)
	if err != nil {
		return AnalysisResult{}, err
	}
	logging.LogRequest("SCAMLENS->DETECTOR", analyzePath, req.ModelPair(), map[string]any{
		"screenshot":  req.File.Name,
		"media_type":  req.File.MediaType,
		"bytes":       req.File.Size(),
		"text_model":  req.TextModel,
		"cnn_model":   req.CNNModel,
		"text_weight": formatWeight(req.TextWeight),
		"cnn_weight":  formatWeight(req.CNNWeight),
	})

	respBody, err := c.post(ctx, analyzePath, contentType, body)
	if err != nil {
		return AnalysisResult{}, err
	}
	logging.LogRequest("DETECTOR->SCAMLENS", analyzePath, req.ModelPair(), respBody)

	success := gjson.GetBytes(respBody, "success").Bool()
	if err := validateAnalyzeBody(respBody, success); err != nil {
		return AnalysisResult{}, err
	}
	if !success {
		return AnalysisResult{}, &ApplicationError{Endpoint: analyzePath, Message: errorField(respBody, "Analysis failed")}
	}

	var result AnalysisResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode /analyze response: %w", err)
	}
	return result, nil
}

// SendFeedback posts the feedback JSON body.
func (c *Client) SendFeedback(ctx context.Context, req FeedbackRequest) error {
	if !req.FeedbackType.Valid() {
		return fmt.Errorf("invalid feedback type %q", req.FeedbackType)
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = c.now().UTC()
	}
	return c.postJSON(ctx, feedbackPath, req)
}

// SendReport posts the report JSON body.
func (c *Client) SendReport(ctx context.Context, req ReportRequest) error {
	if req.Timestamp.IsZero() {
		req.Timestamp = c.now().UTC()
	}
	return c.postJSON(ctx, reportPath, req)
}

// Close releases idle keep-alive connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	logging.LogRequest("SCAMLENS->DETECTOR", path, "", body)

	respBody, err := c.post(ctx, path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	logging.LogRequest("DETECTOR->SCAMLENS", path, "", respBody)

	if ok := gjson.GetBytes(respBody, "success"); ok.Exists() && !ok.Bool() {
		return &ApplicationError{Endpoint: path, Message: errorField(respBody, "Request rejected")}
	}
	return nil
}

// post issues one request and returns the body of a 2xx answer. Any other
// status becomes a *TransportError.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.LogRequest("DETECTOR->SCAMLENS", path, "", respBody)
		return nil, &TransportError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorField(respBody, ""),
		}
	}
	return respBody, nil
}

func encodeAnalyzeForm(req AnalysisRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="screenshot"; filename="%s"`, escapeQuotes(req.File.Name)))
	mediaType := req.File.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.File.Data); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"text_model", req.TextModel},
		{"cnn_model", req.CNNModel},
		{"text_weight", formatWeight(req.TextWeight)},
		{"cnn_weight", formatWeight(req.CNNWeight)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func errorField(body []byte, fallback string) string {
	if msg := strings.TrimSpace(gjson.GetBytes(body, "error").String()); msg != "" {
		return msg
	}
	return fallback
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
