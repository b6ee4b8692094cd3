package adapter

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
)

type httpAPIClient struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewHTTPAPIClient constructs the REST implementation of [APIClient].
// address is the API root including its prefix, for example
// http://localhost:8000/api/v1. A missing scheme defaults to http.
func NewHTTPAPIClient(address string, timeout time.Duration, logger *logger.Logger) (APIClient, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}

	return &httpAPIClient{
		client: utils.NewHTTPClient(baseURL, timeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidURL
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpAPIClient) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

func (h *httpAPIClient) Token() string {
	return h.token
}

func (h *httpAPIClient) Register(ctx context.Context, req models.RegisterRequest) (models.UserPublic, error) {
	var user models.UserPublic

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&user).
		Post("/auth/register")
	if err != nil {
		return models.UserPublic{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp.StatusCode(), resp.Body()); err != nil {
		return models.UserPublic{}, err
	}

	return user, nil
}

// Login stores the returned access token on success.
func (h *httpAPIClient) Login(ctx context.Context, req models.LoginRequest) (models.Token, error) {
	var token models.Token

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&token).
		Post("/auth/login")
	if err != nil {
		return models.Token{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp.StatusCode(), resp.Body()); err != nil {
		return models.Token{}, err
	}

	h.SetToken(token.AccessToken)
	h.logger.Debug().Int64("expires_in", token.ExpiresIn).Msg("logged in")
	return token, nil
}

func (h *httpAPIClient) Me(ctx context.Context) (models.UserPublic, error) {
	var user models.UserPublic

	resp, err := h.authedRequest(ctx).
		SetResult(&user).
		Get("/auth/me")
	if err != nil {
		return models.UserPublic{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp.StatusCode(), resp.Body()); err != nil {
		return models.UserPublic{}, err
	}

	return user, nil
}

func (h *httpAPIClient) ListAgents(ctx context.Context, page models.Page) ([]models.Agent, error) {
	var agents []models.Agent

	req := h.authedRequest(ctx).SetResult(&agents)
	req.SetQueryParam("skip", strconv.FormatUint(page.Skip, 10))
	if page.Limit > 0 {
		req.SetQueryParam("limit", strconv.FormatUint(page.Limit, 10))
	}

	resp, err := req.Get("/agents/")
	if err != nil {
		return nil, fmt.Errorf("list agents request: %w", err)
	}
	if err = mapHTTPError(resp.StatusCode(), resp.Body()); err != nil {
		return nil, err
	}

	return agents, nil
}

func (h *httpAPIClient) CreateAgent(ctx context.Context, in models.AgentCreate) (models.Agent, error) {
	var agent models.Agent

	resp, err := h.authedRequest(ctx).
		SetBody(in).
		SetResult(&agent).
		Post("/agents/")
	if err != nil {
		return models.Agent{}, fmt.Errorf("create agent request: %w", err)
	}
	if err = mapHTTPError(resp.StatusCode(), resp.Body()); err != nil {
		return models.Agent{}, err
	}

	return agent, nil
}

func (h *httpAPIClient) UploadFile(ctx context.Context, filename string, content io.Reader, agentID, fileType string) (models.File, error) {
	var file models.File

	form := map[string]string{}
	if agentID != "" {
		form["agent_id"] = agentID
	}
	if fileType != "" {
		form["file_type"] = fileType
	}

	resp, err := h.authedRequest(ctx).
		SetFileReader("file", filename, content).
		SetFormData(form).
		SetResult(&file).
		Post("/files/")
	if err != nil {
		return models.File{}, fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp.StatusCode(), resp.Body()); err != nil {
		return models.File{}, err
	}

	return file, nil
}

// DownloadFile streams the body into w without buffering it in resty.
func (h *httpAPIClient) DownloadFile(ctx context.Context, id string, w io.Writer) (string, error) {
	resp, err := h.authedRequest(ctx).
		SetDoNotParseResponse(true).
		SetPathParam("id", id).
		Get("/files/{id}/download")
	if err != nil {
		return "", fmt.Errorf("download request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		payload, _ := io.ReadAll(body)
		return "", mapHTTPError(resp.StatusCode(), payload)
	}

	if _, err = io.Copy(w, body); err != nil {
		return "", fmt.Errorf("read download body: %w", err)
	}

	return filenameOf(resp.Header().Get("Content-Disposition"), id), nil
}

func filenameOf(disposition, fallback string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fallback
}

func (h *httpAPIClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
