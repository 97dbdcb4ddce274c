package client

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

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 10 << 20
)

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status  int
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s (code %d): %s", e.Status, e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%d %s (code %d)", e.Status, e.Message, e.Code)
}

// IsStatus 判断 err 是否为指定 HTTP 状态码的 APIError
func IsStatus(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == status
}

// envelope 与服务端 pkg/response.Response 对应，data 延迟解码
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

// Client 签到服务的类型化 HTTP 客户端
type Client struct {
	baseURL string
	http    *http.Client
}

// New 创建客户端；httpClient 为 nil 时使用带超时的默认实例
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ── 分组 ──

func (c *Client) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	var out dto.GroupResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/groups", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]dto.GroupResponse, error) {
	var out []dto.GroupResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGroup(ctx context.Context, id uint) (*dto.GroupResponse, error) {
	var out dto.GroupResponse
	if _, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id uint) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil)
	return err
}

// ── 活动 ──

func (c *Client) CreateEvent(ctx context.Context, groupID uint, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	var out dto.EventResponse
	if _, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/events", groupID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEvents(ctx context.Context, groupID uint) ([]dto.EventResponse, error) {
	var out []dto.EventResponse
	if _, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d/events", groupID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id uint) (*dto.EventResponse, error) {
	var out dto.EventResponse
	if _, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetEventStatus(ctx context.Context, id uint, status string) (*dto.EventResponse, error) {
	var out dto.EventResponse
	req := &dto.UpdateEventStatusRequest{Status: status}
	if _, err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/events/%d/status", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id uint) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), nil, nil)
	return err
}

// QRCode 获取访问码二维码 PNG；size<=0 时使用服务端默认值
func (c *Client) QRCode(ctx context.Context, id uint, size int) ([]byte, error) {
	path := fmt.Sprintf("/events/%d/qrcode", id)
	if size > 0 {
		path += "?" + url.Values{"size": {fmt.Sprint(size)}}.Encode()
	}
	return c.doRaw(ctx, path)
}

// ExportAttendance 下载服务端生成的签到名单 xlsx
func (c *Client) ExportAttendance(ctx context.Context, id uint) ([]byte, error) {
	return c.doRaw(ctx, fmt.Sprintf("/events/%d/export", id))
}

// Calendar 下载活动 .ics
func (c *Client) Calendar(ctx context.Context, id uint) ([]byte, error) {
	return c.doRaw(ctx, fmt.Sprintf("/events/%d/calendar", id))
}

// ── 签到 ──

// CheckIn 提交签到，返回服务端提示语与 advice
func (c *Client) CheckIn(ctx context.Context, req *dto.CheckinRequest) (*dto.CheckinResponse, error) {
	var out dto.CheckinResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/checkin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAttendance(ctx context.Context, eventID uint) ([]dto.AttendanceResponse, error) {
	var out []dto.AttendanceResponse
	if _, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d/attendance", eventID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── 内部辅助方法 ──

// doJSON 发送 JSON 请求并将 envelope.data 解码到 out（out 可为 nil）
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("编码请求失败: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 %s %s 失败: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Details: env.Details}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("解析响应数据失败: %w", err)
		}
	}
	return &env, nil
}

// doRaw 下载二进制内容（PNG/xlsx/ics），错误时仍按 envelope 解析
func (c *Client) doRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 GET %s 失败: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			apiErr.Code, apiErr.Message, apiErr.Details = env.Code, env.Message, env.Details
		}
		return nil, apiErr
	}
	return raw, nil
}
