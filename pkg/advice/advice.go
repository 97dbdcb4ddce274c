package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
)

const maxResponseSize = 64 << 10

// ErrEmptyAdvice 外部服务返回了空内容
var ErrEmptyAdvice = errors.New("advice 内容为空")

// Provider 为签到成功提供一句鼓励语；实现必须保证总能返回非空字符串
type Provider interface {
	Advice(ctx context.Context) string
}

// Client 调用 adviceslip 风格的外部服务
// 响应格式: {"slip": {"id": 1, "advice": "..."}}
type Client struct {
	url      string
	fallback string
	timeout  time.Duration
	http     *http.Client
	logger   *zap.Logger
}

// NewClient 创建 advice 客户端
func NewClient(cfg *config.AdviceConfig, logger *zap.Logger) *Client {
	return &Client{
		url:      cfg.URL,
		fallback: cfg.Fallback,
		timeout:  cfg.Timeout,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

type slipResponse struct {
	Slip struct {
		ID     int    `json:"id"`
		Advice string `json:"advice"`
	} `json:"slip"`
}

// Fetch 请求一次外部服务
func (c *Client) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("构造 advice 请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("获取 advice 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("获取 advice 失败: HTTP %d", resp.StatusCode)
	}

	var body slipResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return "", fmt.Errorf("解析 advice 失败: %w", err)
	}
	text := strings.TrimSpace(body.Slip.Advice)
	if text == "" {
		return "", ErrEmptyAdvice
	}
	return text, nil
}

// Advice 获取鼓励语，任何失败都回退为固定文案，不向调用方传播
func (c *Client) Advice(ctx context.Context) string {
	text, err := c.Fetch(ctx)
	if err != nil {
		c.logger.Warn("外部 advice 服务不可用，使用默认文案", zap.Error(err))
		return c.fallback
	}
	return text
}

// Static 固定文案的 Provider，用于禁用外部调用或测试
type Static string

// Advice 返回固定文案
func (s Static) Advice(context.Context) string { return string(s) }
