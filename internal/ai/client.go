// Package ai 封装外部文本/视觉服务的瘦 HTTP 客户端。
// 该服务是核心之外的协作方：调用方读取文档内容、在此发起请求、
// 成功后再经由变更 API 写回，失败时目标字段保持原值。
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// 被观察的系统没有任何超时策略，这里补一个固定上限作为防御。
const defaultTimeout = 60 * time.Second

// ErrServiceUnavailable 标记外部服务侧的失败（网络、超时、非 2xx、畸形响应）。
var ErrServiceUnavailable = errors.New("ai service unavailable")

// Client 按固定的四个端点访问外部服务。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 构造客户端，baseURL 形如 http://ai-svc:8089。
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// PhotoAnalysis 是照片质量评估结果，status 取值为小的封闭集合（Green/Yellow/Red）。
type PhotoAnalysis struct {
	Score    int    `json:"score"`
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

// ATSReport 是简历与职位描述的匹配评估。
type ATSReport struct {
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	MissingKeywords []string `json:"missingKeywords"`
}

// Optimize 优化一段内容，返回改写后的文本。
func (c *Client) Optimize(ctx context.Context, section, content, jobDescription string) (string, error) {
	req := map[string]string{
		"section":        section,
		"content":        content,
		"jobDescription": jobDescription,
	}
	var resp struct {
		OptimizedContent string `json:"optimizedContent"`
	}
	if err := c.post(ctx, "/optimize", req, &resp); err != nil {
		return "", err
	}
	return resp.OptimizedContent, nil
}

// GenerateDescription 为职位生成要点描述。
func (c *Client) GenerateDescription(ctx context.Context, jobTitle, company string) (string, error) {
	req := map[string]string{
		"jobTitle": jobTitle,
		"company":  company,
	}
	var resp struct {
		GeneratedContent string `json:"generatedContent"`
	}
	if err := c.post(ctx, "/generate-description", req, &resp); err != nil {
		return "", err
	}
	return resp.GeneratedContent, nil
}

// AnalyzePhoto 评估 base64 编码的照片。
func (c *Client) AnalyzePhoto(ctx context.Context, imageBase64 string) (PhotoAnalysis, error) {
	req := map[string]string{"imageBase64": imageBase64}
	var resp PhotoAnalysis
	if err := c.post(ctx, "/analyze-photo", req, &resp); err != nil {
		return PhotoAnalysis{}, err
	}
	return resp, nil
}

// ATSScore 对简历全文与职位描述做匹配评分。
func (c *Client) ATSScore(ctx context.Context, resumeText, jobDescription string) (ATSReport, error) {
	req := map[string]string{
		"resumeText":     resumeText,
		"jobDescription": jobDescription,
	}
	var resp ATSReport
	if err := c.post(ctx, "/ats-score", req, &resp); err != nil {
		return ATSReport{}, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody any, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrServiceUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrServiceUnavailable, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrServiceUnavailable, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrServiceUnavailable, path, err)
	}
	return nil
}
