// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// 出站调用失败的分类，调用方用 errors.Is 判断。
var (
	ErrTransport   = errors.New("transport failure")
	ErrStatus      = errors.New("unexpected status code")
	ErrContentType = errors.New("unexpected content type")
	ErrDecode      = errors.New("response decode failure")
)

// Client 是一个可追踪的、可注入的HTTP客户端
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	timeout    time.Duration
}

type Option func(*options)

type options struct {
	maxIdleConns        int
	maxIdleConnsPerHost int
	timeout             time.Duration
}

// WithPool 显式指定连接池大小。
func WithPool(maxIdle, maxIdlePerHost int) Option {
	return func(o *options) {
		o.maxIdleConns = maxIdle
		o.maxIdleConnsPerHost = maxIdlePerHost
	}
}

// WithTimeout 为每次调用设置超时，0 表示不设超时：调用挂起时会一直阻塞调用方。
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewClient 创建一个新的客户端实例
func NewClient(tracer trace.Tracer, opts ...Option) *Client {
	o := options{maxIdleConns: 100, maxIdleConnsPerHost: 100}
	for _, opt := range opts {
		opt(&o)
	}
	// 不设置 http.Client.Timeout，让其完全受控于每次请求传入的 context
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        o.maxIdleConns,
			MaxIdleConnsPerHost: o.maxIdleConnsPerHost,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
		timeout:    o.timeout,
	}
}

// Response 是一次调用的完整结果，状态码由调用方判断。
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType 返回去掉参数后的媒体类型。
func (r *Response) ContentType() string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// Expect 在状态码不在 codes 中时返回 ErrStatus。
func (r *Response) Expect(codes ...int) error {
	for _, c := range codes {
		if r.StatusCode == c {
			return nil
		}
	}
	return errors.Wrapf(ErrStatus, "status %d, body %q", r.StatusCode, truncate(r.Body))
}

// Decode 校验 Content-Type 为 JSON 且响应体非空，然后解码到 v。
func (r *Response) Decode(v any) error {
	if r.ContentType() != "application/json" {
		return errors.Wrapf(ErrContentType, "got %q, body %q", r.Header.Get("Content-Type"), truncate(r.Body))
	}
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return errors.Wrap(ErrDecode, "empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrapf(ErrDecode, "%v, body %q", err, truncate(r.Body))
	}
	return nil
}

// Call 发送一次 JSON 请求。只有传输层失败才返回 error，非 2xx 状态码由调用方处理。
func (c *Client) Call(ctx context.Context, method, serviceURL string, payload any) (*Response, error) {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "invalid url %q: %v", serviceURL, err)
	}
	// 从 URL 中解析出服务名用于 Span
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "marshal request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, parsedURL.String(), body)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrapf(ErrTransport, "build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	span.SetAttributes(
		attribute.String("http.url", parsedURL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrapf(ErrTransport, "%s %s: %v", method, parsedURL.String(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrapf(ErrTransport, "read body: %v", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func truncate(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
