package bench

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"llmbench/pkg/types"
)

// DefaultURL is the generation endpoint of a local Ollama server.
const DefaultURL = "http://localhost:11434/api/generate"

// maxErrorBody caps how much of a non-200 body is kept for diagnostics.
const maxErrorBody = 4096

// ClientConfig tunes the benchmark client.
type ClientConfig struct {
	URL            string
	ConnectTimeout time.Duration
	// RequestTimeout bounds the whole streamed request; zero means no limit.
	RequestTimeout time.Duration
	// RepairLines runs malformed stream lines through jsonrepair before skipping them.
	RepairLines bool
	Logger      zerolog.Logger
}

// Client issues streaming generation requests and folds the response.
type Client struct {
	url        string
	reqTimeout time.Duration
	repair     bool
	rc         *resty.Client
	log        zerolog.Logger
}

// NewClient constructs a client. Timeouts are applied per request via context.
func NewClient(cfg ClientConfig) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	rc := resty.New().
		SetTransport(tr).
		SetTimeout(0).
		SetLogger(restyLogger{l: cfg.Logger}).
		SetHeader("Accept", "application/x-ndjson")
	return &Client{
		url:        cfg.URL,
		reqTimeout: cfg.RequestTimeout,
		repair:     cfg.RepairLines,
		rc:         rc,
		log:        cfg.Logger,
	}
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string { return c.url }

// Run posts req with stream=true and folds the NDJSON response. onToken is
// invoked for every partial record; a non-nil return aborts the stream.
func (c *Client) Run(ctx context.Context, req types.GenerateRequest, onToken func(string) error) (Result, error) {
	if c.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.reqTimeout)
		defer cancel()
	}
	req.Stream = true

	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetDoNotParseResponse(true).
		Post(c.url)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if isDialFailure(err) {
			return Result{}, &ConnectionError{URL: c.url, Err: err}
		}
		return Result{}, err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		return Result{}, &StatusError{Code: resp.StatusCode(), Body: strings.TrimSpace(string(b))}
	}

	acc := NewAccumulator(time.Now())
	r := bufio.NewReader(body)
	for {
		line, rerr := r.ReadBytes('\n')
		if len(line) > 0 {
			chunk, ok := ParseLine(line, c.repair)
			switch {
			case !ok:
				if len(strings.TrimSpace(string(line))) > 0 {
					acc.Skip()
					c.log.Debug().Str("line", string(line)).Msg("skipping malformed stream line")
				}
			case chunk.Error != "":
				return acc.Result(), &ServerError{Msg: chunk.Error}
			default:
				if tok, emit := acc.Add(chunk); emit && onToken != nil {
					if cbErr := onToken(tok); cbErr != nil {
						return acc.Result(), cbErr
					}
				}
				if chunk.Done {
					return acc.Result(), nil
				}
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				return acc.Result(), ctx.Err()
			}
			c.log.Error().Err(rerr).Msg("stream read error")
			return acc.Result(), rerr
		}
	}
	return acc.Result(), ErrIncompleteStream
}

// restyLogger routes resty's internal warnings into zerolog.
type restyLogger struct{ l zerolog.Logger }

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug().Msgf(format, v...) }
