package backend

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/jesspatton/lazyfs/filesystem"
	"go.uber.org/zap"
)

// Remote endpoints, relative to the base URL.
const (
	treeEndpoint        = "/filesystem"
	directoriesEndpoint = "/filesystem/directories"
	filesEndpoint       = "/filesystem/files"
)

// RemoteConfig configures the HTTP backend.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
	Retries int
	Token   string
}

// Remote talks to a file server over HTTP.
type Remote struct {
	client *resty.Client
	log    *zap.Logger
}

// NewRemote creates an HTTP backend.
func NewRemote(cfg RemoteConfig, log *zap.Logger) *Remote {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryResetReaders(true).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "lazyfs")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Remote{client: client, log: log}
}

// Tree fetches and validates the remote tree.
func (r *Remote) Tree(ctx context.Context) ([]*filesystem.Node, error) {
	var nodes []*filesystem.Node
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&nodes).
		Get(treeEndpoint)
	if err := responseError("fetch tree", resp, err); err != nil {
		return nil, err
	}
	if err := filesystem.Validate(nodes); err != nil {
		return nil, fmt.Errorf("fetch tree: %w", err)
	}
	return nodes, nil
}

// Delete removes a remote entry.
func (r *Remote) Delete(ctx context.Context, path string) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		Delete(treeEndpoint)
	return responseError("delete "+path, resp, err)
}

// CreateDirectory creates a remote directory.
func (r *Remote) CreateDirectory(ctx context.Context, path string) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"path": path}).
		Post(directoriesEndpoint)
	return responseError("create directory "+path, resp, err)
}

// Upload sends a local file as multipart form data.
func (r *Remote) Upload(ctx context.Context, dirPath, source string) error {
	mtype, err := mimetype.DetectFile(source)
	if err != nil {
		return fmt.Errorf("upload %s: %w", source, err)
	}

	f, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("upload %s: %w", source, err)
	}
	defer f.Close()

	r.log.Debug("uploading",
		zap.String("source", source),
		zap.String("dir", dirPath),
		zap.String("content_type", mtype.String()),
	)

	resp, err := r.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"path": dirPath}).
		SetMultipartField("file", filepath.Base(source), mtype.String(), f).
		Post(filesEndpoint)
	return responseError("upload "+filepath.Base(source), resp, err)
}

func responseError(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", op, ErrExists)
	default:
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
}
