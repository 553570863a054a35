package gateway

import (
	"bytes"
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// Reader is the read-only half of the gateway.
type Reader interface {
	GetDocument(ctx context.Context, path document.Path) (*document.Document, error)
	ListDocuments(ctx context.Context, collection document.Path) ([]*document.Document, error)
}

type Remote interface {
	Reader
	UpsertDocument(ctx context.Context, path document.Path, data map[string]any, opts ...UpsertOption) error
	CreateDocument(ctx context.Context, collection document.Path, data map[string]any) (string, error)
	DeleteDocument(ctx context.Context, path document.Path) error
	UploadBlob(ctx context.Context, path string, content []byte) (string, error)
	DeleteBlob(ctx context.Context, path string) error
}

var _ Remote = (*Gateway)(nil)

var tracer = otel.Tracer("github.com/khoahotran/portfolio-pilot/gateway")

// Gateway is the single entry point to the document and blob stores. It checks
// path shapes, records a span per call and never retries.
type Gateway struct {
	docs  service.DocumentStore
	blobs service.BlobStore
	log   logger.Logger
}

func New(docs service.DocumentStore, blobs service.BlobStore, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	return &Gateway{docs: docs, blobs: blobs, log: log}
}

type UpsertOption func(*upsertOptions)

type upsertOptions struct {
	merge bool
}

// WithMerge keeps fields not present in data.
func WithMerge() UpsertOption {
	return func(o *upsertOptions) { o.merge = true }
}

func (g *Gateway) GetDocument(ctx context.Context, path document.Path) (*document.Document, error) {
	ctx, span := start(ctx, "gateway.GetDocument", path.String())
	defer span.End()

	if err := path.RequireDocument(); err != nil {
		return nil, fail(span, invalidPath(path, err))
	}
	doc, err := g.docs.Get(ctx, path)
	if err != nil {
		return nil, fail(span, err)
	}
	return doc, nil
}

func (g *Gateway) ListDocuments(ctx context.Context, collection document.Path) ([]*document.Document, error) {
	ctx, span := start(ctx, "gateway.ListDocuments", collection.String())
	defer span.End()

	if err := collection.RequireCollection(); err != nil {
		return nil, fail(span, invalidPath(collection, err))
	}
	docs, err := g.docs.List(ctx, collection)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("documents.count", len(docs)))
	return docs, nil
}

func (g *Gateway) UpsertDocument(ctx context.Context, path document.Path, data map[string]any, opts ...UpsertOption) error {
	var o upsertOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := start(ctx, "gateway.UpsertDocument", path.String())
	defer span.End()
	span.SetAttributes(attribute.Bool("merge", o.merge))

	if err := path.RequireDocument(); err != nil {
		return fail(span, invalidPath(path, err))
	}
	if err := g.docs.Set(ctx, path, data, o.merge); err != nil {
		return fail(span, err)
	}
	return nil
}

func (g *Gateway) CreateDocument(ctx context.Context, collection document.Path, data map[string]any) (string, error) {
	ctx, span := start(ctx, "gateway.CreateDocument", collection.String())
	defer span.End()

	if err := collection.RequireCollection(); err != nil {
		return "", fail(span, invalidPath(collection, err))
	}
	id, err := g.docs.Create(ctx, collection, data)
	if err != nil {
		return "", fail(span, err)
	}
	span.SetAttributes(attribute.String("document.id", id))
	return id, nil
}

func (g *Gateway) DeleteDocument(ctx context.Context, path document.Path) error {
	ctx, span := start(ctx, "gateway.DeleteDocument", path.String())
	defer span.End()

	if err := path.RequireDocument(); err != nil {
		return fail(span, invalidPath(path, err))
	}
	if err := g.docs.Delete(ctx, path); err != nil {
		return fail(span, err)
	}
	return nil
}

// UploadBlob stores content at path and returns its download URL.
func (g *Gateway) UploadBlob(ctx context.Context, path string, content []byte) (string, error) {
	ctx, span := start(ctx, "gateway.UploadBlob", path)
	defer span.End()
	span.SetAttributes(attribute.Int("blob.size", len(content)))

	if path == "" {
		return "", fail(span, apperror.NewInvalidInput("blob path is empty", nil))
	}
	url, err := g.blobs.Upload(ctx, path, bytes.NewReader(content))
	if err != nil {
		return "", fail(span, err)
	}
	g.log.Debug("Blob uploaded", zap.String("path", path), zap.Int("size", len(content)))
	return url, nil
}

func (g *Gateway) DeleteBlob(ctx context.Context, path string) error {
	ctx, span := start(ctx, "gateway.DeleteBlob", path)
	defer span.End()

	if path == "" {
		return fail(span, apperror.NewInvalidInput("blob path is empty", nil))
	}
	if err := g.blobs.Delete(ctx, path); err != nil {
		return fail(span, err)
	}
	return nil
}

func start(ctx context.Context, name, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("path", path)))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func invalidPath(p document.Path, err error) error {
	return apperror.NewInvalidInput(fmt.Sprintf("path %q", p.String()), err)
}
