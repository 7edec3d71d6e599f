package logging

import (
	"context"
	"io"
	"log/slog"
)

// Module names the component a log line originates from.
type Module string

type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type Config struct {
	ServiceInfo   ServiceInfo
	Environment   Environment
	DefaultModule Module
	Level         slog.Level
	GCPProjectID  string
}

type moduleKey struct{}

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey{}, module)
}

func moduleFromContext(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey{}).(Module)
	return m, ok
}

func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	base := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: replaceAttr,
	})

	handler := &contextHandler{
		Handler:       base,
		projectID:     cfg.GCPProjectID,
		defaultModule: cfg.DefaultModule,
	}

	return slog.New(handler).With(
		slog.Group("service",
			slog.String("name", cfg.ServiceInfo.Name),
			slog.String("version", cfg.ServiceInfo.Version),
			slog.String("revision", cfg.ServiceInfo.Revision),
		),
		slog.String("env", string(cfg.Environment)),
	)
}

// contextHandler stamps request, module and trace attributes carried in the context.
type contextHandler struct {
	slog.Handler
	projectID     string
	defaultModule Module
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}

	module := h.defaultModule
	if m, ok := moduleFromContext(ctx); ok {
		module = m
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}

	r.AddAttrs(gcpTraceAttrs(ctx, h.projectID)...)

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		Handler:       h.Handler.WithAttrs(attrs),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		Handler:       h.Handler.WithGroup(name),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}
