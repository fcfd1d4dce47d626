package main

import (
	"context"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/config"
	"github.com/Geniuskaa/hackathon_registration/internal/relay"
	"github.com/Geniuskaa/hackathon_registration/internal/site"
	"github.com/Geniuskaa/hackathon_registration/pkg/database"
	"github.com/Geniuskaa/hackathon_registration/pkg/server"
	"github.com/Geniuskaa/hackathon_registration/pkg/sheets"
	"github.com/Geniuskaa/hackathon_registration/pkg/workbook"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

const (
	service     = "registration-relay"
	environment = "production"

	SHEETS_HTTP_TIMEOUT = 30 * time.Second
)

func main() {
	// .env is optional, real environment wins.
	_ = godotenv.Load()

	conf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error with reading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, net.JoinHostPort(conf.App.Host, conf.App.Port), conf); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, addr string, conf *config.Entity) error {
	logger, atom, err := loggerInit(conf.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if conf.Jag.Dsn != "" {
		tp, err := tracerProvider(conf.Jag.Dsn)
		if err != nil {
			return fmt.Errorf("setting up tracer: %w", err)
		}
		otel.SetTracerProvider(tp)

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	sink, closeSink, err := newSink(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeSink()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	relayServ := relay.NewService(sink, logger, relay.NewMetrics(reg))

	application := server.NewServer(ctx, logger, chi.NewRouter(), conf)
	application.Init(atom, reg,
		relay.NewHandler(logger, relayServ),
		site.NewHandler(logger, site.Options{ShowWinners: conf.Site.ShowWinners}),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return application.Start(addr)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return application.Shutdown(context.Background())
	})

	return g.Wait()
}

// newSink picks the append destination. The sheets sink starts even without
// credentials; requests are rejected until it is configured.
func newSink(ctx context.Context, logger *zap.Logger, conf *config.Entity) (relay.Sink, func(), error) {
	switch conf.Sink.Kind {
	case config.SINK_XLSX:
		logger.Info("appending registrations to workbook", zap.String("path", conf.Sink.XlsxPath))
		return workbook.NewSink(conf.Sink.XlsxPath, conf.Sheets.SheetName, logger), func() {}, nil

	case config.SINK_POSTGRES:
		pool, err := database.PoolCreation(ctx, logger, conf)
		if err != nil {
			return nil, nil, err
		}
		db := database.NewPostgres(pool, logger)
		if err := db.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return db, pool.Close, nil
	}

	client := sheets.NewClient(sheets.Config{
		SpreadsheetID: conf.Sheets.SpreadsheetID,
		SheetName:     conf.Sheets.SheetName,
		ClientEmail:   conf.Sheets.ClientEmail,
		PrivateKey:    conf.Sheets.PrivateKey,
		TokenURL:      conf.Sheets.TokenURL,
		Endpoint:      conf.Sheets.Endpoint,
	}, &http.Client{Timeout: SHEETS_HTTP_TIMEOUT}, logger)

	if err := client.Ready(); err != nil {
		logger.Warn("spreadsheet credentials are missing, /sheets will answer 500 until they are set", zap.Error(err))
	}
	return client, func() {}, nil
}

func loggerInit(conf config.Logging) (*zap.Logger, zap.AtomicLevel, error) {
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := atom.UnmarshalText([]byte(conf.Level)); err != nil {
		return nil, atom, fmt.Errorf("loggerInit failed: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC1123Z)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), atom)
	if conf.File == "" {
		return zap.New(consoleCore), atom, nil
	}

	if err := os.MkdirAll(filepath.Dir(conf.File), 0o755); err != nil {
		return nil, atom, fmt.Errorf("loggerInit failed: %w", err)
	}
	file, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, atom, fmt.Errorf("loggerInit failed: %w", err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), atom),
		consoleCore,
	)

	return zap.New(core), atom, nil
}

func tracerProvider(url string) (*tracesdk.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, err
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
			attribute.String("environment", environment),
		)),
	)
	return tp, nil
}
