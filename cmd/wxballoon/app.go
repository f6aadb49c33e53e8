package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"wxballoon/config"
	"wxballoon/internal/cache"
	"wxballoon/internal/models"
	"wxballoon/internal/notify"
	"wxballoon/internal/prompt"
	"wxballoon/internal/repositories"
	"wxballoon/internal/services/location"
	"wxballoon/internal/services/report"
	"wxballoon/internal/services/weather"
	"wxballoon/pkg/logger"
	"wxballoon/pkg/observe"
)

const alertTitle = "エラー"

type app struct {
	cnf      *config.Config
	l        *logger.Logger
	sink     notify.Sink
	prompter *prompt.Prompter
	service  *report.Service
	stdout   io.Writer
	closers  []func()
}

func newApp(cnf *config.Config, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	a := &app{cnf: cnf, stdout: stdout}

	writers := []io.Writer{stderr}
	if cnf.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cnf.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cnf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		a.closers = append(a.closers, func() { _ = f.Close() })
	}

	opts := logger.Options{Env: cnf.AppEnv, Level: cnf.LogLevel, Format: cnf.LogFormat}
	if cnf.SentryDSN != "" {
		hook, err := observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.LogLevel == "debug")
		if err != nil {
			return nil, err
		}
		opts.Hooks = append(opts.Hooks, hook)
		a.closers = append(a.closers, func() { hook.Flush() })
	}

	l, err := logger.NewZapLoggerWithOptions(cnf.AppName, opts, writers...)
	if err != nil {
		return nil, err
	}
	a.l = l
	a.closers = append(a.closers, func() { _ = l.Stop() })

	sink, err := notify.New(cnf.Notifier, stdout, cnf.NotifyDuration)
	if err != nil {
		return nil, err
	}
	a.sink = sink

	client := repositories.NewHTTPClient(cnf.HTTPTimeout)
	directory := repositories.NewPostalDirectoryRepository(cnf.PostalBaseURL, cnf.UserAgent, l, client)
	geocoder := repositories.NewNominatimRepository(cnf.GeocoderBaseURL, cnf.UserAgent, l, client)
	forecaster, err := repositories.NewWeatherAPIRepository(cnf.WeatherBaseURL, cnf.WeatherAPIKey, cnf.WeatherLang, cnf.UserAgent, l, client)
	if err != nil {
		return nil, err
	}

	locations := cache.Load[models.PostalCode, models.LocationRecord]("location", cnf.LocationCacheFile, cnf.LocationCacheTTL, l)
	forecasts := cache.Load[models.PostalCode, models.WeatherSnapshot]("weather", cnf.WeatherCacheFile, cnf.WeatherCacheTTL, l)

	a.service = report.NewService(
		locations,
		forecasts,
		location.NewResolver(directory, geocoder, l),
		weather.NewResolver(forecaster, l),
		l,
	)
	a.prompter = prompt.New(stdin, stdout, prompt.DefaultMaxAttempts, l)

	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// execute runs one lookup. Failures are logged and shown once; nothing is returned.
func (a *app) execute(ctx context.Context, arg string) {
	a.l.Info("wxballoon started", map[string]any{"env": a.cnf.AppEnv, "arg": arg})

	code, err := a.postalCode(ctx, arg)
	if errors.Is(err, prompt.ErrCancelled) {
		a.l.Info("postal code input cancelled")
		return
	}
	if err != nil {
		a.fail(err)
		return
	}

	r, err := a.service.Run(ctx, code)
	if err != nil {
		a.fail(err)
		return
	}

	// a failed balloon is already logged and does not hide the result
	_ = notify.Display(ctx, a.sink, r.Title, r.Body, a.cnf.NotifyDuration, a.l)

	a.l.Info("final result", map[string]any{"console": r.Console})
	fmt.Fprintln(a.stdout, r.Console)
}

func (a *app) postalCode(ctx context.Context, arg string) (models.PostalCode, error) {
	if arg == "" {
		return a.prompter.Ask(ctx)
	}
	return models.NormalizePostalCode(arg)
}

func (a *app) fail(err error) {
	a.l.Error(err)
	if aerr := a.sink.Alert(alertTitle, userMessage(err)); aerr != nil {
		a.l.Error(fmt.Errorf("show error report: %w", aerr))
	}
}

// userMessage picks a short Japanese message for known failure kinds.
func userMessage(err error) string {
	var se *models.StatusError
	if errors.As(err, &se) {
		switch se.Kind {
		case models.ErrDirectoryService:
			return fmt.Sprintf("郵便番号API応答異常: %d", se.StatusCode)
		case models.ErrGeocodingService:
			return fmt.Sprintf("Nominatim API応答異常: %d", se.StatusCode)
		case models.ErrWeatherService:
			return fmt.Sprintf("WeatherAPI応答異常: %d", se.StatusCode)
		}
	}

	switch {
	case errors.Is(err, models.ErrInvalidFormat):
		return "無効な郵便番号です。例: 1000001"
	case errors.Is(err, models.ErrUnsupportedPostalCode):
		return "郵便番号データが見つかりません（サポート外）"
	case errors.Is(err, models.ErrEmptyLocationData):
		return "郵便番号から位置情報取得失敗（データ空）"
	case errors.Is(err, models.ErrGeocodingEmptyResult):
		return "住所から緯度経度取得失敗"
	case errors.Is(err, models.ErrInvalidCoordinates):
		return "無効な緯度経度: " + err.Error()
	case errors.Is(err, models.ErrIncompleteWeatherData):
		return "天気データ解析失敗（データ空または不足）"
	default:
		return err.Error()
	}
}
