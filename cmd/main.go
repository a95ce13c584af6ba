package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepgram/intake/internal/api/v1/routes"
	"github.com/deepgram/intake/internal/cli"
	"github.com/deepgram/intake/internal/config"
	"github.com/deepgram/intake/internal/services"
	"github.com/deepgram/intake/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const usage = `usage: intake <command> [flags]

commands:
  serve   run the HTTP and websocket API (default)
  chat    run one intake session in this terminal
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	command := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, args)
	case "chat":
		return chat(ctx, args, stdin, stdout)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", config.GetPort(), "port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := logger.Init(config.GetLogDir(), time.Now(), true)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Info(logger.APP, "Logging to %s", path)

	svc, err := services.InitializeServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	server := &http.Server{
		Addr:              ":" + *port,
		Handler:           setupRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func chat(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	model := fs.String("model", config.GetIntakeConfig().DefaultModel, "assistant model: gpt-3.5-turbo, gpt-4, gpt-4o or gpt-4o-mini")
	key := fs.String("key", "", "OpenAI API key (defaults to $OPENAI_API_KEY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	apiKey := *key
	if apiKey == "" {
		apiKey = config.GetOpenAIKeyFromEnv()
	}
	if apiKey == "" {
		return errors.New("an OpenAI API key is required: pass -key or set OPENAI_API_KEY")
	}
	if !config.IsSupportedModel(*model) {
		return fmt.Errorf("unsupported model %q", *model)
	}

	path, err := logger.Init(config.GetLogDir(), time.Now(), false)
	if err != nil {
		return err
	}
	defer logger.Close()

	svc, err := services.InitializeServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	fmt.Fprintf(stdout, "Starting intake with %s. Type %q to leave. Log: %s\n\n", *model, "exit", path)

	state, err := svc.GetIntakeService().Run(ctx, apiKey, *model, cli.NewPrompter(stdin, stdout), cli.NewRenderer(stdout))
	if err != nil {
		return err
	}
	logger.Info(logger.APP, "Session %s finished with status %s", state.ID, state.Status)
	return nil
}

func setupRouter(svc *services.Services) *mux.Router {
	return routes.NewRouter(svc)
}
