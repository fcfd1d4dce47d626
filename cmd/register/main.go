package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/config"
	"github.com/Geniuskaa/hackathon_registration/internal/console"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"github.com/Geniuskaa/hackathon_registration/internal/submit"
	"github.com/Geniuskaa/hackathon_registration/internal/wizard"
	"github.com/Geniuskaa/hackathon_registration/pkg/workbook"
	"github.com/joho/godotenv"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	rosterPath := flag.String("roster", "", "xlsx file whose first sheet pre-fills the participants")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *rosterPath, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, console.ErrAborted) {
			fmt.Fprintln(os.Stderr, "registration cancelled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, rosterPath string, in io.Reader, out io.Writer) error {
	conf, err := config.NewClientConfig()
	if err != nil {
		return err
	}

	roster, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: conf.Timeout}

	var sub wizard.Submitter
	switch conf.Mode {
	case config.MODE_SCRIPT:
		fmt.Fprintln(out, "Submitting through the script endpoint, the result cannot be confirmed.")
		sub = submit.NewScriptClient(conf.ScriptURL, httpClient)
	default:
		sub = submit.NewRelayClient(conf.RelayURL, httpClient)
	}

	fmt.Fprintf(out, "Team registration (type %s to go back, %s to quit, %s to clear a field)\n",
		console.CMD_BACK, console.CMD_QUIT, console.CMD_CLEAR)
	_, err = console.New(in, out, wizard.New(sub), roster).Run(ctx)
	return err
}

func loadRoster(path string) ([]registration.Participant, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadRoster failed: %w", err)
	}
	defer f.Close()

	roster, err := workbook.ParseRoster(f)
	if err != nil {
		return nil, fmt.Errorf("loadRoster failed: %w", err)
	}
	return roster, nil
}
