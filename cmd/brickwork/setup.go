package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/mmcdole/brickwork/internal/adapter"
	"github.com/mmcdole/brickwork/internal/adapter/source"
	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow asks for an API key until one is accepted, then saves it
func runSetupFlow(env *appEnv, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to brickwork!")
	fmt.Fprintln(out, "Create an API key at https://rebrickable.com/users/profile/ (Settings > API).")
	fmt.Fprintln(out)

	for {
		key, err := promptAPIKey(env.stdin, out)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if key == "" {
			fmt.Fprintln(out, "API key cannot be empty. Please try again.")
			continue
		}

		if err := verifyWithSpinner(env.cfg.API, key, out); err != nil {
			fmt.Fprintf(out, "✗ %v\n", err)
			if errors.Is(err, domain.ErrAuthFailed) {
				fmt.Fprintln(out, "Please check the key and try again.")
				fmt.Fprintln(out)
				continue
			}
			return err
		}
		return saveKey(env, key, out)
	}
}

func saveKey(env *appEnv, key string, out io.Writer) error {
	if err := env.saveAPIKey(key); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(out, "✓ Configuration saved!")
	return nil
}

// promptAPIKey reads the key, hiding input when stdin is a terminal
func promptAPIKey(in *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "Rebrickable API key: ")
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

// readLine reads one line; a final line without newline is accepted
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// verifyAPIKey issues the smallest authenticated request the API offers
func verifyAPIKey(ctx context.Context, api adapter.APIConfig, key string) error {
	api.Key = key
	client, err := source.NewClient(&api, adapter.NullLogger())
	if err != nil {
		return err
	}
	_, err = client.Get(ctx, "/themes/", url.Values{"page_size": {"1"}})
	return err
}

// verifyWithSpinner checks the key with a visual spinner
func verifyWithSpinner(api adapter.APIConfig, key string, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- verifyAPIKey(ctx, api, key)
	}()

	frame := 0
	fmt.Fprintf(out, "\r%s Checking API key...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Fprint(out, clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Fprintf(out, "\r%s Checking API key...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Fprint(out, clearSpinnerLine)
			return fmt.Errorf("verification timed out")
		}
	}
}
