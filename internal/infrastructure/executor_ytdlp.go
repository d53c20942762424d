package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/ripbox-go/internal/domain"
	"go.uber.org/zap"
)

// YTDLPExecutor drives the external yt-dlp binary. One process per Execute
// call; retry and credential escalation belong to the attempt policy.
type YTDLPExecutor struct {
	binary  string
	logsDir string
	logger  *zap.Logger
}

// NewYTDLPExecutor creates a new executor for the configured engine binary
func NewYTDLPExecutor(cfg *domain.DownloadConfig, logger *zap.Logger) *YTDLPExecutor {
	return &YTDLPExecutor{
		binary:  cfg.YTDLPBinary,
		logsDir: ExpandPath(cfg.LogsDir),
		logger:  logger,
	}
}

// Execute runs the engine once for the given URL and configuration.
//
// Success is decided by the filesystem, not by the engine: the engine prints
// the path of every finished file (after any ffmpeg merge or audio
// extraction), and the outcome is OK only when at least one printed path
// exists on disk. Engine error lines are drained into a per-call capture
// sink; the last ERROR line is preferred over the process exit message,
// since the engine often reports the real cause there and still exits with
// a generic status.
//
// The returned error is non-nil only for cancellation.
func (e *YTDLPExecutor) Execute(ctx context.Context, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.DownloadOutcome{}, domain.ErrCancelled
	}

	if err := cfg.Validate(); err != nil {
		return domain.DownloadOutcome{Error: err.Error()}, nil
	}

	args := BuildEngineArgs(cfg, url)
	sink := newCaptureSink()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("Invoking engine",
		zap.String("url", url),
		zap.String("credential", cfg.Credential.String()),
		zap.String("cmd", ShellEscapeCommand(e.binary, args...)))

	runErr := cmd.Run()

	e.appendEngineLog(url, ShellEscapeCommand(e.binary, args...), stdout.Bytes(), stderr.Bytes(), runErr)

	if ctx.Err() != nil {
		return domain.DownloadOutcome{}, domain.ErrCancelled
	}

	drainEngineStderr(stderr.Bytes(), sink)

	info := parseResultInfo(stdout.Bytes())
	existing := existingPaths(info.CandidatePaths())
	if len(existing) > 0 {
		return domain.DownloadOutcome{OK: true, ProducedPaths: existing}, nil
	}

	errText := sink.lastError
	if errText == "" && runErr != nil {
		errText = runErr.Error()
	}
	if errText == "" {
		errText = "no output file was created"
	}
	return domain.DownloadOutcome{Error: errText}, nil
}

// BuildEngineArgs translates an attempt configuration into the engine's
// argument vector
func BuildEngineArgs(cfg domain.AttemptConfiguration, url string) []string {
	args := []string{
		"-f", cfg.FormatSelector,
	}

	if cfg.ExtractAudio {
		args = append(args,
			"-x",
			"--audio-format", cfg.AudioCodec,
			"--audio-quality", cfg.AudioQuality,
		)
	} else {
		args = append(args, "--merge-output-format", cfg.MergeFormat)
	}

	args = append(args,
		"-o", cfg.OutputTemplate,
		"-P", cfg.OutputDir,
		"--retries", strconv.Itoa(cfg.Retries),
		"--fragment-retries", strconv.Itoa(cfg.FragmentRetries),
		"--concurrent-fragments", strconv.Itoa(cfg.ConcurrentFragments),
		"--continue",
		"--ignore-errors",
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
	)

	if cfg.RestrictFilenames {
		args = append(args, "--restrict-filenames")
	}
	if cfg.TrimFileName > 0 {
		args = append(args, "--trim-filenames", strconv.Itoa(cfg.TrimFileName))
	}
	if cfg.UserAgent != "" {
		args = append(args, "--user-agent", cfg.UserAgent)
	}
	if len(cfg.PlayerClients) > 0 {
		args = append(args, "--extractor-args", "youtube:player_client="+strings.Join(cfg.PlayerClients, ","))
	}
	if cfg.POToken != "" {
		args = append(args, "--extractor-args", "youtube:po_token="+cfg.POToken)
	}

	switch cfg.Credential.Kind {
	case domain.CredentialCookieFile:
		args = append(args, "--cookies", cfg.CookieFile)
	case domain.CredentialBrowser:
		args = append(args, "--cookies-from-browser", cfg.Credential.Browser)
	}

	return append(args, url)
}

// captureSink retains engine warnings and the last error line for one
// invocation
type captureSink struct {
	warnings  []string
	lastError string
}

func newCaptureSink() *captureSink {
	return &captureSink{}
}

func (s *captureSink) RecordWarning(msg string) {
	s.warnings = append(s.warnings, msg)
}

func (s *captureSink) RecordError(msg string) {
	s.lastError = msg
}

// drainEngineStderr feeds the engine's stderr lines into the sink. yt-dlp
// prefixes diagnostics with "ERROR:" / "WARNING:"; unprefixed lines are
// progress noise and skipped.
func drainEngineStderr(stderr []byte, sink domain.LogSink) {
	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "ERROR:"):
			sink.RecordError(strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")))
		case strings.HasPrefix(line, "WARNING:"):
			sink.RecordWarning(strings.TrimSpace(strings.TrimPrefix(line, "WARNING:")))
		}
	}
}

// parseResultInfo converts the engine's printed output paths into the result
// shape: one line is a single item, several lines are a playlist-style
// multi-item result.
func parseResultInfo(stdout []byte) domain.ResultInfo {
	var items []domain.SingleItem
	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, domain.SingleItem{Path: line})
	}

	switch len(items) {
	case 0:
		return domain.SingleItem{}
	case 1:
		return items[0]
	default:
		return domain.MultiItem{Entries: items}
	}
}

// existingPaths filters claimed output paths down to those present on disk,
// deduplicated, order preserved
func existingPaths(candidates []string) []string {
	seen := make(map[string]bool)
	var existing []string
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			existing = append(existing, c)
		}
	}
	return existing
}

// appendEngineLog appends the raw engine output to the dated download log.
// Logging is best effort and never affects the outcome.
func (e *YTDLPExecutor) appendEngineLog(url, cmdLine string, stdout, stderr []byte, runErr error) {
	if e.logsDir == "" {
		return
	}
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		e.logger.Warn("Failed to create logs directory", zap.Error(err))
		return
	}

	logPath := filepath.Join(e.logsDir, "download-"+time.Now().Format("20060102")+".log")
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		e.logger.Warn("Failed to open download log", zap.Error(err))
		return
	}
	defer file.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(file, "\n=== [%s] Download: %s ===\n$ %s\n", timestamp, url, cmdLine)
	file.Write(stdout)
	file.Write(stderr)

	status := "SUCCESS"
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		status = "FAILED"
	}
	fmt.Fprintf(file, "[%s] %s\n=== END ===\n\n", timestamp, status)
}
