package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yourusername/ripbox-go/internal/app"
	"github.com/yourusername/ripbox-go/internal/domain"
	"github.com/yourusername/ripbox-go/internal/infrastructure"
)

// resetInput clears the sticky session state without exiting
const resetInput = "reset"

// runLoop is the interactive prompt loop. Blank primary input exits with
// status 0. The output folder and format selection are asked once and stay
// sticky until the reset input.
func runLoop(ctx context.Context, config *domain.Config, orchestrator *app.BatchOrchestrator) error {
	reader := bufio.NewScanner(os.Stdin)
	session := domain.NewBatchSession()

	fmt.Println("=== Universal video downloader (YouTube / X / Instagram / TikTok / Facebook) ===")
	fmt.Println("Empty URL -> exit. 'reset' -> forget folder, formats and locked cookies.")
	fmt.Println()

	for {
		line, ok := prompt(reader, "→ Paste URL(s) or a file with URLs: ")
		if !ok || line == "" {
			fmt.Println("Done. Bye!")
			return nil
		}
		if line == resetInput {
			session.Reset()
			fmt.Println("[i] Session cleared.")
			continue
		}

		urls := gatherURLs(line)
		if len(urls) == 0 {
			fmt.Println("[i] No URLs found in input.")
			continue
		}

		if !session.HasOutputDir() {
			target, ok := prompt(reader, fmt.Sprintf("→ Output subfolder (relative to %s, empty = base): ", config.Download.BaseDir))
			if !ok {
				fmt.Println("Done. Bye!")
				return nil
			}
			outDir, err := infrastructure.ResolveOutputDir(config.Download.BaseDir, target)
			if err != nil {
				fmt.Printf("✗ %v\n", err)
				continue
			}
			session.OutputDir = outDir
		}

		if !session.HasFormats() {
			printFormatMenu()
			raw, ok := prompt(reader, "→ Choose format(s) by number (e.g. 1 4). Enter = default MP4: ")
			if !ok {
				fmt.Println("Done. Bye!")
				return nil
			}
			session.Formats = domain.ParseFormatSelection(raw)
		}

		fmt.Printf("[i] Saving to: %s\n", session.OutputDir)
		fmt.Printf("[i] Export(s): %s\n\n", joinFormats(session.Formats))

		result, err := orchestrator.Run(ctx, urls, session.OutputDir, session.Formats, session)
		printSummary(result)
		if err != nil {
			if errIsCancelled(err) {
				fmt.Println("Cancelled.")
				return nil
			}
			return err
		}
	}
}

// prompt reads one trimmed line; ok is false on EOF
func prompt(reader *bufio.Scanner, text string) (string, bool) {
	fmt.Print(text)
	if !reader.Scan() {
		fmt.Println()
		return "", false
	}
	return strings.TrimSpace(reader.Text()), true
}

// gatherURLs interprets the primary input: a readable file is treated as a
// newline-separated URL list, anything else as whitespace-separated URLs
func gatherURLs(input string) []string {
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		data, err := os.ReadFile(input)
		if err == nil {
			var urls []string
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				urls = append(urls, line)
			}
			return urls
		}
	}
	return strings.Fields(input)
}

func printFormatMenu() {
	fmt.Println("\nExport formats:")
	for _, entry := range domain.FormatMenu() {
		fmt.Printf("  %d) %s\n", entry.Number, entry.Description)
	}
}

func joinFormats(formats []domain.ExportFormat) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}

// printSummary prints the tri-partition batch summary with the literal
// failed and invalid URL lists so they can be resubmitted
func printSummary(result domain.BatchResult) {
	fmt.Printf("\n=== Summary: ok %d / failed %d / invalid %d ===\n",
		len(result.OKURLs), len(result.FailedURLs), len(result.Invalid))

	if len(result.FailedURLs) > 0 {
		fmt.Println("Failed URLs:")
		for _, url := range result.FailedURLs {
			fmt.Printf("  %s\n", url)
		}
	}
	if len(result.Invalid) > 0 {
		fmt.Println("Invalid URLs:")
		for _, inv := range result.Invalid {
			fmt.Printf("  %s (%s)\n", inv.URL, inv.Reason)
		}
	}
	fmt.Println()
}
