package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sam522/sentiment-companion/internal/config"
	"github.com/sam522/sentiment-companion/internal/diagnostics"
	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	"github.com/sam522/sentiment-companion/internal/provider"
	"github.com/sam522/sentiment-companion/internal/provider/gradio"
	"github.com/sam522/sentiment-companion/internal/provider/mcptool"
	"github.com/sam522/sentiment-companion/internal/responder"
	"github.com/sam522/sentiment-companion/internal/textstats"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentimentcli",
		Short: "Companion tooling for the hosted sentiment analysis space",
		Long: `sentimentcli exercises the hosted sentiment analysis space from the
command line: one-shot analysis, an interactive chat loop, endpoint
diagnostics and local text statistics.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newProbeCmd())
	cmd.AddCommand(newStatsCmd())
	return cmd
}

func loadAnalyzer() (provider.Analyzer, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	switch cfg.Provider.Kind {
	case "mcp":
		return mcptool.NewClient(cfg.Provider.SSEURL), cfg, nil
	default:
		return gradio.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout), cfg, nil
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <text> [text...]",
		Short: "Analyze one or more texts and print sentiment with a reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, cfg, err := loadAnalyzer()
			if err != nil {
				return err
			}

			r := responder.New(responder.Config{BarWidth: cfg.Responder.BarWidth})
			for _, text := range args {
				var m *sentiment.Measurement
				measurement, err := analyzer.Analyze(cmd.Context(), text)
				if err != nil {
					log.Printf("analysis failed for %q: %v", text, err)
				} else {
					m = &measurement
				}

				reply := r.ClassifyAndRespond(m)
				r.Record(text, m, reply)

				fmt.Printf("📝 %s\n", text)
				if m != nil {
					fmt.Println(r.FormatMeasurement(*m))
				}
				fmt.Printf("🤖 %s\n\n", reply)
			}

			if len(args) > 1 {
				fmt.Println(r.FormatSummary(r.Summarize()))
			}
			return nil
		},
	}
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with sentiment-aware replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, cfg, err := loadAnalyzer()
			if err != nil {
				return err
			}

			r := responder.New(responder.Config{BarWidth: cfg.Responder.BarWidth})

			fmt.Println("💬 Type a message. Commands: summary, quit")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "":
					continue
				case "quit", "exit":
					fmt.Println(r.FormatSummary(r.Summarize()))
					return nil
				case "summary":
					fmt.Println(r.FormatSummary(r.Summarize()))
					continue
				}

				var m *sentiment.Measurement
				measurement, err := analyzer.Analyze(cmd.Context(), line)
				if err != nil {
					log.Printf("analysis failed: %v", err)
				} else {
					m = &measurement
				}

				reply := r.ClassifyAndRespond(m)
				r.Record(line, m, reply)

				if m != nil {
					fmt.Println(r.FormatMeasurement(*m))
				}
				fmt.Printf("🤖 %s\n", reply)
			}
			return scanner.Err()
		},
	}
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity, prediction, SSE and MCP endpoints of the space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			p := diagnostics.New(cfg.Provider.BaseURL, cfg.Provider.SSEURL, cfg.Provider.Timeout)
			results := p.Run(cmd.Context())
			fmt.Println(diagnostics.Render(results))

			for _, result := range results {
				if !result.OK {
					return fmt.Errorf("%d of %d checks failed", failed(results), len(results))
				}
			}
			return nil
		},
	}
}

func failed(results []diagnostics.CheckResult) int {
	n := 0
	for _, result := range results {
		if !result.OK {
			n++
		}
	}
	return n
}

func newStatsCmd() *cobra.Command {
	var letter string

	cmd := &cobra.Command{
		Use:   "stats <text>",
		Short: "Print word, character, letter and sentence counts for a text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]

			if letter != "" {
				fmt.Printf("%q appears %d times\n", letter, textstats.LetterCount(text, letter))
				return nil
			}

			stats := textstats.Analyze(text)
			fmt.Printf("Words: %d\nCharacters: %d\nLetters: %d\nSentences: %d\n",
				stats.Words, stats.Characters, stats.Letters, stats.Sentences)
			return nil
		},
	}

	cmd.Flags().StringVarP(&letter, "letter", "l", "", "count occurrences of a single letter instead")
	return cmd
}
