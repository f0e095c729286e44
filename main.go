package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	outPath          string
	apiKey           string
	backendName      string
	settingsPath     string
	systemPromptPath string
	userPromptPath   string
	saveReplyPath    string
	debugMode        bool
)

var rootCmd = &cobra.Command{
	Use:   "whatsnew-writer",
	Short: "Write a newsletter about the latest Python release",
	Long: `Fetches the newest "What's New in Python" article from docs.python.org and asks an
LLM to turn its highlights into a short, accurate newsletter.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			SetDebugMode(true)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		if backendName != "" {
			config.Settings.Backend = backendName
		}

		fetcher, err := NewFetcher(config.Settings.Source)
		if err != nil {
			log.Fatalf("Failed to create fetcher: %v", err)
		}

		backend, err := NewBackend(config.Settings, apiKey)
		if err != nil {
			log.Fatal(err)
		}

		tools := []Tool{NewReleaseNotesTool(fetcher, config.Settings.Source.IndexURL)}
		orchestrator := NewNewsletterOrchestrator(backend, tools, config)
		if saveReplyPath != "" {
			orchestrator.SetReplyPath(saveReplyPath)
		}

		newsletter, err := orchestrator.Run(context.Background())
		if err != nil {
			log.Fatalf("Newsletter generation failed: %v", err)
		}
		writeOutput(newsletter)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the release notes digest the model would receive",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		fetcher, err := NewFetcher(config.Settings.Source)
		if err != nil {
			log.Fatalf("Failed to create fetcher: %v", err)
		}

		digest, err := NewReleaseNotesTool(fetcher, config.Settings.Source.IndexURL).Invoke(context.Background(), "")
		if err != nil {
			log.Fatalf("Digest failed: %v", err)
		}
		writeOutput(digest)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the latest What's New article as Markdown",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		fetcher, err := NewFetcher(config.Settings.Source)
		if err != nil {
			log.Fatalf("Failed to create fetcher: %v", err)
		}

		latest, markdown, err := InspectLatest(context.Background(), fetcher, config.Settings.Source.IndexURL)
		if err != nil {
			log.Fatalf("Inspect failed: %v", err)
		}
		log.Printf("✓ Python %s: %s", latest.Version, latest.URL)
		writeOutput(markdown)
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <reply-file>",
	Short: "Print the normalized text of a saved backend reply",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read reply: %v", err)
		}
		reply, err := DecodeReply(data)
		if err != nil {
			log.Fatalf("Failed to decode reply: %v", err)
		}
		writeOutput(Normalize(reply))
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := ensureConfigExists()
		if err != nil {
			log.Fatalf("Init failed: %v", err)
		}
		log.Printf("✓ Settings at %s", path)
	},
}

func mustLoadConfig() *Config {
	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if systemPromptPath != "" {
		overrides.SystemPromptPath = &systemPromptPath
	}
	if userPromptPath != "" {
		overrides.UserPromptPath = &userPromptPath
	}

	config, err := NewConfig(overrides)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return config
}

// writeOutput prints text to stdout, or to --out when given
func writeOutput(text string) {
	if outPath == "" {
		fmt.Println(text)
		return
	}
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", outPath, err)
	}
	log.Printf("✓ Wrote %s", outPath)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outPath, "out", "", "Write output to file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings YAML file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the selected backend")
	rootCmd.Flags().StringVar(&backendName, "backend", "", "Generation backend: anthropic, llmkit or gemini")
	rootCmd.Flags().StringVar(&systemPromptPath, "system-prompt", "", "Path to custom system prompt file")
	rootCmd.Flags().StringVar(&userPromptPath, "user-prompt", "", "Path to custom user prompt file")
	rootCmd.Flags().StringVar(&saveReplyPath, "save-reply", "", "Save the raw backend reply as JSON")

	rootCmd.AddCommand(digestCmd, inspectCmd, normalizeCmd, initCmd)
}

func main() {
	log.SetOutput(os.Stderr)
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
