package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/analysis"
	"github.com/spigell/career-coach/internal/cv"
	"github.com/spigell/career-coach/internal/logger"
)

const (
	ModeAI       = "ai"
	ModeFallback = "fallback"

	PromptAI       = "Analyse with the AI service (falls back to the scorer on failure)"
	PromptFallback = "Use the rule-based scorer only"
)

var prompt = promptui.Select{
	Label: "How should the CV be analysed?",
	Items: []string{PromptAI, PromptFallback},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a CV JSON file and print the assessment",
	Run: func(cmd *cobra.Command, _ []string) {
		if err := analyze(cmd); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("file", "f", "", "path to a CV JSON file, '-' reads stdin")
	analyzeCmd.Flags().StringP("mode", "m", "", "analysis mode: ai or fallback")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for the mode, use ai unless --mode is set")

	analyzeCmd.MarkFlagRequired("file")
}

func analyze(cmd *cobra.Command) error {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	path, _ := cmd.Flags().GetString("file")
	record, err := readRecord(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	mode, err := analysisMode(cmd)
	if err != nil {
		return err
	}
	logger.Debug("analysing cv", zap.String("file", path), zap.String("mode", mode))

	service := analysis.NewService(nil, analysis.Config{}, logger)
	if mode == ModeAI {
		components, err := newAIComponents(ctx, config.AI, logger)
		if err != nil {
			return fmt.Errorf("building ai components: %w", err)
		}
		service = analysis.NewService(components.analyzer, analysis.Config{
			Timeout:      config.AI.Timeout,
			MaxLogLength: config.AI.Gemini.MaxLogLength,
		}, logger)
	}

	assessment := service.Analyze(ctx, record)

	pretty, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding assessment: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))

	return nil
}

func analysisMode(cmd *cobra.Command) (string, error) {
	mode, _ := cmd.Flags().GetString("mode")
	mode = strings.ToLower(strings.TrimSpace(mode))

	switch mode {
	case ModeAI, ModeFallback:
		return mode, nil
	case "":
	default:
		return "", fmt.Errorf("unknown mode %q, expected %s or %s", mode, ModeAI, ModeFallback)
	}

	if yes, _ := cmd.Flags().GetBool("auto-approve"); yes {
		return ModeAI, nil
	}

	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selecting analysis mode: %w", err)
	}
	if choice == PromptFallback {
		return ModeFallback, nil
	}
	return ModeAI, nil
}

// readRecord accepts either a bare CV record or an API body of the form {"cvData": {...}}.
func readRecord(path string, stdin io.Reader) (*cv.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading cv file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("cv file is empty")
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing cv file: %w", err)
	}
	if wrapped, ok := payload.(map[string]any); ok {
		if inner, found := wrapped["cvData"]; found {
			payload = inner
		}
	}

	record, err := cv.DecodeRecord(payload)
	if err != nil {
		return nil, fmt.Errorf("parsing cv file: %w", err)
	}
	return record, nil
}
