package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hirecheck/hirecheck/internal/ai"
	"github.com/hirecheck/hirecheck/internal/ai/gemini"
	"github.com/hirecheck/hirecheck/internal/logger"
	"github.com/hirecheck/hirecheck/internal/matching"
	"github.com/hirecheck/hirecheck/internal/records"
	"github.com/hirecheck/hirecheck/internal/secrets"
	"github.com/hirecheck/hirecheck/internal/verdict"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReportByEmployer = "Report by employer"
	PromptReportToFile     = "Dump report to file"
	PromptDiscrepancies    = "Show discrepancies"
	PromptExit             = "Exit"

	assessorTimeout = 120 * time.Second
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptDiscrepancies, PromptReportByEmployer, PromptReportToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the verification of a CV against a PF statement",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("cv", "", "path to the extracted CV JSON file")
	runCmd.Flags().String("pf", "", "path to the extracted PF statement JSON file")
	runCmd.Flags().StringP("out", "o", "", "write the report to this file and skip the prompt")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do with the report")

	viper.BindPFlag("cv", runCmd.Flags().Lookup("cv"))
	viper.BindPFlag("pf", runCmd.Flags().Lookup("pf"))
	viper.BindPFlag("out", runCmd.Flags().Lookup("out"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting hirecheck", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		config = &Config{}
	}

	if config.CV == "" || config.PF == "" {
		logger.Fatal("both --cv and --pf input files are required")
	}

	cvDoc, err := records.LoadCVDocument(config.CV)
	if err != nil {
		logger.Fatal("loading cv document", zap.Error(err))
	}

	pfDoc, err := records.LoadPFDocument(config.PF)
	if err != nil {
		logger.Fatal("loading pf document", zap.Error(err))
	}

	logger.Info("documents loaded",
		zap.Int("cv_entries", len(cvDoc.Records)),
		zap.Int("pf_entries", len(pfDoc.Records)),
		zap.String("candidate", cvDoc.Candidate.Name),
		zap.String("pf_account", pfDoc.Account.PFAccountNumber),
	)

	matchCfg := matchingConfig(config)
	now := records.Now()

	pairs, err := matching.Match(cvDoc.Records, pfDoc.Records, matchCfg, now)
	if err != nil {
		logger.Fatal("matching records", zap.Error(err))
	}

	result, err := verdict.Classify(pairs, verdictConfig(config, matchCfg))
	if err != nil {
		logger.Fatal("classifying pairs", zap.Error(err))
	}

	logger.Info("verification complete",
		zap.String("overall_status", string(result.OverallStatus)),
		zap.Float64("match_rate", result.MatchRate),
		zap.Int("matched", result.Matched),
		zap.Int("cv_entries", result.CVEntries),
		zap.Int("pf_entries", result.PFEntries),
		zap.Int("unparseable", result.Unparseable),
		zap.Int("discrepancies", len(result.Discrepancies)),
	)

	report := verdict.BuildReport(result, pairs)
	report.AIAnalysis = runAssessor(ctx, config.AI, cvDoc, pfDoc, logger)

	if config.Out != "" || cmd.Flag("auto-approve").Value.String() == "true" {
		if err := writeReport(report, config.Out, logger); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, report, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, report *verdict.Report, logger *zap.Logger) error {
	switch action {
	case PromptDiscrepancies:
		pretty, _ := json.MarshalIndent(report.Discrepancies, "", "  ")
		logger.Info(string(pretty), zap.Int("discrepancies count", len(report.Discrepancies)))
		return nil
	case PromptReportByEmployer:
		pretty, _ := json.MarshalIndent(report.ByEmployer(), "", "  ")
		logger.Info(string(pretty), zap.Int("entries count", len(report.Matches)))
		return nil
	case PromptReportToFile:
		filename, err := report.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func writeReport(report *verdict.Report, out string, logger *zap.Logger) error {
	if out == "" {
		filename, err := report.DumpToTmpFile()
		if err != nil {
			return err
		}
		logger.Info("report written", zap.String("filename", filename))
		return nil
	}

	if err := report.ToFile(out); err != nil {
		return err
	}
	logger.Info("report written", zap.String("filename", out))
	return nil
}

// runAssessor executes the optional AI narrative assessment. Collaborator
// failures degrade to a warning plus an error-only assessment; they never
// abort the run.
func runAssessor(ctx context.Context, cfg *AIConfig, cv *records.CVDocument, pf *records.PFDocument, log *zap.Logger) *ai.NarrativeAssessment {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	assessor, err := newAssessor(ctx, cfg, log)
	if err != nil {
		log.Warn("skipping AI assessment", zap.Error(err))
		return &ai.NarrativeAssessment{Error: err.Error()}
	}

	assessCtx, cancel := context.WithTimeout(ctx, assessorTimeout)
	defer cancel()

	assessment, err := assessor.Assess(assessCtx, cv, pf)
	if err != nil {
		log.Warn("AI assessment failed", zap.Error(err))
		return &ai.NarrativeAssessment{Error: err.Error()}
	}

	log.Info("AI assessment complete", zap.String("ai_status", assessment.Status))
	return assessment
}

func newAssessor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Assessor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai assessment is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithAIFields(log, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAssessor(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}

// matchingConfig applies config overrides on top of the default policy.
func matchingConfig(config *Config) matching.Config {
	cfg := matching.DefaultConfig()
	if config == nil || config.Matching == nil {
		return cfg
	}

	if config.Matching.NameThreshold != nil {
		cfg.NameThreshold = *config.Matching.NameThreshold
	}
	if config.Matching.ToleranceMonths != nil {
		cfg.ToleranceMonths = *config.Matching.ToleranceMonths
	}
	if config.Matching.OverlapBonus != nil {
		cfg.OverlapBonus = *config.Matching.OverlapBonus
	}
	return cfg
}

func verdictConfig(config *Config, matchCfg matching.Config) verdict.Config {
	cfg := verdict.DefaultConfig()
	cfg.ToleranceMonths = matchCfg.ToleranceMonths

	if config == nil || config.Verdict == nil {
		return cfg
	}

	if config.Verdict.VerifiedBand != nil {
		cfg.VerifiedBand = *config.Verdict.VerifiedBand
	}
	if config.Verdict.MostlyVerifiedBand != nil {
		cfg.MostlyVerifiedBand = *config.Verdict.MostlyVerifiedBand
	}
	if config.Verdict.PartiallyVerifiedBand != nil {
		cfg.PartiallyVerifiedBand = *config.Verdict.PartiallyVerifiedBand
	}
	if config.Verdict.HighConfidence != nil {
		cfg.HighConfidence = *config.Verdict.HighConfidence
	}
	return cfg
}
