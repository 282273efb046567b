package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fadilmartias/resume-screener/internal/cache"
	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/export"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/service"
	"github.com/fadilmartias/resume-screener/internal/usecase"
	"github.com/fadilmartias/resume-screener/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze every resume in a directory against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return analyze(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("dir", ".", "directory with .pdf, .docx and .doc resumes")
	analyzeCmd.Flags().String("jd", "", "file with the job description (required)")
	analyzeCmd.Flags().Int("top-n", 0, "force-shortlist the n highest scoring candidates")
	analyzeCmd.Flags().String("out", "", "write results to a .csv or .xlsx file")
	analyzeCmd.Flags().String("provider", config.ProviderGemini, "evaluator provider: gemini or openrouter")
	analyzeCmd.Flags().Int("concurrency", 0, "maximum in-flight resumes")

	viper.BindPFlag("dir", analyzeCmd.Flags().Lookup("dir"))
	viper.BindPFlag("jd", analyzeCmd.Flags().Lookup("jd"))
	viper.BindPFlag("job.top-n", analyzeCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("out", analyzeCmd.Flags().Lookup("out"))
	viper.BindPFlag("provider", analyzeCmd.Flags().Lookup("provider"))
	viper.BindPFlag("concurrency", analyzeCmd.Flags().Lookup("concurrency"))
}

func analyze(ctx context.Context, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	conf, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	jdPath := viper.GetString("jd")
	if jdPath == "" {
		return fmt.Errorf("--jd is required")
	}
	jd, err := os.ReadFile(jdPath)
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}
	jobConfig := buildJobConfig(string(jd), conf.Job)

	var format export.Format
	out := viper.GetString("out")
	if out != "" {
		if format, err = outputFormat(out); err != nil {
			return err
		}
	}

	uploads := repository.NewUploadRepository()
	staged, skipped, err := stageDir(viper.GetString("dir"), uploads)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		logger.Debug("ignoring unsupported file", zap.String("file", name))
	}
	logger.Info("resumes staged", zap.Int("count", staged), zap.String("dir", viper.GetString("dir")))

	geminiCfg := *config.LoadGeminiConfig()
	if conf.Gemini.APIKey != "" {
		geminiCfg.APIKey = conf.Gemini.APIKey
	}
	if conf.Gemini.Model != "" {
		geminiCfg.Model = conf.Gemini.Model
	}
	if conf.Gemini.EmbeddingModel != "" {
		geminiCfg.EmbeddingModel = conf.Gemini.EmbeddingModel
	}
	gemini, err := service.NewGeminiService(ctx, &geminiCfg, logger)
	if err != nil {
		return fmt.Errorf("creating gemini client: %w", err)
	}

	var gen service.TextGenerator = gemini
	if strings.EqualFold(conf.Provider, config.ProviderOpenRouter) {
		if gen, err = service.NewOpenRouterService(config.LoadOpenRouterConfig(), logger); err != nil {
			return fmt.Errorf("creating openrouter client: %w", err)
		}
	}
	evaluator := service.NewLLMEvaluator(gen, logger)

	cacheOpts := cache.DefaultOptions()
	screening := usecase.NewScreeningUsecase(usecase.ScreeningDeps{
		Sessions:    repository.NewMemorySessionStore(1),
		Uploads:     uploads,
		Embedder:    service.NewEmbeddingService(gemini, cache.NewMemory(cacheOpts.MaxEntries, cacheOpts.DefaultTTL), logger),
		Evaluator:   evaluator,
		Roles:       evaluator,
		Logger:      logger,
		Concurrency: conf.Concurrency,
	})

	res, err := screening.Analyze(ctx, usecase.AnalyzeInput{JobConfig: jobConfig})
	if err != nil {
		return err
	}

	if err := printTable(stdout, res); err != nil {
		return err
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		if err := export.Write(f, format, res.Candidates); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		logger.Info("results written", zap.String("file", out))
	}
	return nil
}

func buildJobConfig(jd string, job JobConfig) model.JobConfiguration {
	cfg := model.DefaultJobConfiguration()
	cfg.JD = strings.TrimSpace(jd)
	cfg.Role = job.Role
	cfg.Domain = job.Domain
	cfg.Skills = job.Skills
	cfg.ExperienceRange = job.ExperienceRange
	cfg.TopN = job.TopN

	overrides := []struct {
		src *float64
		dst *float64
	}{
		{job.JDThreshold, &cfg.JDThreshold},
		{job.SkillsThreshold, &cfg.SkillsThreshold},
		{job.DomainThreshold, &cfg.DomainThreshold},
		{job.ExperienceThreshold, &cfg.ExperienceThreshold},
		{job.RejectThreshold, &cfg.RejectThreshold},
		{job.ShortlistThreshold, &cfg.ShortlistThreshold},
	}
	for _, o := range overrides {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return cfg
}

func outputFormat(path string) (export.Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f, err := export.ParseFormat(ext)
	if err != nil || ext == "" {
		return "", fmt.Errorf("--out must end in .csv or .xlsx, got %q", path)
	}
	return f, nil
}

// stageDir puts every supported file of dir into uploads and returns how many
// were staged along with the names it ignored.
func stageDir(dir string, uploads *repository.UploadRepository) (int, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, nil, fmt.Errorf("reading resume directory: %w", err)
	}

	var skipped []string
	staged := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !util.IsSupported(e.Name()) {
			skipped = append(skipped, e.Name())
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return staged, skipped, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		uploads.Put(e.Name(), data)
		staged++
	}
	sort.Strings(skipped)
	return staged, skipped, nil
}

func printTable(w io.Writer, res *usecase.AnalysisResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tNAME\tEMAIL\tSCORE\tJD\tSKILLS\tDOMAIN\tEXP\tVERDICT\tFILE\n")
	for i, c := range res.Candidates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
			i+1, c.Name, c.Email, c.Score, c.JDSimilarity, c.SkillsMatch, c.DomainMatch, c.ExperienceMatch, c.Verdict, c.ResumeFile)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Stats
	_, err := fmt.Fprintf(w, "\nrole: %s  shortlisted: %d  review: %d  rejected: %d  skipped: %d  failed: %d  time: %.2fs\n",
		res.Role, s.Shortlisted, s.UnderReview, s.Rejected, s.SkippedResumes, s.FailedEvaluations, s.ProcessingTime)
	return err
}
