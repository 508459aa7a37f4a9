package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/skillmatcher/internal/ai"
	"github.com/spigell/skillmatcher/internal/ai/gemini"
	"github.com/spigell/skillmatcher/internal/logger"
	"github.com/spigell/skillmatcher/internal/matching"
	"github.com/spigell/skillmatcher/internal/secrets"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a skill profile from resume text using Gemini",
	Run: func(cmd *cobra.Command, _ []string) {
		runExtract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("resume", "f", "", "path to a plain-text resume file")
	extractCmd.MarkFlagRequired("resume")
	extractCmd.Flags().String("id", "", "candidate id to emit in the profile (default is the resume file name)")
	extractCmd.Flags().StringP("output", "o", "", "write the profile YAML to this file instead of stdout")
}

func runExtract(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.AI == nil || config.AI.Gemini == nil {
		logg.Fatal("gemini is not configured under the 'ai.gemini' key")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		logg.Fatal("loading gemini api key", zap.Error(err))
	}

	snap, err := loadSnapshot(config)
	if err != nil {
		logg.Fatal("building taxonomy", zap.Error(err))
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	resume, err := os.ReadFile(resumePath)
	if err != nil {
		logg.Fatal("reading resume file", zap.Error(err))
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		logg.Fatal("creating gemini client", zap.Error(err))
	}
	logg.Debug("gemini client ready", zap.String("model", generator.Model()))

	extractor := gemini.NewExtractor(generator, snap, logg, config.AI.Gemini.MaxLogLength)
	extraction, err := extractor.Extract(ctx, string(resume))
	if err != nil {
		logg.Fatal("extracting skills", zap.Error(err))
	}

	entries, dropped := toEntries(extraction.Tags)
	normalized := matching.Normalize(entries, snap)

	logg.Info("extraction finished",
		zap.Int("tags", len(extraction.Tags)),
		zap.Int("unparsed_levels", dropped),
		zap.Int("outside_taxonomy", normalized.Dropped),
		zap.Int("skills", len(normalized.Levels)),
	)

	candidateID, _ := cmd.Flags().GetString("id")
	if candidateID == "" {
		candidateID = defaultCandidateID(resumePath)
	}

	out, err := profileYAML(candidateID, normalized.Levels)
	if err != nil {
		logg.Fatal("encoding profile", zap.Error(err))
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(outputPath, []byte(out), 0o600); err != nil {
		logg.Fatal("writing profile file", zap.Error(err))
	}
	logg.Info("profile written", zap.String("file", outputPath))
}

// defaultCandidateID derives an id from the resume file name, without
// the directory or extension.
func defaultCandidateID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// toEntries converts raw extraction tags into profile entries, counting
// tags whose level name does not parse.
func toEntries(tags []ai.SkillTag) ([]matching.Entry, int) {
	entries := make([]matching.Entry, 0, len(tags))
	dropped := 0
	for _, tag := range tags {
		level, err := matching.ParseLevel(tag.Level)
		if err != nil {
			dropped++
			continue
		}
		entries = append(entries, matching.Entry{SkillID: tag.Skill, Level: level})
	}
	return entries, dropped
}

// profileYAML renders a candidates-file fragment so the output can be
// appended to an existing dataset.
func profileYAML(candidateID string, profile matching.Profile) (string, error) {
	type entry struct {
		Skill string `yaml:"skill"`
		Level string `yaml:"level"`
	}
	type candidate struct {
		ID     string  `yaml:"id"`
		Skills []entry `yaml:"skills"`
	}

	c := candidate{ID: candidateID}
	for _, id := range sortedProfileIDs(profile) {
		c.Skills = append(c.Skills, entry{Skill: id, Level: profile[id].String()})
	}

	data, err := yaml.Marshal(struct {
		Candidates []candidate `yaml:"candidates"`
	}{Candidates: []candidate{c}})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedProfileIDs(profile matching.Profile) []string {
	ids := make([]string, 0, len(profile))
	for id := range profile {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
