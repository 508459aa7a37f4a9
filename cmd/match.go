package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/history"
	"github.com/spigell/skillmatcher/internal/logger"
	"github.com/spigell/skillmatcher/internal/matching"
	"github.com/spigell/skillmatcher/internal/source"
	"github.com/spigell/skillmatcher/internal/taxonomy"
)

const (
	PromptShowGaps  = "Show gaps"
	PromptShowPlan  = "Show learning plan"
	PromptDumpJSON  = "Dump result to JSON"
	PromptQuit      = "Quit"
	defaultDumpFile = "match-result.json"
)

var errExit = errors.New("exit requested")

var matchPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowGaps, PromptShowPlan, PromptDumpJSON, PromptQuit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match one candidate against one role and report gaps and recommendations",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("candidate", "c", "", "candidate id from the candidates dataset")
	matchCmd.Flags().StringP("role", "r", "", "role id from the roles dataset")
	matchCmd.Flags().Bool("no-prompt", false, "print the report and exit without the interactive menu")
	matchCmd.MarkFlagRequired("candidate")
	matchCmd.MarkFlagRequired("role")
}

func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	candidateID, _ := cmd.Flags().GetString("candidate")
	roleID, _ := cmd.Flags().GetString("role")

	matchLog := logger.WithMatchFields(logg, candidateID, roleID)

	env, err := loadMatchEnv(config, candidateID, roleID, matchLog)
	if err != nil {
		matchLog.Fatal("loading datasets", zap.Error(err))
	}

	result, err := matching.ComputeMatch(candidateID, env.profile, env.role.RequirementSet, env.snap)
	if err != nil {
		matchLog.Fatal("computing match", zap.Error(err))
	}

	matchLog.Info("match computed",
		zap.Float64("score", result.Score),
		zap.Bool("viable", result.Viable()),
		zap.Int("mandatory_failures", len(result.MandatoryFailures)),
	)

	recordHistory(ctx, config, result, matchLog)

	printMatchReport(result, env)

	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	if noPrompt {
		return
	}

	for {
		if err := matchMenu(result, env); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			matchLog.Fatal("interactive menu", zap.Error(err))
		}
	}
}

// matchEnv bundles everything a single match needs.
type matchEnv struct {
	snap    *taxonomy.Snapshot
	role    source.Role
	profile matching.Profile
}

func loadMatchEnv(config *Config, candidateID, roleID string, logg *zap.Logger) (*matchEnv, error) {
	snap, err := loadSnapshot(config)
	if err != nil {
		return nil, err
	}

	candidatesPath, rolesPath, err := dataPaths(config)
	if err != nil {
		return nil, err
	}

	candidates, err := source.LoadCandidates(candidatesPath)
	if err != nil {
		return nil, err
	}
	candidate, ok := source.FindCandidate(candidates, candidateID)
	if !ok {
		return nil, fmt.Errorf("candidate %q not found in %s", candidateID, candidatesPath)
	}

	roles, err := source.LoadRoles(rolesPath)
	if err != nil {
		return nil, err
	}
	role, ok := source.FindRole(roles, roleID)
	if !ok {
		return nil, fmt.Errorf("role %q not found in %s", roleID, rolesPath)
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	normalized := matching.Normalize(candidate.Skills, snap)
	if normalized.Dropped > 0 {
		logg.Warn("dropped skill entries outside the taxonomy",
			zap.Int("dropped", normalized.Dropped),
		)
	}

	return &matchEnv{snap: snap, role: role, profile: normalized.Levels}, nil
}

func recordHistory(ctx context.Context, config *Config, result *matching.MatchResult, logg *zap.Logger) {
	if config == nil || config.History == nil || !config.History.Enabled {
		return
	}

	path := config.History.Path
	if path == "" {
		path = history.DefaultPath()
	}

	store, err := history.Open(path)
	if err != nil {
		logg.Warn("opening match history", zap.Error(err))
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, result)
	if err != nil {
		logg.Warn("recording match history", zap.Error(err))
		return
	}
	logg.Debug("match recorded", zap.Int64("history_id", id))
}

func printMatchReport(result *matching.MatchResult, env *matchEnv) {
	fmt.Printf("\nMatch: candidate %s vs role %s (%s)\n", result.CandidateID, result.RoleID, env.role.Title)
	fmt.Printf("Score: %.2f  Viable: %v\n\n", result.Score, result.Viable())

	for _, a := range result.Assessments {
		line := fmt.Sprintf("  %-24s required %-12s held %-12s %s", a.SkillID, a.Required, a.Held, a.Class)
		if a.Via != "" && a.Via != a.SkillID {
			line += fmt.Sprintf(" (via %s)", a.Via)
		}
		if a.Mandatory {
			line += " [mandatory]"
		}
		fmt.Println(line)
	}

	if len(result.MandatoryFailures) > 0 {
		fmt.Printf("\nDisqualifying mandatory failures: %v\n", result.MandatoryFailures)
	}

	excess := excessSkills(result, env)
	if len(excess) > 0 {
		fmt.Printf("Held but not required: %v\n", excess)
	}
	fmt.Println()
}

// excessSkills lists profile skills unrelated to any requirement.
func excessSkills(result *matching.MatchResult, env *matchEnv) []string {
	used := make(map[string]struct{}, len(result.Assessments))
	for _, a := range result.Assessments {
		if a.Via != "" {
			used[a.Via] = struct{}{}
		}
	}

	var excess []string
	for _, id := range env.snap.IDs() {
		level, ok := env.profile[id]
		if !ok || level == matching.LevelNone {
			continue
		}
		if _, ok := used[id]; !ok {
			excess = append(excess, id)
		}
	}
	return excess
}

func matchMenu(result *matching.MatchResult, env *matchEnv) error {
	_, answer, err := matchPrompt.Run()
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	switch answer {
	case PromptShowGaps:
		printGaps(matching.AnalyzeGaps(result, env.role.RequirementSet))
	case PromptShowPlan:
		gaps := matching.AnalyzeGaps(result, env.role.RequirementSet)
		printRecommendations(matching.Recommend(gaps, env.profile, env.snap))
	case PromptDumpJSON:
		if err := dumpResult(result); err != nil {
			return err
		}
		fmt.Printf("result written to %s\n", defaultDumpFile)
	case PromptQuit:
		return errExit
	}
	return nil
}

func printGaps(gaps []matching.Gap) {
	if len(gaps) == 0 {
		fmt.Println("no gaps: every requirement is met")
		return
	}
	for _, g := range gaps {
		line := fmt.Sprintf("  %-24s %s -> %s  severity %.1f", g.SkillID, g.Held, g.Required, g.Severity)
		if g.Mandatory {
			line += " [mandatory]"
		}
		fmt.Println(line)
	}
}

func printRecommendations(steps []matching.Recommendation) {
	if len(steps) == 0 {
		fmt.Println("nothing to recommend")
		return
	}
	for _, s := range steps {
		line := fmt.Sprintf("  %d. %-24s %s, ~%d weeks", s.Priority, s.SkillID, s.Rationale, s.EstimatedWeeks)
		if s.BridgeFrom != "" && s.BridgeFrom != s.SkillID {
			line += fmt.Sprintf(" (from %s)", s.BridgeFrom)
		}
		fmt.Println(line)
	}
}

func dumpResult(result *matching.MatchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(defaultDumpFile, data, 0o600)
}
