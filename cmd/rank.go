package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/logger"
	"github.com/spigell/skillmatcher/internal/matching"
	"github.com/spigell/skillmatcher/internal/ranking"
	"github.com/spigell/skillmatcher/internal/source"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates for a role, or roles for a candidate",
}

var rankCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Rank all candidates against one role, best matches first",
	Run: func(cmd *cobra.Command, _ []string) {
		runRankCandidates(cmd)
	},
}

var rankRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Rank all roles against one candidate, best matches first",
	Run: func(cmd *cobra.Command, _ []string) {
		runRankRoles(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.AddCommand(rankCandidatesCmd)
	rankCmd.AddCommand(rankRolesCmd)

	rankCandidatesCmd.Flags().StringP("role", "r", "", "role id from the roles dataset")
	rankCandidatesCmd.MarkFlagRequired("role")

	rankRolesCmd.Flags().StringP("candidate", "c", "", "candidate id from the candidates dataset")
	rankRolesCmd.MarkFlagRequired("candidate")

	for _, cmd := range []*cobra.Command{rankCandidatesCmd, rankRolesCmd} {
		cmd.Flags().IntP("top", "k", 0, "keep only the best K results (0 ranks everything)")
		cmd.Flags().Float64("min-score", 0, "drop results scoring below this value")
		cmd.Flags().Bool("viable-only", false, "drop results disqualified by a mandatory failure")
		cmd.Flags().StringP("exclude-file", "e", "", "special file with ids to exclude. Default is unset.")
	}
}

func runRankCandidates(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	snap, err := loadSnapshot(config)
	if err != nil {
		logg.Fatal("building taxonomy", zap.Error(err))
	}

	candidatesPath, rolesPath, err := dataPaths(config)
	if err != nil {
		logg.Fatal("resolving dataset paths", zap.Error(err))
	}

	roleID, _ := cmd.Flags().GetString("role")
	roles, err := source.LoadRoles(rolesPath)
	if err != nil {
		logg.Fatal("loading roles", zap.Error(err))
	}
	role, ok := source.FindRole(roles, roleID)
	if !ok {
		logg.Fatal("role not found", zap.String("role_id", roleID))
	}
	if err := role.Validate(); err != nil {
		logg.Fatal("validating role", zap.Error(err))
	}

	rawCandidates, err := source.LoadCandidates(candidatesPath)
	if err != nil {
		logg.Fatal("loading candidates", zap.Error(err))
	}

	candidates := make([]matching.Candidate, 0, len(rawCandidates))
	dropped := 0
	for _, c := range rawCandidates {
		normalized := matching.Normalize(c.Skills, snap)
		dropped += normalized.Dropped
		candidates = append(candidates, matching.Candidate{ID: c.ID, Profile: normalized.Levels})
	}
	if dropped > 0 {
		logg.Warn("dropped skill entries outside the taxonomy", zap.Int("dropped", dropped))
	}

	k := topK(cmd, config)
	ranked, err := matching.RankCandidatesForRole(ctx, role.RequirementSet, candidates, k, snap, workers(config))
	if err != nil {
		logg.Fatal("ranking candidates", zap.Error(err))
	}

	ranked, err = applyFilters(cmd, config, logg, ranked)
	if err != nil {
		logg.Fatal("filtering results", zap.Error(err))
	}

	logg.Info("ranking finished",
		zap.String("role_id", roleID),
		zap.Int("evaluated", len(candidates)),
		zap.Int("reported", len(ranked)),
	)

	printRanking("candidate", ranked)
}

func runRankRoles(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	snap, err := loadSnapshot(config)
	if err != nil {
		logg.Fatal("building taxonomy", zap.Error(err))
	}

	candidatesPath, rolesPath, err := dataPaths(config)
	if err != nil {
		logg.Fatal("resolving dataset paths", zap.Error(err))
	}

	candidateID, _ := cmd.Flags().GetString("candidate")
	rawCandidates, err := source.LoadCandidates(candidatesPath)
	if err != nil {
		logg.Fatal("loading candidates", zap.Error(err))
	}
	candidate, ok := source.FindCandidate(rawCandidates, candidateID)
	if !ok {
		logg.Fatal("candidate not found", zap.String("candidate_id", candidateID))
	}

	normalized := matching.Normalize(candidate.Skills, snap)
	if normalized.Dropped > 0 {
		logg.Warn("dropped skill entries outside the taxonomy", zap.Int("dropped", normalized.Dropped))
	}

	rawRoles, err := source.LoadRoles(rolesPath)
	if err != nil {
		logg.Fatal("loading roles", zap.Error(err))
	}
	sets := make([]matching.RequirementSet, 0, len(rawRoles))
	for _, r := range rawRoles {
		sets = append(sets, r.RequirementSet)
	}

	k := topK(cmd, config)
	ranked, skipped, err := matching.RankRolesForCandidate(ctx, candidateID, normalized.Levels, sets, k, snap, workers(config))
	if err != nil {
		logg.Fatal("ranking roles", zap.Error(err))
	}
	if skipped > 0 {
		logg.Warn("skipped roles with empty requirement sets", zap.Int("skipped", skipped))
	}

	ranked, err = applyFilters(cmd, config, logg, ranked)
	if err != nil {
		logg.Fatal("filtering results", zap.Error(err))
	}

	logg.Info("ranking finished",
		zap.String("candidate_id", candidateID),
		zap.Int("evaluated", len(sets)-skipped),
		zap.Int("reported", len(ranked)),
	)

	printRanking("role", ranked)
}

func topK(cmd *cobra.Command, config *Config) int {
	k, _ := cmd.Flags().GetInt("top")
	if k <= 0 && config != nil && config.Matching != nil {
		k = config.Matching.TopK
	}
	return k
}

func workers(config *Config) int {
	if config != nil && config.Matching != nil {
		return config.Matching.Workers
	}
	return 0
}

// applyFilters assembles the configured result filters: an explicit
// --min-score flag wins over the config value, even when set to zero.
func applyFilters(cmd *cobra.Command, config *Config, logg *zap.Logger, ranked []matching.RankedMatch) ([]matching.RankedMatch, error) {
	var steps []ranking.Filter

	minScore, _ := cmd.Flags().GetFloat64("min-score")
	if !cmd.Flags().Changed("min-score") && config != nil && config.Matching != nil {
		minScore = config.Matching.MinScore
	}
	if minScore > 0 {
		steps = append(steps, ranking.NewMinScore(minScore))
	}

	if viableOnly, _ := cmd.Flags().GetBool("viable-only"); viableOnly {
		steps = append(steps, ranking.NewViableOnly())
	}

	if excludeFile, _ := cmd.Flags().GetString("exclude-file"); excludeFile != "" {
		steps = append(steps, ranking.NewExcludeFile(excludeFile))
	}

	return ranking.Run(logg, steps, ranked)
}

func printRanking(kind string, ranked []matching.RankedMatch) {
	if len(ranked) == 0 {
		fmt.Println("no results")
		return
	}
	for i, m := range ranked {
		viable := ""
		if !m.Result.Viable() {
			viable = "  [disqualified]"
		}
		fmt.Printf("%3d. %-24s score %.2f%s\n", i+1, fmt.Sprintf("%s %s", kind, m.ID), m.Result.Score, viable)
	}
}
