package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatcher/internal/logger"
	"github.com/spigell/skillmatcher/internal/matching"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Report skill gaps and a learning plan for a candidate against a role",
	Run: func(cmd *cobra.Command, _ []string) {
		runGaps(cmd)
	},
}

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().StringP("candidate", "c", "", "candidate id from the candidates dataset")
	gapsCmd.Flags().StringP("role", "r", "", "role id from the roles dataset")
	gapsCmd.MarkFlagRequired("candidate")
	gapsCmd.MarkFlagRequired("role")
	gapsCmd.Flags().Bool("plan", false, "include bridging recommendations with effort estimates")
}

func runGaps(cmd *cobra.Command) {
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
	logg = logger.WithMatchFields(logg, candidateID, roleID)

	env, err := loadMatchEnv(config, candidateID, roleID, logg)
	if err != nil {
		logg.Fatal("preparing match inputs", zap.Error(err))
	}

	result, err := matching.ComputeMatch(candidateID, env.profile, env.role.RequirementSet, env.snap)
	if err != nil {
		logg.Fatal("computing match", zap.Error(err))
	}

	gaps := matching.AnalyzeGaps(result, env.role.RequirementSet)
	logg.Info("gap analysis finished",
		zap.Float64("score", result.Score),
		zap.Int("gaps", len(gaps)),
	)

	printGaps(gaps)

	if plan, _ := cmd.Flags().GetBool("plan"); plan && len(gaps) > 0 {
		fmt.Println()
		printRecommendations(matching.Recommend(gaps, env.profile, env.snap))
	}
}
