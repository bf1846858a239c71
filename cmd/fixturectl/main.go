package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/config"
	"github.com/Dosada05/league-manager/utils"
)

const defaultRosterFile = "teams.yaml"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fixturectl",
		Short: "Offline league and knockout fixture generator",
	}

	var rosterFile string
	rootCmd.PersistentFlags().StringVarP(&rosterFile, "roster", "r", defaultRosterFile, "Path to the YAML roster")

	var leagueOutput string
	leagueCmd := &cobra.Command{
		Use:          "league",
		Short:        "Print a single round robin schedule",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := config.LoadRoster(rosterFile)
			if err != nil {
				return err
			}
			return runLeague(cmd.OutOrStdout(), roster, leagueOutput)
		},
	}
	leagueCmd.Flags().StringVarP(&leagueOutput, "output", "o", "", "Also write the fixtures to this Excel file")

	var (
		knockoutOutput string
		seed           uint64
		noShuffle      bool
	)
	knockoutCmd := &cobra.Command{
		Use:          "knockout",
		Short:        "Print the first knockout round and the bracket shape",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := config.LoadRoster(rosterFile)
			if err != nil {
				return err
			}
			var shuffler brackets.Shuffler
			if cmd.Flags().Changed("seed") {
				shuffler = rand.New(rand.NewPCG(seed, seed))
			}
			return runKnockout(cmd.OutOrStdout(), roster, knockoutOutput, shuffler, !noShuffle)
		},
	}
	knockoutCmd.Flags().StringVarP(&knockoutOutput, "output", "o", "", "Also write the round to this Excel file")
	knockoutCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible draw")
	knockoutCmd.Flags().BoolVar(&noShuffle, "no-shuffle", false, "Pair teams in roster order")

	var generateOutput string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate fixtures for the type named in the roster",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := config.LoadRoster(rosterFile)
			if err != nil {
				return err
			}
			switch roster.Type {
			case "", "league":
				return runLeague(cmd.OutOrStdout(), roster, generateOutput)
			case "knockout":
				return runKnockout(cmd.OutOrStdout(), roster, generateOutput, nil, true)
			default:
				return fmt.Errorf("roster type %q is neither league nor knockout", roster.Type)
			}
		},
	}
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Also write the fixtures to this Excel file")

	hashCmd := &cobra.Command{
		Use:          "hash-password [password]",
		Short:        "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			hash, err := utils.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	rootCmd.AddCommand(leagueCmd, knockoutCmd, generateCmd, hashCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
