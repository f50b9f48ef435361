package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"curriculum/internal/catalog"
	"curriculum/internal/curriculum"
	"curriculum/internal/graph"
	"curriculum/internal/testsuite"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List imported tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				tracks, err := store.ListTracks(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "No tracks imported")
					return nil
				}
				rows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					missions, err := store.ListMissions(cmd.Context(), track.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						track.ID,
						track.Title,
						strconv.Itoa(len(missions)),
						strconv.Itoa(track.DefaultReward),
						strings.Join(track.DefaultLanguages, ", "),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Missions", "Reward", "Languages"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newMissionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "missions <track-id>",
		Short: "List a track's missions in prerequisite order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trackID := strings.TrimSpace(args[0])
			return ctx.withCatalog(func(store *catalog.Store) error {
				track, err := store.GetTrack(cmd.Context(), trackID)
				if err != nil {
					return err
				}
				if track == nil {
					return fmt.Errorf("track %q not found", trackID)
				}
				missions, err := store.ListMissions(cmd.Context(), track.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(missions) == 0 {
					fmt.Fprintf(out, "Track %s has no missions\n", track.ID)
					return nil
				}
				ordered, deps := orderMissions(missions)
				rows := make([][]string, 0, len(ordered))
				for i, mission := range ordered {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						mission.ID,
						mission.Title,
						strings.Join(deps.Parents(mission.ID), ", "),
						strconv.Itoa(deps.Descendants(mission.ID)),
						strconv.Itoa(mission.SolveReward),
						strings.Join(mission.Languages, ", "),
						strconv.Itoa(len(mission.TestSuite)),
						strconv.Itoa(len(mission.Stars)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "ID", "Title", "Requires", "Unlocks", "Reward", "Languages", "Tests", "Stars"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newTestsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tests <mission-id>",
		Short: "Print a mission's test suite in tests.txt format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionID := strings.TrimSpace(args[0])
			return ctx.withCatalog(func(store *catalog.Store) error {
				mission, err := store.GetMission(cmd.Context(), missionID)
				if err != nil {
					return err
				}
				if mission == nil {
					return fmt.Errorf("mission %q not found", missionID)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), testsuite.Format(mission.TestSuite))
				return err
			})
		},
	}
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No import runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					finished := "-"
					if run.FinishedAt != nil {
						finished = run.FinishedAt.Local().Format(time.DateTime)
					}
					rows = append(rows, []string{
						run.ID,
						run.StartedAt.Local().Format(time.DateTime),
						finished,
						yesNo(run.DryRun),
						strconv.Itoa(run.Tracks),
						strconv.Itoa(run.Missions),
						strconv.Itoa(run.Errors),
						strconv.Itoa(run.Warnings),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Finished", "Dry run", "Tracks", "Missions", "Errors", "Warnings"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show (0 for all)")
	return cmd
}

// orderMissions sorts missions so every mission follows its parents and
// returns the prerequisite graph it built. Ties keep the catalog order.
// Parents outside the list are ignored.
func orderMissions(missions []*curriculum.Mission) ([]*curriculum.Mission, *graph.Graph) {
	deps := graph.New()
	byID := make(map[string]*curriculum.Mission, len(missions))
	for _, mission := range missions {
		if _, err := deps.AddNode(mission.ID); err != nil {
			continue
		}
		byID[mission.ID] = mission
	}
	for _, mission := range missions {
		for _, parent := range mission.Parents {
			if !deps.Has(parent) {
				continue
			}
			_ = deps.AddEdge(parent, mission.ID)
		}
	}
	ordered := make([]*curriculum.Mission, 0, deps.Len())
	for _, id := range deps.TopologicalOrder() {
		ordered = append(ordered, byID[id])
	}
	return ordered, deps
}
