package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/navikt/roomalloc/internal/models"
	"github.com/navikt/roomalloc/internal/scenario"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scenarioFile string // Path to the YAML scenario

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a YAML booking scenario and print the resulting grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(scenarioFile)
		if err != nil {
			return err
		}

		session, err := s.NewSession()
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"file":  scenarioFile,
			"steps": len(s.Steps),
			"seed":  s.Seed,
		}).Info("Running scenario")

		out := cmd.OutOrStdout()
		for _, res := range s.Run(session) {
			fmt.Fprintln(out, res.String())
		}

		fmt.Fprintln(out)
		printGrid(out, session.Grid())
		fmt.Fprintf(out, "\n%d of %d rooms available\n", session.AvailableCount(), session.Building().Total())
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&scenarioFile, "file", "f", "scenario.yaml", "Scenario file to replay")
}

var statusMarks = map[models.RoomStatus]string{
	models.RoomStatusAvailable: ".",
	models.RoomStatusBookedNow: "*",
	models.RoomStatusBooked:    "x",
}

// printGrid writes one line per floor, top floor first
func printGrid(w io.Writer, grid []models.FloorView) {
	for _, floor := range grid {
		cells := make([]string, len(floor.Rooms))
		for i, room := range floor.Rooms {
			cells[i] = fmt.Sprintf("%4s%s", room.ID, statusMarks[room.Status])
		}
		fmt.Fprintf(w, "floor %2d |%s\n", floor.Floor, strings.Join(cells, " "))
	}
	fmt.Fprintln(w, "legend: . available  * latest booking  x booked")
}
