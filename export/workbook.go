// Package export renders fixtures and standings as an Excel workbook.
package export

import (
	"fmt"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	FixturesSheet  = "Fixtures"
	StandingsSheet = "Standings"
	BracketSheet   = "Bracket"
)

type Workbook struct {
	Title   string
	Type    models.TournamentType
	Teams   []*models.Team
	Matches []*models.Match
}

// Generate builds the workbook. A league gets a standings sheet; a knockout
// gets the shape of every round down to the final.
func Generate(w Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writeFixtures(f, w, headerStyle); err != nil {
		return nil, fmt.Errorf("writing fixtures sheet: %w", err)
	}

	switch w.Type {
	case models.TournamentTypeKnockout:
		err = writeBracket(f, len(w.Teams), headerStyle)
	default:
		err = writeStandings(f, w.Teams, headerStyle)
	}
	if err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	if w.Title != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: w.Title}); err != nil {
			return nil, fmt.Errorf("setting document title: %w", err)
		}
	}
	return f, nil
}

func writeFixtures(f *excelize.File, w Workbook, headerStyle int) error {
	if _, err := f.NewSheet(FixturesSheet); err != nil {
		return err
	}
	names := make(map[uuid.UUID]string, len(w.Teams))
	for _, t := range w.Teams {
		names[t.ID] = t.Name
	}

	if err := writeHeader(f, FixturesSheet, headerStyle, "Round", "Home", "Away", "Score", "Note"); err != nil {
		return err
	}
	for i, m := range w.Matches {
		row := []interface{}{m.Round, names[m.HomeTeamID], names[m.AwayTeamID], "", ""}
		switch {
		case m.IsBye:
			row[2] = ""
			row[4] = "bye"
		case m.Played:
			row[3] = fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
		}
		if err := setRow(f, FixturesSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(FixturesSheet, "B", "C", 24)
}

func writeStandings(f *excelize.File, teams []*models.Team, headerStyle int) error {
	if _, err := f.NewSheet(StandingsSheet); err != nil {
		return err
	}
	if err := writeHeader(f, StandingsSheet, headerStyle, "Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"); err != nil {
		return err
	}
	for i, s := range brackets.RankStandings(teams) {
		row := []interface{}{s.Position, s.TeamName, s.Played, s.Won, s.Drawn, s.Lost, s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points}
		if err := setRow(f, StandingsSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(StandingsSheet, "B", "B", 24)
}

func writeBracket(f *excelize.File, entrants int, headerStyle int) error {
	if _, err := f.NewSheet(BracketSheet); err != nil {
		return err
	}
	if err := writeHeader(f, BracketSheet, headerStyle, "Round", "Entrants", "Matches", "Byes"); err != nil {
		return err
	}
	for i, r := range brackets.BracketShape(entrants) {
		if err := setRow(f, BracketSheet, i+2, []interface{}{i + 1, r.Entrants, r.Matches, r.Byes}); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) error {
	row := make([]interface{}, len(titles))
	for i, t := range titles {
		row[i] = t
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(titles), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
