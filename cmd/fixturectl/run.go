package main

import (
	"fmt"
	"io"

	"github.com/Dosada05/league-manager/brackets"
	"github.com/Dosada05/league-manager/config"
	"github.com/Dosada05/league-manager/export"
	"github.com/Dosada05/league-manager/models"
	"github.com/google/uuid"
)

type draft struct {
	tournament *models.Tournament
	names      map[uuid.UUID]string
	ids        []uuid.UUID
}

func newDraft(roster *config.Roster, typ models.TournamentType) *draft {
	d := &draft{
		tournament: &models.Tournament{ID: uuid.New(), Name: roster.Name, Type: typ},
		names:      make(map[uuid.UUID]string, len(roster.Teams)),
	}
	for _, name := range roster.Teams {
		team := &models.Team{ID: uuid.New(), TournamentID: d.tournament.ID, Name: name}
		d.tournament.Teams = append(d.tournament.Teams, team)
		d.names[team.ID] = name
		d.ids = append(d.ids, team.ID)
	}
	return d
}

func runLeague(out io.Writer, roster *config.Roster, outputPath string) error {
	d := newDraft(roster, models.TournamentTypeLeague)
	matches, err := brackets.NewRoundRobinGenerator(nil).GenerateBracket(brackets.GenerateBracketParams{
		TournamentID: d.tournament.ID,
		TeamIDs:      d.ids,
		Round:        1,
	})
	if err != nil {
		return err
	}
	d.tournament.Matches = matches

	fmt.Fprintf(out, "%s: league, %d teams, %d rounds, %d matches\n",
		roster.Name, len(d.ids), brackets.RoundCount(len(d.ids)), len(matches))
	round := 0
	for _, m := range matches {
		if m.Round != round {
			round = m.Round
			fmt.Fprintf(out, "\nRound %d\n", round)
		}
		fmt.Fprintf(out, "  %s vs %s\n", d.names[m.HomeTeamID], d.names[m.AwayTeamID])
	}
	return d.save(outputPath, out)
}

func runKnockout(out io.Writer, roster *config.Roster, outputPath string, shuffler brackets.Shuffler, shuffle bool) error {
	d := newDraft(roster, models.TournamentTypeKnockout)
	matches, err := brackets.NewSingleEliminationGenerator(nil, shuffler).GenerateBracket(brackets.GenerateBracketParams{
		TournamentID: d.tournament.ID,
		TeamIDs:      d.ids,
		Round:        1,
		Shuffle:      shuffle,
	})
	if err != nil {
		return err
	}
	d.tournament.Matches = matches

	fmt.Fprintf(out, "%s: knockout, %d teams\n\nRound 1\n", roster.Name, len(d.ids))
	for _, m := range matches {
		if m.IsBye {
			fmt.Fprintf(out, "  %s advances (bye)\n", d.names[m.HomeTeamID])
			continue
		}
		fmt.Fprintf(out, "  %s vs %s\n", d.names[m.HomeTeamID], d.names[m.AwayTeamID])
	}

	fmt.Fprintln(out, "\nBracket")
	for i, r := range brackets.BracketShape(len(d.ids)) {
		fmt.Fprintf(out, "  Round %d: %d entrants, %d matches, %d byes\n", i+1, r.Entrants, r.Matches, r.Byes)
	}
	return d.save(outputPath, out)
}

func (d *draft) save(path string, out io.Writer) error {
	if path == "" {
		return nil
	}
	f, err := export.Generate(export.Workbook{
		Title:   d.tournament.Name,
		Type:    d.tournament.Type,
		Teams:   d.tournament.Teams,
		Matches: d.tournament.Matches,
	})
	if err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "\nWrote %s\n", path)
	return nil
}
