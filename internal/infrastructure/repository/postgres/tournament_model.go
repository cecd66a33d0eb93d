package postgres

import (
	"time"

	"github.com/courtdata/atp-proxy/internal/domain/tournament"
)

type tournamentTableModel struct {
	TournamentID string    `db:"tournament_id"`
	Name         string    `db:"name"`
	StartDate    string    `db:"start_date"`
	EndDate      string    `db:"end_date"`
	Location     string    `db:"location"`
	Category     string    `db:"category"`
	SeasonYear   int       `db:"season_year"`
	SglDrawSize  int       `db:"sgl_draw_size"`
	DblDrawSize  int       `db:"dbl_draw_size"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type tournamentInsertModel struct {
	TournamentID string `db:"tournament_id"`
	Name         string `db:"name"`
	StartDate    string `db:"start_date"`
	EndDate      string `db:"end_date"`
	Location     string `db:"location"`
	Category     string `db:"category"`
	SeasonYear   int    `db:"season_year"`
	SglDrawSize  int    `db:"sgl_draw_size"`
	DblDrawSize  int    `db:"dbl_draw_size"`
}

func (m tournamentTableModel) toRecord() tournament.Record {
	return tournament.Record{
		TournamentID: m.TournamentID,
		Name:         m.Name,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Location:     m.Location,
		Category:     m.Category,
		SeasonYear:   m.SeasonYear,
		SglDrawSize:  m.SglDrawSize,
		DblDrawSize:  m.DblDrawSize,
	}
}

func insertModelFromRecord(record tournament.Record) tournamentInsertModel {
	return tournamentInsertModel{
		TournamentID: record.TournamentID,
		Name:         record.Name,
		StartDate:    record.StartDate,
		EndDate:      record.EndDate,
		Location:     record.Location,
		Category:     record.Category,
		SeasonYear:   record.SeasonYear,
		SglDrawSize:  record.SglDrawSize,
		DblDrawSize:  record.DblDrawSize,
	}
}
