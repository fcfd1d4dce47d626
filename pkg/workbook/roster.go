package workbook

import (
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"github.com/xuri/excelize/v2"
	"io"
	"strconv"
	"strings"
)

const (
	// Roster columns: full name, age, gender, primary phone, secondary phone.
	COL_FULL_NAME = iota
	COL_AGE
	COL_GENDER
	COL_PRIMARY_PHONE
	COL_SECONDARY_PHONE

	// Parser protection, a roster is a handful of lines.
	MAX_ROWS       = 50
	MAX_LEN_OF_ROW = 15
)

var (
	ErrEmptyRoster         = errors.New("roster has no participants")
	ErrTooManyParticipants = fmt.Errorf("roster lists more than %d participants", registration.MAX_TEAM_SIZE)
	ErrRosterTooLarge      = fmt.Errorf("roster has more than %d rows", MAX_ROWS)
	errRowTooLong          = errors.New("row has too many cells")
)

// ParseRoster reads participants from the first sheet of an .xlsx file. An
// optional header row is detected by a non numeric age cell and skipped.
func ParseRoster(r io.Reader) ([]registration.Participant, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader failed: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyRoster
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("f.GetRows failed: %w", err)
	}
	if len(rows) > MAX_ROWS {
		return nil, ErrRosterTooLarge
	}

	var out []registration.Participant
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if len(row) > MAX_LEN_OF_ROW {
			return nil, fmt.Errorf("row %d: %w", i+1, errRowTooLong)
		}
		if i == 0 && isHeader(row) {
			continue
		}

		p, err := rowToParticipant(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, ErrEmptyRoster
	}
	if len(out) > registration.MAX_TEAM_SIZE {
		return nil, ErrTooManyParticipants
	}

	return out, nil
}

func rowToParticipant(row []string) (registration.Participant, error) {
	p := registration.DefaultParticipant()
	p.FullName = cell(row, COL_FULL_NAME)

	if age := cell(row, COL_AGE); age != "" {
		v, err := strconv.Atoi(age)
		if err != nil {
			return p, fmt.Errorf("strconv.Atoi failed: %w", err)
		}
		p.Age = v
	}

	if g := cell(row, COL_GENDER); g != "" {
		gender, err := registration.ParseGender(g)
		if err != nil {
			return p, err
		}
		p.Gender = gender
	}

	p.PrimaryPhone = cell(row, COL_PRIMARY_PHONE)
	p.SecondaryPhone = cell(row, COL_SECONDARY_PHONE)
	return p, nil
}

func isHeader(row []string) bool {
	_, err := strconv.Atoi(cell(row, COL_AGE))
	return cell(row, COL_AGE) != "" && err != nil
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
