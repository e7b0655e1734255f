package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/player"
)

func parseMethodID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid method id %q", raw)
	}
	return id, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func gramsOrDash(g int) string {
	if g <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dg", g)
}

func clockOrDash(secs int) string {
	if secs <= 0 {
		return "-"
	}
	return player.FormatClock(secs)
}

func methodRows(methods []domain.BrewMethod) [][]string {
	rows := make([][]string, 0, len(methods))
	for _, m := range methods {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.Date,
			strconv.Itoa(len(m.Steps)),
			clockOrDash(m.TotalSeconds()),
			gramsOrDash(m.TotalWeight()),
			yesNo(len(m.IconData) > 0),
		})
	}
	return rows
}

func stepRows(steps []domain.BrewStep) [][]string {
	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Label(),
			gramsOrDash(s.Weight),
			clockOrDash(s.Seconds),
			s.Comment,
		})
	}
	return rows
}
