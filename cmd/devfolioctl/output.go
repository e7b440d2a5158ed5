package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vedran77/devfolio/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	expired     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("9"))
)

var (
	profileHeaders     = []string{"USERNAME", "NAME", "OWNER", "PROJECTS", "CERTS"}
	projectHeaders     = []string{"VOTES", "TITLE", "TECHNOLOGIES", "OWNER", "ID"}
	certificateHeaders = []string{"TITLE", "ORGANIZATION", "ISSUED", "EXPIRES", "STATUS"}
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && headers[col] == "STATUS" && rows[row][col] == domain.StatusExpired {
				return expired
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func profileRows(profiles []domain.Profile) [][]string {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.Username,
			p.Name,
			shortID(p.Owner),
			strconv.Itoa(len(p.ProjectIDs)),
			strconv.Itoa(len(p.CertificateIDs)),
		})
	}
	return rows
}

func projectRows(projects []domain.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.FormatUint(p.VoteCount, 10),
			p.Title,
			strings.Join(p.Technologies, ", "),
			shortID(p.Owner),
			p.ID,
		})
	}
	return rows
}

func certificateRows(certs []domain.Certificate) [][]string {
	rows := make([][]string, 0, len(certs))
	for _, c := range certs {
		expires := c.ExpiryDate
		if expires == "" {
			expires = "-"
		}
		rows = append(rows, []string{c.Title, c.Organization, c.IssueDate, expires, c.Status})
	}
	return rows
}

// shortID abbreviates a 0x-prefixed id as 0x1234…abcd.
func shortID(id string) string {
	if len(id) <= 14 {
		return id
	}
	return id[:6] + "…" + id[len(id)-4:]
}
