package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// statusRow is one line of the status table.
type statusRow struct {
	Name      string
	Version   string
	Strategy  string
	Installed bool
	Path      string
}

func collectStatus(s *session) []statusRow {
	var rows []statusRow
	for _, d := range s.ledger.Packages() {
		inst, _ := s.ledger.Installation(d)
		rows = append(rows, statusRow{
			Name:      d.DisplayName(),
			Version:   d.Version,
			Strategy:  inst.Kind.String(),
			Installed: s.solver.IsInstalled(s.ledger, d),
			Path:      s.solver.GetInstallPath(d),
		})
	}
	return rows
}

func renderStatus(rows []statusRow) (string, error) {
	data := pterm.TableData{{"PACKAGE", "VERSION", "STRATEGY", "STATE", "PATH"}}
	for _, r := range rows {
		data = append(data, []string{r.Name, r.Version, r.Strategy, formatState(r.Installed), r.Path})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatState colours the installed state when writing to a terminal
func formatState(installed bool) string {
	state, style := "ok", pterm.NewStyle(pterm.FgGreen)
	if !installed {
		state, style = "broken", pterm.NewStyle(pterm.FgRed, pterm.Bold)
	}
	if !isTerminal() {
		return state
	}
	return style.Sprint(state)
}

// formatError renders an error with its code, if it has one
func formatError(err error) string {
	if err == nil {
		return ""
	}
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
	}
	return fmt.Sprintf("%s Error [%s]: %s",
		pterm.Error.Prefix.Text,
		pterm.Error.MessageStyle.Sprint(string(code)),
		err.Error())
}
