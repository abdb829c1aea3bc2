package messages

import (
	"fmt"
	"strings"

	"max.ks1230/expense-tracker/internal/model/reports"
)

const commandParts = 2

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if len(split) == commandParts && strings.HasPrefix(split[0], "/") {
		return trimBotName(split[0]), strings.TrimSpace(split[1])
	}
	if strings.HasPrefix(text, "/") {
		return trimBotName(text), ""
	}
	return "", text
}

// trimBotName turns "/report@tracker_bot" into "/report".
func trimBotName(cmd string) string {
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		return cmd[:i]
	}
	return cmd
}

func formatReport(report *reports.CategoryReport) string {
	res := make([]string, 0, len(report.Records)+2)
	for _, rec := range report.Records {
		res = append(res, fmt.Sprintf("%s: %s", rec.Category, rec.Amount.StringFixed(2)))
	}
	res = append(res, "", fmt.Sprintf("Total: %s %s", report.Total.StringFixed(2), report.Currency))
	return strings.Join(res, "\n")
}
