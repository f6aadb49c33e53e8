package report

import (
	"fmt"
	"strings"

	"wxballoon/internal/models"
)

// Report is the rendered forecast: a notification title and body plus the
// single-line console summary.
type Report struct {
	Title   string
	Body    string
	Console string
}

func Format(snapshot models.WeatherSnapshot, fullAddress string) Report {
	today, tomorrow := snapshot.Forecast.Today, snapshot.Forecast.Tomorrow

	body := fmt.Sprintf("今日：%s\n明日：%s", today, tomorrow)
	console := fmt.Sprintf("[%s]の天気 今日：%s(%d°C/%d°C) 明日：%s(%d°C/%d°C)",
		fullAddress,
		today.Condition, today.MaxTempC, today.MinTempC,
		tomorrow.Condition, tomorrow.MaxTempC, tomorrow.MinTempC,
	)

	return Report{
		Title:   title(console),
		Body:    body,
		Console: console,
	}
}

// title is everything before the first ASCII space of the console line.
// An address containing a space truncates the title there.
func title(console string) string {
	return strings.SplitN(console, " ", 2)[0]
}
