package telegram

import (
	"fmt"
	"strings"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/shopping"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// bold wraps s in an entity. Legacy Markdown has no escapes inside entities,
// so markup characters are dropped instead.
func bold(s string) string {
	return "*" + strings.NewReplacer("_", " ", "*", "", "`", "", "[", "").Replace(s) + "*"
}

func recipes(d app.DayView) string {
	refs := append(append([]string{}, d.Juices...), d.Meals...)
	if len(refs) == 0 {
		return "fasting"
	}
	return escape(strings.Join(refs, ", "))
}

func formatPlan(days []app.DayView) string {
	var sb strings.Builder
	sb.WriteString("📅 *Meal Plan*\n")

	phase := ""
	for _, d := range days {
		if d.Phase != phase {
			phase = d.Phase
			sb.WriteString("\n" + bold(phase) + "\n")
		}
		sb.WriteString(fmt.Sprintf("Day %d: %s", d.Day, recipes(d)))
		if d.Note != "" {
			sb.WriteString(" 📝")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatDay(d app.DayView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Day %d* (%s)\n", d.Day, escape(d.Phase)))
	sb.WriteString(recipes(d))
	sb.WriteString("\n")

	// User text stays outside entities: legacy Markdown cannot escape inside one.
	if d.Note != "" {
		sb.WriteString(fmt.Sprintf("\n📝 %s\n", escape(d.Note)))
	} else {
		sb.WriteString(fmt.Sprintf("\nNo note yet. `/note %d ...`\n", d.Day))
	}
	if d.CoachText != "" {
		sb.WriteString(fmt.Sprintf("\n🧘 %s\n", escape(d.CoachText)))
	}
	return sb.String()
}

func formatGroceries(res shopping.Result) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n\n")

	items := res.SortedByName()
	if len(items) == 0 {
		sb.WriteString("_Nothing to buy._")
		return sb.String()
	}

	for _, item := range items {
		cost := "n/a"
		if item.EstCost != nil {
			cost = "$" + item.EstCost.String()
		}
		sb.WriteString(fmt.Sprintf("• %s: %s %s (%s)\n", escape(item.Name), humanize.Ftoa(item.Qty), escape(item.Unit), cost))
	}
	sb.WriteString(fmt.Sprintf("\n*Total:* $%s", res.Total()))

	if n := len(res.Advisories); n > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d data %s, see the web UI for details.", n, plural(n, "note", "notes")))
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatMetrics(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Coach Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d %s (avg note %.0f chars)\n",
			d.Date, d.Invocations, plural(d.Invocations, "check-in", "check-ins"), d.AvgNoteChars))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %s (Alloc) / %s (Sys)\n", humanize.Bytes(health.AllocBytes), humanize.Bytes(health.SysBytes)))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
