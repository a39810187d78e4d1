package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.Serbian)

// FormatRSD renders an amount with Serbian digit grouping, e.g. "80.000 RSD"
// or "1.500,50 RSD".
func FormatRSD(d decimal.Decimal) string {
	if d.IsInteger() {
		return amountPrinter.Sprintf("%d RSD", d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return amountPrinter.Sprintf("%.2f RSD", f)
}

// formatDate renders t the way the sr-RS locale prints short dates.
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d.%d.%d.", t.Day(), int(t.Month()), t.Year())
}

// weekTitle is the week designation used in export titles and file names.
func weekTitle(offset int) string {
	switch {
	case offset == 0:
		return "TRENUTNA"
	case offset > 0:
		return fmt.Sprintf("+%d", offset)
	default:
		return fmt.Sprintf("%d", offset)
	}
}

func rule(ch string, n int) string {
	return strings.Repeat(ch, n) + "\n"
}

// personLine renders "   • name (position) - 📞 phone", omitting what is unknown.
func personLine(name, position, phone string) string {
	var b strings.Builder
	b.WriteString("   • ")
	b.WriteString(name)
	if position != "" {
		fmt.Fprintf(&b, " (%s)", position)
	}
	if phone != "" {
		fmt.Fprintf(&b, " - 📞 %s", phone)
	}
	b.WriteString("\n")
	return b.String()
}
