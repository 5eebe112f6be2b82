package audits

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// Mailer is the outbound mail dependency of EmailNotifier.
type Mailer interface {
	SendEmail(ctx context.Context, subject string, to []string, plainTextContent, htmlContent string) error
}

// EmailNotifier mails a variance summary when a session closes.
type EmailNotifier struct {
	mailer     Mailer
	recipients []string
}

func NewEmailNotifier(mailer Mailer, recipients []string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, recipients: recipients}
}

func (n *EmailNotifier) NotifyClosed(ctx context.Context, session Session, v Variance) error {
	subject := fmt.Sprintf("Audit #%d closed: %d missing, %d extra, %d moved",
		session.ID, len(v.Missing), len(v.Extra), len(v.Moved))
	plain, htmlBody := renderSummary(session, v)
	return n.mailer.SendEmail(ctx, subject, n.recipients, plain, htmlBody)
}

func renderSummary(session Session, v Variance) (string, string) {
	location := "all locations"
	if session.LocationName != nil {
		location = *session.LocationName
	}

	var plain, rich strings.Builder
	fmt.Fprintf(&plain, "Audit #%d of %s closed.\n", session.ID, location)
	fmt.Fprintf(&plain, "Expected %d, scanned %d.\n", v.Expected, v.Scanned)
	fmt.Fprintf(&rich, "<p>Audit #%d of %s closed.</p><p>Expected %d, scanned %d.</p>",
		session.ID, html.EscapeString(location), v.Expected, v.Scanned)

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&plain, "\n%s (%d):\n", title, len(lines))
		fmt.Fprintf(&rich, "<h3>%s (%d)</h3><ul>", title, len(lines))
		for _, l := range lines {
			fmt.Fprintf(&plain, "  - %s\n", l)
			fmt.Fprintf(&rich, "<li>%s</li>", html.EscapeString(l))
		}
		rich.WriteString("</ul>")
	}

	section("Missing", assetLines(v.Missing))
	section("Extra", assetLines(v.Extra))

	moved := make([]string, 0, len(v.Moved))
	for _, e := range v.Moved {
		moved = append(moved, fmt.Sprintf("%s %s: recorded at %s, found at %s",
			e.Asset.AssetTag, e.Asset.Name, orNone(e.Asset.LocationName), orNone(e.FoundLocationName)))
	}
	section("Moved", moved)

	return plain.String(), rich.String()
}

func assetLines(list []AssetRef) []string {
	lines := make([]string, 0, len(list))
	for _, a := range list {
		lines = append(lines, fmt.Sprintf("%s %s", a.AssetTag, a.Name))
	}
	return lines
}

func orNone(s *string) string {
	if s == nil {
		return "none"
	}
	return *s
}
