package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/gareline/internal/report/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

const (
	defaultShareType = "general"
	whatsAppBaseURL  = "https://wa.me/"
)

// FormatWhatsAppMessage renders the share text for a statistics block.
func FormatWhatsAppMessage(req domain.ShareRequest, now time.Time) string {
	reportType := strings.TrimSpace(req.Type)
	if reportType == "" {
		reportType = defaultShareType
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Rapport %s - %s*\n", strings.ToUpper(reportType), req.EntityName)
	fmt.Fprintf(&b, "📅 Généré le: %s\n", now.UTC().Format("02/01/2006 à 15:04"))
	b.WriteString("\n📈 *Statistiques:*\n")
	fmt.Fprintf(&b, "• Recharges totales: %s\n", statValue(req.Statistics, "total_recharges"))
	fmt.Fprintf(&b, "• Recharges actives: %s\n", statValue(req.Statistics, "active_recharges"))
	fmt.Fprintf(&b, "• Recharges expirées: %s\n", statValue(req.Statistics, "expired_recharges"))
	fmt.Fprintf(&b, "• Recharges expirant bientôt: %s\n", statValue(req.Statistics, "expiring_recharges"))
	fmt.Fprintf(&b, "• Coût total: %s FCFA\n", formatAmount(statNumber(req.Statistics, "total_cost")))
	b.WriteString("\n🏢 Système de gestion des recharges - Burkina Faso")
	return b.String()
}

// WhatsAppURL builds a wa.me deep link. The phone keeps digits only.
func WhatsAppURL(phone, message string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return 'x'
	}, strings.TrimSpace(phone))
	if digits == "" || strings.ContainsRune(digits, 'x') {
		return "", domain.ErrInvalidPhoneNumber
	}
	return whatsAppBaseURL + digits + "?text=" + quote(message), nil
}

func statValue(stats map[string]any, key string) string {
	switch v := stats[key].(type) {
	case nil:
		return "0"
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func statNumber(stats map[string]any, key string) float64 {
	switch v := stats[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// formatAmount rounds to a whole number of FCFA and groups thousands with commas.
func formatAmount(v float64) string {
	return amountPrinter.Sprintf("%d", int64(math.Round(v)))
}

// quote percent-encodes everything except unreserved characters and '/'.
func quote(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}
