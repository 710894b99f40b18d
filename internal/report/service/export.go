package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/gareline/internal/providers/document"
	"github.com/smallbiznis/gareline/internal/providers/pdf"
	"github.com/smallbiznis/gareline/internal/providers/spreadsheet"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/internal/report/domain"
	"go.uber.org/zap"
)

func (s *Service) Export(ctx context.Context, scope domain.Scope, id string, format domain.Format) (domain.ExportFile, error) {
	if !scope.Valid() {
		return domain.ExportFile{}, domain.ErrInvalidScope
	}
	if !format.Valid() {
		return domain.ExportFile{}, domain.ErrInvalidFormat
	}

	var (
		doc  document.Document
		name string
	)
	switch scope {
	case domain.ScopeGare:
		report, err := s.GareReport(ctx, id)
		if err != nil {
			return domain.ExportFile{}, err
		}
		name = report.Gare.Name
		doc = gareDocument(report)
	case domain.ScopeAgency:
		report, err := s.AgencyReport(ctx, id)
		if err != nil {
			return domain.ExportFile{}, err
		}
		name = report.Agency.Name
		doc = agencyDocument(report)
	case domain.ScopeZone:
		report, err := s.ZoneReport(ctx, id)
		if err != nil {
			return domain.ExportFile{}, err
		}
		name = report.Zone.Name
		doc = zoneDocument(report)
	}

	var (
		out         io.Reader
		err         error
		contentType string
	)
	switch format {
	case domain.FormatPDF:
		out, err = s.pdf.Render(ctx, doc)
		contentType = pdf.ContentType
	case domain.FormatXLSX:
		out, err = s.spreadsheet.Render(ctx, doc)
		contentType = spreadsheet.ContentType
	}
	if err != nil {
		s.log.Error("failed to render report", zap.String("scope", string(scope)), zap.String("format", string(format)), zap.Error(err))
		return domain.ExportFile{}, err
	}

	content, err := io.ReadAll(out)
	if err != nil {
		return domain.ExportFile{}, err
	}

	return domain.ExportFile{
		Filename:    exportFilename(scope, name, doc, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func exportFilename(scope domain.Scope, name string, doc document.Document, format domain.Format) string {
	base := slug.Make(fmt.Sprintf("rapport %s %s", scope, name))
	return fmt.Sprintf("%s-%s.%s", base, doc.GeneratedAt.UTC().Format("20060102"), format)
}

func gareDocument(report domain.GareReport) document.Document {
	doc := document.Document{
		Title:       "Rapport Gare - " + report.Gare.Name,
		GeneratedAt: report.GeneratedAt,
		Summary:     summaryFields(report.Statistics),
	}
	if report.Agency != nil {
		doc.Subtitle = "Agence: " + report.Agency.Name
		if report.Zone != nil {
			doc.Subtitle += " | Zone: " + report.Zone.Name
		}
	}
	doc.Tables = append(doc.Tables, operatorTable(report.Statistics), rechargeTable(report.Recharges))
	return doc
}

func agencyDocument(report domain.AgencyReport) document.Document {
	doc := document.Document{
		Title:       "Rapport Agence - " + report.Agency.Name,
		GeneratedAt: report.GeneratedAt,
		Summary: append([]document.Field{
			{Label: "Total gares", Value: strconv.Itoa(report.Statistics.TotalGares)},
		}, summaryFields(report.Statistics.Statistics)...),
	}
	if report.Zone != nil {
		doc.Subtitle = "Zone: " + report.Zone.Name
	}

	gares := document.Table{
		Title:   "Gares",
		Headers: []string{"Gare", "Recharges", "Coût (FCFA)", "Actives"},
	}
	for _, key := range sortedKeys(report.Statistics.GareStats) {
		stat := report.Statistics.GareStats[key]
		gares.Rows = append(gares.Rows, []string{stat.Name, strconv.Itoa(stat.Count), formatAmount(stat.Cost), strconv.Itoa(stat.Active)})
	}

	doc.Tables = append(doc.Tables, operatorTable(report.Statistics.Statistics), gares, rechargeTable(report.Recharges))
	return doc
}

func zoneDocument(report domain.ZoneReport) document.Document {
	doc := document.Document{
		Title:       "Rapport Zone - " + report.Zone.Name,
		GeneratedAt: report.GeneratedAt,
		Summary: append([]document.Field{
			{Label: "Total agences", Value: strconv.Itoa(report.Statistics.TotalAgencies)},
			{Label: "Total gares", Value: strconv.Itoa(report.Statistics.TotalGares)},
		}, summaryFields(report.Statistics.Statistics)...),
	}

	agencies := document.Table{
		Title:   "Agences",
		Headers: []string{"Agence", "Recharges", "Coût (FCFA)", "Actives", "Gares"},
	}
	for _, key := range sortedKeys(report.Statistics.AgencyStats) {
		stat := report.Statistics.AgencyStats[key]
		agencies.Rows = append(agencies.Rows, []string{
			stat.Name, strconv.Itoa(stat.Count), formatAmount(stat.Cost), strconv.Itoa(stat.Active), strconv.Itoa(stat.Gares),
		})
	}

	doc.Tables = append(doc.Tables, operatorTable(report.Statistics.Statistics), agencies, rechargeTable(report.Recharges))
	return doc
}

func summaryFields(stats domain.Statistics) []document.Field {
	return []document.Field{
		{Label: "Recharges totales", Value: strconv.Itoa(stats.TotalRecharges)},
		{Label: "Recharges actives", Value: strconv.Itoa(stats.ActiveRecharges)},
		{Label: "Recharges expirées", Value: strconv.Itoa(stats.ExpiredRecharges)},
		{Label: "Recharges expirant bientôt", Value: strconv.Itoa(stats.ExpiringRecharges)},
		{Label: "Coût total", Value: formatAmount(stats.TotalCost) + " FCFA"},
	}
}

func operatorTable(stats domain.Statistics) document.Table {
	table := document.Table{
		Title:   "Opérateurs",
		Headers: []string{"Opérateur", "Recharges", "Coût (FCFA)", "Actives"},
	}
	for _, op := range sortedKeys(stats.OperatorStats) {
		stat := stats.OperatorStats[op]
		table.Rows = append(table.Rows, []string{op, strconv.Itoa(stat.Count), formatAmount(stat.Cost), strconv.Itoa(stat.Active)})
	}
	return table
}

func rechargeTable(recharges []*rechargedomain.Recharge) document.Table {
	table := document.Table{
		Title:   "Recharges",
		Headers: []string{"Ligne", "Opérateur", "Paiement", "Début", "Fin", "Coût (FCFA)", "Statut"},
	}
	for _, r := range recharges {
		table.Rows = append(table.Rows, []string{
			r.LineNumber,
			string(r.Operator),
			string(r.PaymentType),
			r.StartDate.UTC().Format("02/01/2006"),
			r.EndDate.UTC().Format("02/01/2006"),
			formatAmount(r.Cost),
			string(r.Status),
		})
	}
	return table
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
