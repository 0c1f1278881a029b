package report

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/seller-insights/internal/model"
)

// WriteXLSX exports the report as a workbook with Health, Advice, Roadmap,
// Logistics, and Market sheets.
func WriteXLSX(r SellerReport, path string) error {
	f := xlsx.NewFile()

	if err := addHealthSheet(f, r); err != nil {
		return err
	}
	if err := addAdviceSheet(f, r.Advice); err != nil {
		return err
	}
	if err := addRoadmapSheet(f, r.Roadmap); err != nil {
		return err
	}
	if err := addLogisticsSheet(f, r.Logistics); err != nil {
		return err
	}
	if err := addMarketSheet(f, r.Market); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save workbook %s", path)
}

func addHealthSheet(f *xlsx.File, r SellerReport) error {
	sheet, err := f.AddSheet("Health")
	if err != nil {
		return eris.Wrap(err, "report: add health sheet")
	}
	m := r.Metrics

	addStringRow(sheet, "seller_id", m.SellerID)
	addStringRow(sheet, "state", m.SellerState)
	addFloatRow(sheet, "health_score", r.Health.Score)
	addStringRow(sheet, "grade", r.Health.Grade)
	for _, d := range dimensionOrder {
		addFloatRow(sheet, "dim_"+d.key, r.Health.Dimensions[d.key])
	}
	addFloatRow(sheet, "total_revenue", m.TotalRevenue)
	addIntRow(sheet, "total_orders", m.TotalOrders)
	addFloatRow(sheet, "avg_review", m.AvgReview)
	addFloatRow(sheet, "late_delivery_pct", m.LateDeliveryPct)
	addFloatRow(sheet, "avg_delivery_days", m.AvgDeliveryDays)
	addFloatRow(sheet, "cancel_rate", m.CancelRate)
	addFloatRow(sheet, "repeat_customer_rate", m.RepeatCustomerRate)
	return nil
}

func addAdviceSheet(f *xlsx.File, advice []model.Advice) error {
	sheet, err := f.AddSheet("Advice")
	if err != nil {
		return eris.Wrap(err, "report: add advice sheet")
	}
	addHeaderRow(sheet, "priority", "category", "title", "current", "target", "description", "actions", "expected_effect")
	for _, a := range advice {
		row := sheet.AddRow()
		row.AddCell().Value = string(a.Priority)
		row.AddCell().Value = a.Category
		row.AddCell().Value = a.Title
		row.AddCell().Value = a.CurrentValue
		row.AddCell().Value = a.TargetValue
		row.AddCell().Value = a.Description
		row.AddCell().Value = strings.Join(a.Actions, "\n")
		row.AddCell().Value = a.ExpectedEffect
	}
	return nil
}

func addRoadmapSheet(f *xlsx.File, roadmap []model.RoadmapPhase) error {
	sheet, err := f.AddSheet("Roadmap")
	if err != nil {
		return eris.Wrap(err, "report: add roadmap sheet")
	}
	addHeaderRow(sheet, "phase", "label", "goal")
	for _, p := range roadmap {
		for _, g := range p.Goals {
			row := sheet.AddRow()
			row.AddCell().Value = p.Phase
			row.AddCell().Value = p.Label
			row.AddCell().Value = g
		}
	}
	return nil
}

func addLogisticsSheet(f *xlsx.File, lr *model.LogisticsResult) error {
	sheet, err := f.AddSheet("Logistics")
	if err != nil {
		return eris.Wrap(err, "report: add logistics sheet")
	}
	addHeaderRow(sheet, "scenario", "warehouses", "avg_distance_km", "est_freight", "est_days")
	if lr == nil || !lr.HasData {
		return nil
	}
	for _, s := range lr.Scenarios {
		row := sheet.AddRow()
		row.AddCell().Value = s.Scenario
		row.AddCell().SetInt(s.Warehouses)
		row.AddCell().SetFloat(s.AvgDistance)
		row.AddCell().SetFloat(s.EstFreight)
		row.AddCell().SetFloat(s.EstDays)
	}
	return nil
}

func addMarketSheet(f *xlsx.File, regions []model.OpportunityRegion) error {
	sheet, err := f.AddSheet("Market")
	if err != nil {
		return eris.Wrap(err, "report: add market sheet")
	}
	addHeaderRow(sheet, "state", "score", "grade", "market_revenue", "market_orders", "competitors", "orders_per_seller", "reason")
	for _, r := range regions {
		row := sheet.AddRow()
		row.AddCell().Value = r.State
		row.AddCell().SetFloat(r.OpportunityScore)
		row.AddCell().Value = r.OpportunityGrade
		row.AddCell().SetFloat(r.MarketRevenue)
		row.AddCell().SetInt(r.MarketOrders)
		row.AddCell().SetInt(r.Competitors)
		row.AddCell().SetFloat(r.OrdersPerSeller)
		row.AddCell().Value = r.Reason
	}
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().Value = n
	}
}

func addStringRow(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

func addFloatRow(sheet *xlsx.Sheet, key string, value float64) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().SetFloat(value)
}

func addIntRow(sheet *xlsx.Sheet, key string, value int) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().SetInt(value)
}
