// =============================================================================
// Packaging Reconciler - Report Module
// =============================================================================
//
// This module projects reconciliation results onto the fixed, ordered list
// of report columns and writes them as CSV, as an XLSX workbook, or as a
// bounded terminal preview. Every writer uses the same projection, so the
// three outputs always agree column for column.
//
// =============================================================================

package report

import (
	"strconv"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
)

// SheetName is the name of the single worksheet in the XLSX report.
const SheetName = "減量計算報表"

// Compliance flag texts.
const (
	CompliantYes = "是"
	CompliantNo  = "否"
)

// Column is one report column: its header and how a result fills it.
type Column struct {
	Header string
	Value  func(r reconcile.Result) any
}

// Columns is the report layout, in display order.
var Columns = []Column{
	{"銷貨日期", func(r reconcile.Result) any { return r.SalesDate }},
	{"銷貨單號", func(r reconcile.Result) any { return r.OrderID }},
	{"品號", func(r reconcile.Result) any { return r.ProductID }},
	{"品名", func(r reconcile.Result) any { return r.ProductName }},
	{"銷貨數量", func(r reconcile.Result) any { return r.Quantity }},
	{"秤總重（總包裏重 A）", func(r reconcile.Result) any { return r.ScaleWeight }},
	{"網購包材重量合計(KG)", func(r reconcile.Result) any { return r.PackagingWeight }},
	{"回收箱(KG)a1", func(r reconcile.Result) any { return r.RecycleBox }},
	{"紙箱(KG)", func(r reconcile.Result) any { return r.PaperBox }},
	{"破壞袋(KG)", func(r reconcile.Result) any { return r.BreakageBag }},
	{"膠帶(KG)", func(r reconcile.Result) any { return r.Tape }},
	{"回收緩衝材(KG)", func(r reconcile.Result) any { return r.Buffer }},
	{"商品總重量(KG)B", func(r reconcile.Result) any { return r.ProductWeight }},
	{"實際比值(%)", func(r reconcile.Result) any { return r.Ratio }},
	{"商品總重量比值分類", func(r reconcile.Result) any { return string(r.Bracket) }},
	{"規定比值(%)", func(r reconcile.Result) any { return strconv.Itoa(r.LimitRatio) + "%" }},
	{"是否符合", func(r reconcile.Result) any { return complianceText(r.Compliant) }},
	{"使用包材名稱/規格", func(r reconcile.Result) any { return r.Materials }},
	{"件數", func(r reconcile.Result) any { return r.ItemCount }},
}

// Headers returns the report column headers in order.
func Headers() []string {
	h := make([]string, len(Columns))
	for i, c := range Columns {
		h[i] = c.Header
	}
	return h
}

// Row returns the typed cell values of one result, in column order.
func Row(r reconcile.Result) []any {
	row := make([]any, len(Columns))
	for i, c := range Columns {
		row[i] = c.Value(r)
	}
	return row
}

// TextRow returns the cell values of one result as text, in column order.
func TextRow(r reconcile.Result) []string {
	row := make([]string, len(Columns))
	for i, c := range Columns {
		row[i] = formatCell(c.Value(r))
	}
	return row
}

func formatCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return reconcile.ToText(v)
	}
}

func complianceText(ok bool) string {
	if ok {
		return CompliantYes
	}
	return CompliantNo
}
