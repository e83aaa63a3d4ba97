// =============================================================================
// Packaging Reconciler - Logical Fields
// =============================================================================
//
// This module names the columns the engine reads, independent of the header
// text a given export uses for them.
//
// =============================================================================

package reconcile

import "strings"

// Field is a logical column the engine reads from an input row.
type Field int

// Packaging template fields.
const (
	TemplateProductID Field = iota
	TemplateProductName
	RecycleBox
	PaperBox
	BreakageBag
	Tape
	Buffer
	ProductWeight
	PackName

	// Sales ledger fields.
	SalesProductID
	Quantity
	SalesDate
	OrderID
	SalesProductName

	fieldCount
)

var fieldNames = [fieldCount]string{
	TemplateProductID:   "template_product_id",
	TemplateProductName: "template_product_name",
	RecycleBox:          "recycle_box",
	PaperBox:            "paper_box",
	BreakageBag:         "breakage_bag",
	Tape:                "tape",
	Buffer:              "buffer",
	ProductWeight:       "product_weight",
	PackName:            "pack_name",
	SalesProductID:      "sales_product_id",
	Quantity:            "quantity",
	SalesDate:           "sales_date",
	OrderID:             "order_id",
	SalesProductName:    "sales_product_name",
}

// defaultVariants lists the header labels of each field, most specific first.
var defaultVariants = [fieldCount][]string{
	TemplateProductID:   {"品號", "productid"},
	TemplateProductName: {"品名", "productname"},
	RecycleBox:          {"回收箱(KG)a1", "回收箱(KG)", "回收箱"},
	PaperBox:            {"紙箱(KG)", "紙箱"},
	BreakageBag:         {"破壞袋(KG)", "破壞袋"},
	Tape:                {"膠帶(KG)", "膠帶"},
	Buffer:              {"回收緩衝材(KG)", "緩衝材", "泡泡紙", "包材D"},
	ProductWeight:       {"商品總重量(KG)B", "商品總重量(KG)", "商品總重量"},
	PackName:            {"使用包材名稱", "包材規格", "使用包材名稱/規格"},
	SalesProductID:      {"品號"},
	Quantity:            {"銷貨數量", "數量", "qty", "售出數量"},
	SalesDate:           {"銷貨日期", "日期"},
	OrderID:             {"銷貨單號", "單號"},
	SalesProductName:    {"品名", "產品名稱"},
}

// TemplateFields are the fields read from the packaging template.
var TemplateFields = []Field{
	TemplateProductID, TemplateProductName,
	RecycleBox, PaperBox, BreakageBag, Tape, Buffer,
	ProductWeight, PackName,
}

// SalesFields are the fields read from the sales ledger.
var SalesFields = []Field{
	SalesProductID, Quantity, SalesDate, OrderID, SalesProductName,
}

// String returns the configuration name of the field.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// ParseField maps a configuration name back to its Field.
func ParseField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range fieldNames {
		if n == name {
			return Field(f), true
		}
	}
	return 0, false
}

// DefaultVariants returns a copy of the built-in header labels of f.
func DefaultVariants(f Field) []string {
	if f < 0 || f >= fieldCount {
		return nil
	}
	return append([]string(nil), defaultVariants[f]...)
}
