package validation

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
)

func TestCheckSales_AllFieldsFound(t *testing.T) {
	t.Parallel()

	headers := []string{"銷貨日期", "銷貨單號", "品號", "品名", "銷貨數量"}
	if issues := CheckSales(headers, reconcile.NewResolver(nil)); len(issues) != 0 {
		t.Fatalf("want no issues got %v", issues)
	}
}

func TestCheckSales_MissingFields(t *testing.T) {
	t.Parallel()

	issues := CheckSales([]string{"日期", "數量"}, reconcile.NewResolver(nil))
	if len(issues) != 3 {
		t.Fatalf("want 3 issues got %d: %v", len(issues), issues)
	}

	if issues[0].Field != reconcile.SalesProductID || issues[0].Severity != SeverityError {
		t.Fatalf("first issue must be the missing product id as error, got %+v", issues[0])
	}
	for _, i := range issues[1:] {
		if i.Severity != SeverityWarning {
			t.Fatalf("field %s want warning got %s", i.Field, i.Severity)
		}
	}
	if CountErrors(issues) != 1 {
		t.Fatalf("want 1 error got %d", CountErrors(issues))
	}
}

func TestCheckTemplate_ExtraVariants(t *testing.T) {
	t.Parallel()

	headers := []string{"料號", "品名", "回收箱", "紙箱", "破壞袋", "膠帶", "緩衝材", "商品總重量", "包材規格"}

	issues := CheckTemplate(headers, reconcile.NewResolver(nil))
	if len(issues) != 1 || issues[0].Field != reconcile.TemplateProductID {
		t.Fatalf("want only the product id missing, got %v", issues)
	}

	r := reconcile.NewResolver(map[reconcile.Field][]string{reconcile.TemplateProductID: {"料號"}})
	if issues := CheckTemplate(headers, r); len(issues) != 0 {
		t.Fatalf("extra variant must resolve the id, got %v", issues)
	}
}

func TestFormatIssues(t *testing.T) {
	t.Parallel()

	if got := FormatIssues(nil); got != "All expected columns found." {
		t.Fatalf("unexpected empty format: %q", got)
	}

	out := FormatIssues(CheckSales(nil, reconcile.NewResolver(nil)))
	if !strings.HasPrefix(out, "Header check found 5 issue(s):") {
		t.Fatalf("unexpected header line: %q", out)
	}
	if !strings.Contains(out, "1. [ERROR] sales input, field 'sales_product_id'") {
		t.Fatalf("missing id line: %q", out)
	}
	if !strings.Contains(out, "'銷貨數量', '數量', 'qty', '售出數量'") {
		t.Fatalf("tried variants not listed: %q", out)
	}
}
