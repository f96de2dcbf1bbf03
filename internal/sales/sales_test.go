package sales

import (
	"reflect"
	"testing"
)

func TestTableDef(t *testing.T) {
	def := TableDef("")
	if def.FQN != DefaultTable {
		t.Fatalf("FQN = %q, want %q", def.FQN, DefaultTable)
	}
	want := []string{
		"OrderId", "OrderItemId", "QuantityOrdered", "ItemPrice",
		"PromotionDiscount", "region", "total_sales", "net_sale",
	}
	if got := def.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ColumnNames() = %v, want %v", got, want)
	}

	var pks []string
	for _, c := range def.Columns {
		if c.PrimaryKey {
			pks = append(pks, c.Name)
		}
		if !c.Nullable {
			t.Fatalf("column %s is NOT NULL, want nullable", c.Name)
		}
	}
	if !reflect.DeepEqual(pks, []string{"OrderId"}) {
		t.Fatalf("primary key = %v, want [OrderId]", pks)
	}

	if got := TableDef("archive.sales").FQN; got != "archive.sales" {
		t.Fatalf("FQN = %q", got)
	}
}
