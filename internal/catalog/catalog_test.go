package catalog

import (
	"testing"

	"github.com/betterchoicedev/checkout-api/internal/domain"
)

func TestNewWithProducts_RejectsInvalidDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		products []domain.Product
	}{
		{
			name:     "missing id",
			products: []domain.Product{{Prices: []domain.Price{{ID: "p1"}}}},
		},
		{
			name: "duplicate id",
			products: []domain.Product{
				{ID: "A", Prices: []domain.Price{{ID: "p1"}}},
				{ID: "A", Prices: []domain.Price{{ID: "p2"}}},
			},
		},
		{
			name:     "no prices",
			products: []domain.Product{{ID: "A"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewWithProducts(tc.products); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestAll_PreservesDeclarationOrder(t *testing.T) {
	c := New()

	first := c.All()
	second := c.All()
	if len(first) == 0 {
		t.Fatal("catalog is empty")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("iteration not restartable: %q != %q", first[i].ID, second[i].ID)
		}
	}

	want := []string{"NUTRITION_TRAINING", "NUTRITION_ONLY", "CONSULTATION", "RECIPE_LIBRARY"}
	if len(first) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(first))
	}
	for i, id := range want {
		if first[i].ID != id {
			t.Fatalf("product %d = %q, want %q", i, first[i].ID, id)
		}
	}
}

func TestProduct_UnknownIDIsAbsentNotError(t *testing.T) {
	c := New()
	if _, ok := c.Product("NO_SUCH_PRODUCT"); ok {
		t.Fatal("expected absent result for unknown product id")
	}
}

func TestByCategory_ExactMatch(t *testing.T) {
	c := New()

	nutrition := c.ByCategory(domain.CategoryNutrition)
	if len(nutrition) != 1 || nutrition[0].ID != "NUTRITION_ONLY" {
		t.Fatalf("nutrition = %+v", nutrition)
	}
	if got := c.ByCategory(domain.Category("fitness")); got != nil {
		t.Fatalf("expected no products for unknown category, got %+v", got)
	}
}

func TestPriceByID_ReturnsOwningProduct(t *testing.T) {
	c := New()

	// price_consult_single is declared three products deep.
	price, product, ok := c.PriceByID("price_consult_single")
	if !ok {
		t.Fatal("expected price to be found")
	}
	if product.ID != "CONSULTATION" {
		t.Fatalf("owning product = %q, want CONSULTATION", product.ID)
	}
	if price.Recurring() {
		t.Fatal("consultation price must be one-time")
	}

	if _, _, ok := c.PriceByID("price_unknown"); ok {
		t.Fatal("expected absent result for unknown price id")
	}
}

func TestDefaultCatalog_PriceDeclarations(t *testing.T) {
	c := New()

	p, ok := c.Product("NUTRITION_ONLY")
	if !ok {
		t.Fatal("NUTRITION_ONLY missing")
	}
	if len(p.Prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(p.Prices))
	}
	three, six := p.Prices[0], p.Prices[1]
	if three.CommitmentMonths != 3 || three.AmountILS != 58000 {
		t.Fatalf("3-month price = %+v", three)
	}
	if six.CommitmentMonths != 6 || six.AmountILS != 50000 || six.Discount != "14% off" {
		t.Fatalf("6-month price = %+v", six)
	}
}
