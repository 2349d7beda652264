package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mslade/expensemate/internal/core/domain"
)

func TestExpense_IsConverted(t *testing.T) {
	tests := []struct {
		name    string
		expense domain.Expense
		want    bool
	}{
		{
			name:    "no conversion",
			expense: domain.Expense{},
			want:    false,
		},
		{
			name: "converted",
			expense: domain.Expense{
				Conversion: &domain.Conversion{
					AmountBase: decimal.NewFromInt(100),
					Rate:       decimal.NewFromInt(1),
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expense.IsConverted())
		})
	}
}

func TestExpense_NormalizeCategory(t *testing.T) {
	category := domain.CategoryOperations

	income := domain.Expense{Type: domain.TypeIncome, CostCategory: &category}
	income.NormalizeCategory()
	assert.Nil(t, income.CostCategory, "income must not carry a cost category")

	cost := domain.Expense{Type: domain.TypeCost, CostCategory: &category}
	cost.NormalizeCategory()
	assert.NotNil(t, cost.CostCategory)
	assert.Equal(t, domain.CategoryOperations, *cost.CostCategory)
}

func TestExpense_HasAttachment(t *testing.T) {
	assert.False(t, (&domain.Expense{}).HasAttachment())
	assert.False(t, (&domain.Expense{AttachmentFilename: "a.pdf"}).HasAttachment())
	assert.True(t, (&domain.Expense{AttachmentData: []byte{1}}).HasAttachment())
}

func TestExpenseType_IsValid(t *testing.T) {
	assert.True(t, domain.TypeIncome.IsValid())
	assert.True(t, domain.TypeCost.IsValid())
	assert.False(t, domain.ExpenseType("refund").IsValid())
	assert.False(t, domain.ExpenseType("").IsValid())
}

func TestCostCategory_IsValid(t *testing.T) {
	for _, c := range []domain.CostCategory{
		domain.CategoryOperations,
		domain.CategoryFreelancers,
		domain.CategoryEquipment,
		domain.CategoryOther,
	} {
		assert.True(t, c.IsValid(), string(c))
	}
	assert.False(t, domain.CostCategory("travel").IsValid())
	assert.False(t, domain.CostCategory("").IsValid())
}
