package models

// Category labels. The set is closed and must be reproduced verbatim by every
// consumer of the records, including the declaration order of the built-in table.
const (
	CategoryIncome        = "Income / Transfer In"
	CategoryRecharge      = "Recharge"
	CategoryFood          = "Food & Dining"
	CategoryFuel          = "Fuel"
	CategoryShopping      = "Shopping"
	CategoryGroceries     = "Groceries"
	CategoryTravel        = "Travel"
	CategoryEntertainment = "Entertainment"
	CategoryUtilities     = "Utilities"
	CategoryEducation     = "Education"
	CategoryHealthcare    = "Healthcare"
	CategoryBanking       = "Banking & Finance"
	CategoryTransferOut   = "Transfer Out"
	CategoryOtherExpense  = "Other Expense"
)

// CategoryLabels lists every label a record may carry, in table order,
// followed by the fallback.
var CategoryLabels = []string{
	CategoryIncome,
	CategoryRecharge,
	CategoryFood,
	CategoryFuel,
	CategoryShopping,
	CategoryGroceries,
	CategoryTravel,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryEducation,
	CategoryHealthcare,
	CategoryBanking,
	CategoryTransferOut,
	CategoryOtherExpense,
}

// IsKnownCategory reports whether label belongs to the closed vocabulary.
func IsKnownCategory(label string) bool {
	for _, l := range CategoryLabels {
		if l == label {
			return true
		}
	}
	return false
}

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
