package extract

import "github.com/tallyup-dev/tallyup/internal/model"

// AmountKeywords mark lines that usually carry the payable figure.
var AmountKeywords = []string{
	"grand total",
	"net amount",
	"sub total",
	"subtotal",
	"total",
	"amount",
	"balance",
	"payable",
	"paid",
	"due",
	"pay",
	"sum",
	"tendered",
}

// IncomeAmountKeywords extend AmountKeywords for slips and credit advices.
var IncomeAmountKeywords = append(append([]string{}, AmountKeywords...),
	"net pay",
	"salary",
	"credited",
	"received",
	"deposit",
	"refund",
)

// HintsFor returns the amount keyword set relevant to a direction.
func HintsFor(dir model.Direction) []string {
	if dir == model.DirectionIncome {
		return IncomeAmountKeywords
	}
	return AmountKeywords
}

var incomeTypeKeywords = []string{
	"salary",
	"payment received",
	"deposit",
	"credit",
	"credited",
	"refund",
	"bonus",
	"cashback",
	"received",
	"interest",
	"dividend",
	"commission",
	"income",
	"reimbursement",
}

var expenseTypeKeywords = []string{
	"receipt",
	"invoice",
	"bill",
	"purchase",
	"debit",
	"total",
	"tax",
	"vat",
	"subtotal",
	"qty",
	"item",
	"change",
	"cashier",
	"paid",
}

// WeightedKeyword contributes Weight to a category score when Term occurs.
type WeightedKeyword struct {
	Term   string
	Weight int
}

// CategoryKeywords is the keyword set for one category.
type CategoryKeywords struct {
	Category model.Category
	Keywords []WeightedKeyword
}

// CategoryTable is an ordered list of category keyword sets. Order decides ties.
type CategoryTable []CategoryKeywords

// DefaultCategoryTable follows the vocabulary order in model.Categories.
var DefaultCategoryTable = CategoryTable{
	{model.CategoryFood, []WeightedKeyword{
		{"restaurant", 3}, {"bakery", 3}, {"pizza", 3}, {"burger", 3}, {"kfc", 3},
		{"mcdonald", 3}, {"kottu", 3}, {"cafe", 2}, {"food", 2}, {"coffee", 2},
		{"lunch", 2}, {"dinner", 2}, {"breakfast", 2}, {"grocery", 2}, {"meal", 2},
		{"supermarket", 2}, {"keells", 2}, {"cargills", 2}, {"hotel", 1}, {"rice", 1},
	}},
	{model.CategoryTransport, []WeightedKeyword{
		{"uber", 3}, {"pickme", 3}, {"taxi", 3}, {"fuel", 3}, {"petrol", 3},
		{"diesel", 3}, {"ceypetco", 3}, {"lanka ioc", 3}, {"bus fare", 2}, {"train", 2},
		{"parking", 2}, {"toll", 2}, {"fare", 2}, {"highway", 1},
	}},
	{model.CategoryShopping, []WeightedKeyword{
		{"fashion", 3}, {"clothing", 3}, {"apparel", 3}, {"daraz", 3}, {"odel", 3},
		{"boutique", 3}, {"mart", 2}, {"shopping", 2}, {"shoes", 2}, {"electronics", 2},
		{"mall", 2}, {"store", 1}, {"shop", 1},
	}},
	{model.CategoryUtilities, []WeightedKeyword{
		{"electricity", 3}, {"ceb", 3}, {"nwsdb", 3}, {"leco", 3}, {"broadband", 3},
		{"litro", 3}, {"water", 2}, {"dialog", 2}, {"mobitel", 2}, {"slt", 2},
		{"internet", 2}, {"telecom", 2}, {"gas", 2}, {"bill", 1},
	}},
	{model.CategoryEntertainment, []WeightedKeyword{
		{"cinema", 3}, {"movie", 3}, {"netflix", 3}, {"spotify", 3}, {"concert", 3},
		{"theatre", 3}, {"game", 2}, {"ticket", 1},
	}},
	{model.CategoryHealth, []WeightedKeyword{
		{"pharmacy", 3}, {"hospital", 3}, {"clinic", 3}, {"medical", 3}, {"doctor", 3},
		{"channeling", 3}, {"dental", 3}, {"laboratory", 2}, {"medicine", 2}, {"osu sala", 2},
	}},
	{model.CategoryEducation, []WeightedKeyword{
		{"school", 3}, {"tuition", 3}, {"university", 3}, {"college", 3}, {"course", 2},
		{"books", 2}, {"bookshop", 2}, {"exam", 2}, {"fees", 1},
	}},
	{model.CategorySalary, []WeightedKeyword{
		{"salary", 3}, {"payroll", 3}, {"wages", 3}, {"pay slip", 3}, {"payslip", 3},
		{"net pay", 2}, {"allowance", 2}, {"bonus", 2},
	}},
	{model.CategoryFreelance, []WeightedKeyword{
		{"freelance", 3}, {"upwork", 3}, {"fiverr", 3}, {"consulting", 2},
		{"commission", 2}, {"contract", 1}, {"invoice", 1},
	}},
	{model.CategoryBusiness, []WeightedKeyword{
		{"wholesale", 3}, {"business", 2}, {"supplier", 2}, {"vendor", 2},
		{"pvt ltd", 2}, {"inventory", 2}, {"company", 1}, {"stock", 1},
	}},
	{model.CategoryInvestment, []WeightedKeyword{
		{"dividend", 3}, {"fixed deposit", 3}, {"unit trust", 3}, {"investment", 3},
		{"treasury", 3}, {"interest", 2}, {"shares", 2}, {"bond", 2},
	}},
	{model.CategoryGift, []WeightedKeyword{
		{"gift", 3}, {"donation", 3}, {"charity", 3}, {"wedding", 2}, {"birthday", 2},
	}},
	{model.CategoryOther, nil},
}
