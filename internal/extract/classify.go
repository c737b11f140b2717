package extract

import (
	"strings"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// TypeResult is the outcome of ClassifyType.
type TypeResult struct {
	Direction    model.Direction
	IncomeScore  int
	ExpenseScore int
}

// Decisive reports whether the winning side had any evidence at all.
func (r TypeResult) Decisive() bool {
	if r.Direction == model.DirectionIncome {
		return r.IncomeScore > r.ExpenseScore
	}
	return r.ExpenseScore > r.IncomeScore
}

// ClassifyType decides whether receipt text is income or an expense by
// counting the distinct income and expense keywords present. Ties go to
// expense.
func ClassifyType(text string) TypeResult {
	lower := strings.ToLower(text)
	res := TypeResult{
		IncomeScore:  countKeywords(lower, incomeTypeKeywords),
		ExpenseScore: countKeywords(lower, expenseTypeKeywords),
	}
	res.Direction = model.DirectionExpense
	if res.IncomeScore > res.ExpenseScore {
		res.Direction = model.DirectionIncome
	}
	return res
}

func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// CategoryResult is the outcome of ClassifyCategory.
type CategoryResult struct {
	Category   model.Category
	Score      int
	Confidence model.Confidence
	// Overridden is set when Score belongs to a category the income rule
	// replaced.
	Overridden bool
}

// ClassifyCategory scores text against the default category table.
func ClassifyCategory(text string, dir model.Direction) CategoryResult {
	return DefaultCategoryTable.Classify(text, dir)
}

// Classify scores text against every category in table order. Each keyword
// counts once; the strictly highest score wins and earlier categories win
// ties. Income text may only carry an income category: anything else,
// including no match at all, becomes salary.
func (t CategoryTable) Classify(text string, dir model.Direction) CategoryResult {
	lower := strings.ToLower(text)

	best := model.CategoryOther
	bestScore := 0
	for _, ck := range t {
		score := 0
		for _, kw := range ck.Keywords {
			if strings.Contains(lower, kw.Term) {
				score += kw.Weight
			}
		}
		if score > bestScore {
			best = ck.Category
			bestScore = score
		}
	}

	overridden := false
	if dir == model.DirectionIncome && (bestScore == 0 || !best.AllowedForIncome()) {
		overridden = bestScore > 0
		best = model.CategorySalary
	}

	return CategoryResult{
		Category:   best,
		Score:      bestScore,
		Confidence: CategoryConfidence(bestScore),
		Overridden: overridden,
	}
}
