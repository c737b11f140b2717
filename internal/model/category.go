package model

// Category is a key from the closed category vocabulary.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategorySalary        Category = "salary"
	CategoryFreelance     Category = "freelance"
	CategoryBusiness      Category = "business"
	CategoryInvestment    Category = "investment"
	CategoryGift          Category = "gift"
	CategoryOther         Category = "other"
)

// Categories lists the vocabulary in its fixed enumeration order.
// Classifier ties resolve to the earliest entry.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategorySalary,
	CategoryFreelance,
	CategoryBusiness,
	CategoryInvestment,
	CategoryGift,
	CategoryOther,
}

var incomeCategories = map[Category]bool{
	CategorySalary:     true,
	CategoryFreelance:  true,
	CategoryInvestment: true,
	CategoryOther:      true,
}

// Valid reports whether c belongs to the vocabulary.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// AllowedForIncome reports whether c may label an income transaction.
func (c Category) AllowedForIncome() bool {
	return incomeCategories[c]
}

// ParseCategory returns the category named s, or false.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}
