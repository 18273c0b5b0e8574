package wizard

// Category is one of the predefined workplace-violation types a user can
// select when starting a report. Title and Description are the English
// strings stored on submitted rows; pages render the localized variants via
// the "issues.<id>.*" translation keys.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var categories = []Category{
	{
		ID:          "wage-theft",
		Title:       "Wage Theft",
		Description: "Not being paid for hours worked or overtime, or being paid less than minimum wage.",
	},
	{
		ID:          "unsafe-conditions",
		Title:       "Unsafe Working Conditions",
		Description: "Working environment that is dangerous or harmful to health.",
	},
	{
		ID:          "discrimination",
		Title:       "Discrimination or Harassment",
		Description: "Being treated unfairly or harassed due to race, gender, nationality, etc.",
	},
	{
		ID:          "wrongful-termination",
		Title:       "Wrongful Termination",
		Description: "Being fired without proper cause or due process.",
	},
	{
		ID:          "hour-violation",
		Title:       "Hour Violations",
		Description: "Being forced to work more than legally allowed hours or not given breaks.",
	},
	{
		ID:          "retaliation",
		Title:       "Retaliation",
		Description: "Facing negative consequences after reporting issues or exercising your rights.",
	},
	{
		ID:          "benefits-denial",
		Title:       "Benefits Denial",
		Description: "Being unfairly denied benefits you are entitled to, such as healthcare or paid leave.",
	},
	{
		ID:          "other",
		Title:       "Other Issues",
		Description: "Any other workplace violations not listed above.",
	},
}

// Categories returns the full catalog in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks a category up by its stable id.
func CategoryByID(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
