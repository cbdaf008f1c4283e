package model

// DefaultCategoryNames is the catalog seeded for a school on first access and
// always merged into the category-name listing.
var DefaultCategoryNames = []string{
	"Tuition Fee",
	"Admission Fee",
	"Registration Fee",
	"Examination Fee",
	"Library Fee",
	"Laboratory Fee",
	"Computer Fee",
	"Sports Fee",
	"Transport Fee",
	"Hostel Fee",
	"Uniform Fee",
	"Books & Stationery",
	"Activity Fee",
	"Development Fee",
	"Annual Charges",
	"Medical Fee",
	"Caution Deposit",
	"Late Fee",
}

const (
	SeedClassName   = "General"
	SeedDescription = "Default fee categories"
)
