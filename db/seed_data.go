package db

// Seed rows. Products and raw materials are inserted in this order so a fresh
// database assigns ids 1..3 and 1..6.
var (
	seedProducts = []string{"Cake", "Bread", "Cookie"}

	seedRawMaterials = []string{
		"Wheat Flour", "Sugar", "Yeast",
		"Eggs", "Powdered Milk", "Butter",
	}
)

type seedConversionRate struct {
	Product        string
	RawMaterial    string
	QuantityNeeded float64
}

var seedConversionRates = []seedConversionRate{
	{"Cake", "Wheat Flour", 200},
	{"Cake", "Sugar", 100},
	{"Cake", "Yeast", 10},
	{"Cake", "Eggs", 3}, // units
	{"Cake", "Powdered Milk", 50},
	{"Cake", "Butter", 80},

	{"Bread", "Wheat Flour", 300},
	{"Bread", "Sugar", 20},
	{"Bread", "Yeast", 5},
	{"Bread", "Butter", 30},

	{"Cookie", "Wheat Flour", 150},
	{"Cookie", "Sugar", 50},
	{"Cookie", "Powdered Milk", 30},
	{"Cookie", "Butter", 50},
}

type seedSale struct {
	Product string
	Date    string
	Sales   float64
}

var seedSales = []seedSale{
	{"Cake", "20240101", 20},
	{"Cake", "20240102", 25},
	{"Cake", "20240103", 30},

	{"Bread", "20240101", 50},
	{"Bread", "20240102", 55},
	{"Bread", "20240103", 60},

	{"Cookie", "20240101", 40},
	{"Cookie", "20240102", 45},
	{"Cookie", "20240103", 50},
}
