package constant

// Product category values accepted by the catalog.
const (
	CategoryFormal = "formal"
	CategoryCasual = "casual"
	CategoryEthnic = "ethnic"
)

// Gender category values accepted by the catalog.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"
)

var ValidCategories = map[string]bool{
	CategoryFormal: true,
	CategoryCasual: true,
	CategoryEthnic: true,
}

var ValidGenders = map[string]bool{
	GenderMen:    true,
	GenderWomen:  true,
	GenderUnisex: true,
}

// Whitelists for product list sorting.
var ValidSortFields = map[string]bool{
	"price":      true,
	"created_at": true,
	"name":       true,
}

var ValidSortOrders = map[string]bool{
	"ASC":  true,
	"DESC": true,
}

const (
	DefaultSortField = "created_at"
	DefaultSortOrder = "ASC"
)

// MinimumRentalPriceMinor is the minimum product price (in minor currency
// units) allowed into a cart: 1000 whole units.
const MinimumRentalPriceMinor int64 = 100000

// DailyPriceDivisor derives the per-day surcharge from the base price:
// dailyPrice = price / 100 (1 percent), snapshotted at add-time.
const DailyPriceDivisor int64 = 100
