package services

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"transaction-query/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Merchant categories used by the generator
const (
	CategoryGroceries      = "groceries"
	CategoryDining         = "dining"
	CategoryTransportation = "transportation"
	CategoryShopping       = "shopping"
	CategoryEntertainment  = "entertainment"
	CategoryBillsUtilities = "bills_utilities"
	CategoryHealthcare     = "healthcare"
	CategoryTravel         = "travel"
	CategoryEducation      = "education"
)

// MerchantInfo describes a merchant generated transactions are attributed to
type MerchantInfo struct {
	Name     string
	Category string
}

type transactionGenerator struct {
	merchantPool []MerchantInfo
	rng          *rand.Rand
}

const (
	businessHoursStart = 6
	businessHoursEnd   = 24
	refundRate         = 0.1
)

// NewTransactionGenerator creates a generator of realistic transaction records
func NewTransactionGenerator() TransactionGeneratorInterface {
	return NewTransactionGeneratorWithSeed(time.Now().UnixNano())
}

// NewTransactionGeneratorWithSeed creates a generator whose output is reproducible for a seed
func NewTransactionGeneratorWithSeed(seed int64) TransactionGeneratorInterface {
	return &transactionGenerator{
		merchantPool: initializeMerchantPool(),
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func initializeMerchantPool() []MerchantInfo {
	return []MerchantInfo{
		{"Walmart Supercenter", CategoryGroceries},
		{"Kroger", CategoryGroceries},
		{"Whole Foods Market", CategoryGroceries},
		{"Trader Joe's", CategoryGroceries},
		{"Costco Wholesale", CategoryGroceries},

		{"Starbucks", CategoryDining},
		{"Chipotle Mexican Grill", CategoryDining},
		{"Panera Bread", CategoryDining},
		{"Olive Garden", CategoryDining},
		{"Five Guys", CategoryDining},

		{"Uber", CategoryTransportation},
		{"Shell", CategoryTransportation},
		{"Chevron", CategoryTransportation},
		{"Amtrak", CategoryTransportation},

		{"Amazon.com", CategoryShopping},
		{"Best Buy", CategoryShopping},
		{"Home Depot", CategoryShopping},
		{"Barnes & Noble", CategoryShopping},
		{"IKEA", CategoryShopping},

		{"Netflix", CategoryEntertainment},
		{"Spotify", CategoryEntertainment},
		{"AMC Theaters", CategoryEntertainment},

		{"Verizon Wireless", CategoryBillsUtilities},
		{"Comcast Xfinity", CategoryBillsUtilities},
		{"PG&E", CategoryBillsUtilities},
		{"Water Department", CategoryBillsUtilities},

		{"CVS Pharmacy", CategoryHealthcare},
		{"Walgreens", CategoryHealthcare},

		{"Delta Air Lines", CategoryTravel},
		{"Marriott Hotels", CategoryTravel},

		{"Udemy", CategoryEducation},
		{"Coursera", CategoryEducation},
	}
}

// GetMerchantPool returns the merchant pool
func (g *transactionGenerator) GetMerchantPool() []MerchantInfo {
	return g.merchantPool
}

// SelectRandomMerchant selects a random merchant from the pool
func (g *transactionGenerator) SelectRandomMerchant() MerchantInfo {
	return g.merchantPool[g.rng.Intn(len(g.merchantPool))]
}

// GenerateAmount generates a realistic amount based on category
func (g *transactionGenerator) GenerateAmount(category string) decimal.Decimal {
	minValue, maxValue := g.getAmountRange(category)
	amount := minValue + g.rng.Float64()*(maxValue-minValue)
	return decimal.NewFromFloat(amount).Round(2)
}

func (g *transactionGenerator) getAmountRange(category string) (float64, float64) {
	ranges := map[string][2]float64{
		CategoryGroceries:      {15.00, 250.00},
		CategoryDining:         {8.00, 120.00},
		CategoryTransportation: {10.00, 80.00},
		CategoryShopping:       {25.00, 450.00},
		CategoryEntertainment:  {10.00, 60.00},
		CategoryBillsUtilities: {50.00, 250.00},
		CategoryHealthcare:     {20.00, 300.00},
		CategoryTravel:         {100.00, 800.00},
		CategoryEducation:      {30.00, 200.00},
	}

	if r, exists := ranges[category]; exists {
		return r[0], r[1]
	}
	return 10.00, 100.00
}

// GenerateTimestamp generates a random minute-precision timestamp within the date range,
// during business hours
func (g *transactionGenerator) GenerateTimestamp(startDate, endDate time.Time) time.Time {
	diff := endDate.Sub(startDate)
	if diff <= 0 {
		return startDate.UTC().Truncate(time.Minute)
	}

	timestamp := startDate.Add(time.Duration(g.rng.Int63n(int64(diff)))).UTC()

	hour := businessHoursStart + g.rng.Intn(businessHoursEnd-businessHoursStart)
	minute := g.rng.Intn(60)

	return time.Date(
		timestamp.Year(),
		timestamp.Month(),
		timestamp.Day(),
		hour,
		minute,
		0,
		0,
		time.UTC,
	)
}

// GenerateTransactions generates count records between startDate and endDate in chronological order
func (g *transactionGenerator) GenerateTransactions(startDate, endDate time.Time, count int) []models.TransactionRecord {
	if count <= 0 {
		return []models.TransactionRecord{}
	}

	records := make([]models.TransactionRecord, count)
	for i := range records {
		merchant := g.SelectRandomMerchant()
		records[i] = models.TransactionRecord{
			TransactionID: "TX-" + strings.ToUpper(uuid.NewString()[:8]),
			Timestamp:     g.GenerateTimestamp(startDate, endDate),
			Credit:        g.GenerateAmount(merchant.Category),
			Detail:        g.describe(merchant),
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return records
}

func (g *transactionGenerator) describe(merchant MerchantInfo) string {
	if g.rng.Float64() < refundRate {
		return "Refund from " + merchant.Name
	}

	switch merchant.Category {
	case CategoryBillsUtilities:
		return "Monthly utility bill - " + merchant.Name
	case CategoryEntertainment, CategoryEducation:
		return "Subscription renewal - " + merchant.Name
	case CategoryTravel:
		return "Online payment for " + merchant.Name
	default:
		return "Purchase at " + merchant.Name
	}
}
