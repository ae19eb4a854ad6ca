package config

const (
	// Handshake
	ConfirmationCodeLength  = 4
	ConfirmationCodeCharset = "0123456789"

	// Matching
	MaxMatchAttempts = 3

	// Pub/Sub
	EventChannel = "swap:events"

	// Listing
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CategoryKeywords зіставляє назви товарів із категоріями ринку.
// Невідомі назви потрапляють у CategoryMisc.
var CategoryKeywords = map[string][]string{
	"Grains":  {"rice", "maize", "millet", "sorghum"},
	"Tubers":  {"yam", "cassava", "cocoyam", "sweet potato"},
	"Oils":    {"palm oil", "groundnut oil", "vegetable oil"},
	"Legumes": {"beans", "lentils", "soybeans"},
	"Spices":  {"onion", "garlic", "ginger"},
}

const CategoryMisc = "Misc"
