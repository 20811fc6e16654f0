package models

// DefaultSettings seeds the brand record on first boot. Editable in the
// admin console afterwards.
func DefaultSettings() ShopSettings {
	return ShopSettings{
		ID:         1,
		Name:       "GLOW PRO",
		Tagline:    "Tout ce dont vous avez besoin",
		PhoneGn:    "+224 625 00 00 00",
		PhoneSn:    "+221 77 500 00 00",
		WhatsApp:   "224625000000",
		Socials:    "glowpro",
		MapAddress: "Conakry, Guinée",
		LogoURL:    "https://cdn-icons-png.flaticon.com/512/3050/3050212.png",
	}
}

// CannedProduct is one entry of the built-in cosmetics catalog offered by
// the bulk import screen.
type CannedProduct struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CannedCatalog lists the reference articles a new shop can import as
// zero-stock stubs.
var CannedCatalog = []CannedProduct{
	{Name: "Nivea Soft 200ml", Category: "Crème"},
	{Name: "Savon Dudu Osun", Category: "Savon"},
	{Name: "Lait Clarifiant 500ml", Category: "Lotion"},
	{Name: "Garnier BB Cream", Category: "Maquillage"},
	{Name: "Vaseline Petroleum Jelly", Category: "Soin"},
	{Name: "Shampoing Dop Œuf", Category: "Cheveux"},
	{Name: "Dentifrice Signal 75ml", Category: "Hygiène"},
	{Name: "Déodorant Nivea Men", Category: "Hygiène"},
	{Name: "Parfum Sauvage 100ml", Category: "Parfumerie"},
	{Name: "Huile d'Amande Douce", Category: "Huile"},
	{Name: "Crème Visage 21", Category: "Soin"},
	{Name: "Savon Noir Liquide", Category: "Savon"},
}
