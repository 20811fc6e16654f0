package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"glow-pos/internal/models"
)

// DeepLink builds the wa.me URL that opens a chat pre-filled with text.
// Phone must be digits with country code, no plus sign.
func DeepLink(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text))
}

// ReceiptText renders the sale receipt shared with the client after
// checkout.
func ReceiptText(brand models.ShopSettings, reference string, items []models.TransactionItem, total float64, method string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", strings.ToUpper(brand.Name))
	fmt.Fprintf(&b, "_Reçu de vente n°%s_\n", reference)
	b.WriteString("--------------------------\n")
	for _, it := range items {
		fmt.Fprintf(&b, "• %s x%d : %.0f FG\n", it.Name, it.Quantity, it.Price*float64(it.Quantity))
	}
	b.WriteString("--------------------------\n")
	fmt.Fprintf(&b, "*TOTAL : %.0f FG*\n", total)
	fmt.Fprintf(&b, "Mode : %s\n", method)
	b.WriteString("Merci pour votre achat ! ✨\n")
	fmt.Fprintf(&b, "_%s_", brand.Tagline)

	return b.String()
}

// DeliveryReportText renders the receiving report sent to the supplier:
// what arrived, what is still missing.
func DeliveryReportText(brand models.ShopSettings, order models.PurchaseOrder, dateLabel string) string {
	var b strings.Builder

	reference := order.Reference
	if reference == "" {
		reference = "CMD"
	}

	fmt.Fprintf(&b, "*%s - RAPPORT RÉCEPTION*\n", strings.ToUpper(brand.Name))
	fmt.Fprintf(&b, "Réf: %s\n", reference)
	b.WriteString("--------------------------\n")
	b.WriteString("✅ REÇUS :\n")
	for _, it := range order.Items {
		if it.Received {
			fmt.Fprintf(&b, "- %s (x%d)\n", it.Name, it.Quantity)
		}
	}

	var missing []models.OrderItem
	for _, it := range order.Items {
		if !it.Received {
			missing = append(missing, it)
		}
	}
	if len(missing) > 0 {
		b.WriteString("\n❌ NON LIVRÉS :\n")
		for _, it := range missing {
			fmt.Fprintf(&b, "- %s (x%d)\n", it.Name, it.Quantity)
		}
	}

	b.WriteString("--------------------------\n")
	fmt.Fprintf(&b, "_Validé le %s_", dateLabel)

	return b.String()
}
