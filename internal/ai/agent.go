package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"glow-pos/internal/database"
	"glow-pos/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a natural-language question about the shop by letting the
// model call back into the catalogue and the ledger. One round of tool calls
// is enough for every flow we expose; inventory lookups get a second hop so
// "update X's price" can resolve the name to an ID first.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a cosmetics shop POS.
Prices are in Guinean francs (GNF).

RULES:
1. UPDATE: If a user asks to update a product by NAME, do NOT ask for the ID:
   - Call 'check_inventory' to find the ID.
   - Call 'update_product_price' using that ID.

2. READ: If a user asks for PRICE, COST, STOCK or DETAILS of a product:
   - Call 'check_inventory' to get the full list.
   - Read the JSON to find the item and answer.

3. MONEY: For revenue, expenses or profit use 'get_finance_summary'.
   For sales over a date range use 'get_sales_report'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, Sell Price, Cost or Stock.",
				},
				{
					Name:        "update_product_price",
					Description: "Update the selling price of a specific product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeNumber, Description: "New selling price in GNF"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "create_product",
					Description: "Add a new product to the inventory",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":     {Type: genai.TypeString, Description: "Name of the product"},
							"price":    {Type: genai.TypeNumber, Description: "Selling price in GNF"},
							"category": {Type: genai.TypeString, Description: "Family (Crème, Savon, Parfumerie...)"},
							"stock":    {Type: genai.TypeInteger, Description: "Initial stock count"},
						},
						Required: []string{"name", "price", "category", "stock"},
					},
				},
				{
					Name:        "get_finance_summary",
					Description: "Get total revenue, expenses and profit from the ledger.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return executeCheckInventory(ctx, session)
			case "update_product_price":
				return executeUpdatePrice(ctx, session, funcCall), nil
			case "create_product":
				return executeCreateProduct(ctx, session, funcCall), nil
			case "get_finance_summary":
				return executeFinanceSummary(ctx, session), nil
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	database.DB.Find(&products)

	type SimpleProduct struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Stock int     `json:"stock"`
		Price float64 `json:"price"`
		Cost  float64 `json:"cost"`
	}
	var simpleList []SimpleProduct
	for _, p := range products {
		simpleList = append(simpleList, SimpleProduct{
			ID:    p.ID,
			Name:  p.Name,
			Stock: p.Stock,
			Price: p.SellPrice,
			Cost:  p.CostPrice,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}

	// The model may now want to act on what it found (price update)
	for _, part := range finalResp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, session, funcCall), nil
			}
		}
	}
	return printResponse(finalResp), nil
}

func executeUpdatePrice(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	productID := int(args["product_id"].(float64))
	newPrice := args["new_price"].(float64)

	result := database.DB.Model(&models.Product{}).Where("id = ?", productID).Update("sell_price", newPrice)

	msg := "Success"
	if result.RowsAffected == 0 {
		msg = "Product ID not found"
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_product_price",
		Response: map[string]interface{}{"status": msg, "new_price": newPrice},
	})
	return printResponse(finalResp)
}

func executeCreateProduct(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	newProd := models.Product{
		Name:      args["name"].(string),
		SellPrice: args["price"].(float64),
		Category:  args["category"].(string),
		Stock:     int(args["stock"].(float64)),
	}
	database.DB.Create(&newProd)
	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "create_product",
		Response: map[string]interface{}{"status": "created", "id": newProd.ID},
	})
	return printResponse(finalResp)
}

func executeFinanceSummary(ctx context.Context, session *genai.ChatSession) string {
	summary, err := database.GetFinanceSummary()
	if err != nil {
		return "Error reading the ledger."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_finance_summary",
		Response: map[string]interface{}{
			"revenue":  summary.Revenue,
			"expenses": summary.Expenses,
			"profit":   summary.Profit,
		},
	})
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"sales_count": report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
