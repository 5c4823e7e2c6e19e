package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"pixeltrader/pkg/utils"

	"github.com/goccy/go-json"
)

type Asset struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	CgID   string `json:"cgId"`
}

type Transaction struct {
	Type     string `json:"type"`
	Price    string `json:"price"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Strategy string `json:"strategy,omitempty"`
}

func main() {
	_ = utils.LoadEnv()
	baseURL := utils.GetEnv("SAMPLE_BASE_URL", "http://localhost:"+utils.GetEnv("APP_PORT", "2008")+"/api")

	usdt := createAsset(baseURL, Asset{Symbol: "USDT", Name: "Tether", CgID: "tether"})
	btc := createAsset(baseURL, Asset{Symbol: "BTC", Name: "Bitcoin", CgID: "bitcoin"})
	eth := createAsset(baseURL, Asset{Symbol: "ETH", Name: "Ethereum", CgID: "ethereum"})

	fmt.Printf("Created assets: USDT=%s, BTC=%s, ETH=%s\n", usdt.ID, btc.ID, eth.ID)

	startDate := time.Now().AddDate(0, 0, -7)
	createTransaction(baseURL, usdt.ID, Transaction{
		Type:   "BUY",
		Price:  "1",
		Amount: "10000",
		Date:   startDate.Format(time.DateOnly),
	})
	fmt.Println("Bought 10000 USDT")

	usdBalance := 10000.0
	btcPrice := 95000.0
	ethPrice := 3400.0

	for day := 0; day < 7; day++ {
		txDate := startDate.AddDate(0, 0, day+1).Format(time.DateOnly)

		btcBuy := usdBalance * 0.01
		btcAmount := btcBuy / btcPrice
		createTransaction(baseURL, btc.ID, Transaction{
			Type:     "BUY",
			Price:    fmt.Sprintf("%.2f", btcPrice),
			Amount:   fmt.Sprintf("%.8f", btcAmount),
			Date:     txDate,
			Strategy: "DCA",
		})
		usdBalance -= btcBuy
		fmt.Printf("Day %d: Bought %.8f BTC for %.2f USD\n", day+1, btcAmount, btcBuy)

		ethBuy := usdBalance * 0.01
		ethAmount := ethBuy / ethPrice
		createTransaction(baseURL, eth.ID, Transaction{
			Type:     "BUY",
			Price:    fmt.Sprintf("%.2f", ethPrice),
			Amount:   fmt.Sprintf("%.8f", ethAmount),
			Date:     txDate,
			Strategy: "SWING",
		})
		usdBalance -= ethBuy
		fmt.Printf("Day %d: Bought %.8f ETH for %.2f USD\n", day+1, ethAmount, ethBuy)

		btcPrice *= 0.99
		ethPrice *= 1.01
	}

	createTransaction(baseURL, eth.ID, Transaction{
		Type:     "SELL",
		Price:    fmt.Sprintf("%.2f", ethPrice),
		Amount:   "0.001",
		Date:     time.Now().Format(time.DateOnly),
		Strategy: "SWING",
	})
	fmt.Println("Sold 0.001 ETH")

	fmt.Printf("\nUSD spent: %.2f\n", 10000-usdBalance)
	fmt.Println("Sample data created successfully!")
}

func createAsset(baseURL string, asset Asset) Asset {
	body, _ := json.Marshal(asset)

	resp, err := http.Post(baseURL+"/assets", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to create asset %s: %v", asset.Symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("Failed to create asset %s: status %d", asset.Symbol, resp.StatusCode)
	}

	var created Asset
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatalf("Failed to decode asset response: %v", err)
	}
	return created
}

func createTransaction(baseURL, assetID string, tx Transaction) {
	body, _ := json.Marshal(tx)

	resp, err := http.Post(baseURL+"/assets/"+assetID+"/transactions", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to create transaction: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("Failed to create transaction: status %d", resp.StatusCode)
	}
}
