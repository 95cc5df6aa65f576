package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	apiAssistant "scenario_valuation/pkg/api/assistant"
	apiConfig "scenario_valuation/pkg/api/config"
	apiScenario "scenario_valuation/pkg/api/scenario"
	apiValuation "scenario_valuation/pkg/api/valuation"
	coreAssistant "scenario_valuation/pkg/core/assistant"

	"scenario_valuation/pkg/core/agent"
	"scenario_valuation/pkg/core/marketdata"
	"scenario_valuation/pkg/core/scenario"
	"scenario_valuation/pkg/core/store"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Scenario store seeded with the three presets
	scenarioStore := scenario.NewStore()

	// Persistence: Postgres if DATABASE_URL is set, file cache otherwise
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[STORE] Postgres unavailable, using file cache: %v\n", err)
	}
	vault := store.NewScenarioVault(store.GetPool(), "")

	// Restore previously saved scenarios on top of the presets
	if saved, err := vault.List(ctx); err == nil {
		for _, sc := range saved {
			if _, getErr := scenarioStore.Get(sc.ID); getErr == nil {
				continue
			}
			if _, addErr := scenarioStore.Add(sc); addErr != nil {
				fmt.Printf("[STORE] Skipping saved scenario %s: %v\n", sc.ID, addErr)
			}
		}
		fmt.Printf("[STORE] Restored %d saved scenarios\n", len(saved))
	}

	// Market data client is optional; import endpoints degrade without it
	var market *marketdata.Client
	if m, err := marketdata.NewClientFromEnv(); err == nil {
		market = m
	} else {
		fmt.Printf("[MARKET] %v - actuals import disabled\n", err)
	}

	// Scenario endpoints
	apiScenario.InitHandler(scenarioStore, vault, market)
	http.HandleFunc("/api/scenarios", apiScenario.HandleList)
	http.HandleFunc("/api/scenarios/create", apiScenario.HandleCreate)
	http.HandleFunc("/api/scenarios/activate", apiScenario.HandleActivate)
	http.HandleFunc("/api/scenarios/duplicate", apiScenario.HandleDuplicate)
	http.HandleFunc("/api/scenarios/delete", apiScenario.HandleDelete)
	http.HandleFunc("/api/scenarios/drivers", apiScenario.HandleUpdateDrivers)
	http.HandleFunc("/api/scenarios/import", apiScenario.HandleImportActuals)
	http.HandleFunc("/api/market/search", apiScenario.HandleSearchTickers)

	// Valuation endpoints
	apiValuation.InitHandler(scenarioStore)
	http.HandleFunc("/api/valuation/project", apiValuation.HandleProject)
	http.HandleFunc("/api/valuation/compare", apiValuation.HandleCompare)

	// Assistant endpoints
	copilot := coreAssistant.New(agentMgr, scenarioStore, market)
	assistantHandler := apiAssistant.NewHandler(copilot)
	http.HandleFunc("/api/assistant/chat", assistantHandler.HandleChat)
	http.HandleFunc("/api/assistant/report", assistantHandler.HandleReport)
	http.HandleFunc("/api/assistant/research", assistantHandler.HandleResearch)
	http.HandleFunc("/api/assistant/document", assistantHandler.HandleDocument)

	// Config endpoints
	configHandler := apiConfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET  /api/scenarios")
	fmt.Println("  - POST /api/scenarios/create")
	fmt.Println("  - POST /api/scenarios/activate")
	fmt.Println("  - POST /api/scenarios/duplicate")
	fmt.Println("  - POST /api/scenarios/delete")
	fmt.Println("  - POST /api/scenarios/drivers")
	fmt.Println("  - POST /api/scenarios/import")
	fmt.Println("  - GET  /api/market/search")
	fmt.Println("  - POST /api/valuation/project")
	fmt.Println("  - GET  /api/valuation/compare")
	fmt.Println("  - POST /api/assistant/chat")
	fmt.Println("  - POST /api/assistant/report")
	fmt.Println("  - POST /api/assistant/research")
	fmt.Println("  - POST /api/assistant/document")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
